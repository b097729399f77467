package internal

// Version is the application version shown by --version and in the window
// title
const Version = "0.3.0"
