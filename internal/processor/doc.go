// Package processor contains the application wiring for smartdict. It
// builds the dictionary client, the translator and the notes stores from
// the resolved settings and runs the single word, batch and GUI modes.
// This package serves as the main coordinator between all other components.
package processor
