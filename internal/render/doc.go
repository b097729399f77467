// Package render provides the styled text buffer that lookup results are
// painted into, an in-memory implementation of it and a terminal writer
// for printing buffer contents with colors.
package render
