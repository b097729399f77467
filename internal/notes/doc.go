// Package notes persists the user's flashcards and essay notes as flat
// name to text maps. Every mutation is written through to disk before it
// returns.
package notes
