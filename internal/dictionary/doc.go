// Package dictionary is a client for the Merriam-Webster Collegiate
// dictionary and Thesaurus JSON APIs. Responses are decoded into a tagged
// Result that separates "not found", "suggestions" and "entries".
package dictionary
