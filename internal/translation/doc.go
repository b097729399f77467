// Package translation translates definitions between languages. Several
// backends are available (Google web endpoint, OpenAI, Gemini); Safe wraps
// any of them so that callers always get usable text back, falling back to
// the source string when the backend fails.
package translation
