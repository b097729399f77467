// Package lookup runs dictionary lookups against a render buffer.
//
// A Session owns the dictionary client, the translator, the buffer and the
// dispatcher that serializes buffer mutations onto the UI-owning goroutine.
// Every call to Session.Lookup starts a Task: the task fetches the entries,
// paints the English definitions together with "đang dịch..." placeholders
// in a single UI step, then translates the definitions one after another and
// reveals each translation character by character in place of its
// placeholder. Starting a new lookup cancels the previous task.
package lookup
