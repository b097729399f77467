package render

// Tag names a text style inside a buffer. The empty tag is plain text.
type Tag string

const (
	TagNone        Tag = ""
	TagHeadword    Tag = "headword"
	TagTranslation Tag = "translation"
	TagSynonym     Tag = "synonym"
	TagAntonym     Tag = "antonym"
	TagError       Tag = "error"
)

// Buffer is an append-mostly styled text surface. Positions and lengths are
// counted in characters (runes), not bytes. Implementations clamp
// out-of-range positions instead of failing.
//
// A Buffer is owned by a single UI context and is not required to be safe
// for concurrent use.
type Buffer interface {
	// Append adds text with the given tag at the end of the buffer.
	Append(text string, tag Tag)
	// Clear removes all content.
	Clear()
	// FindFirst returns the character offset of the first occurrence of
	// substr, or -1 if it does not occur.
	FindFirst(substr string) int
	// Delete removes length characters starting at pos.
	Delete(pos, length int)
	// Insert places text with the given tag at pos.
	Insert(pos int, text string, tag Tag)
	// Text returns the whole buffer content without styling.
	Text() string
}

// Segment is a run of text sharing one tag.
type Segment struct {
	Text string
	Tag  Tag
}

// Snapshotter is implemented by buffers that can export their styled
// content, which makes results cacheable.
type Snapshotter interface {
	Segments() []Segment
}

// Replay clears buf and appends the given segments in order.
func Replay(buf Buffer, segments []Segment) {
	buf.Clear()
	for _, seg := range segments {
		buf.Append(seg.Text, seg.Tag)
	}
}
