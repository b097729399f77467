package render

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
)

// tagColors maps buffer tags to colorstring codes for terminal output
var tagColors = map[Tag]string{
	TagHeadword:    "[bold][magenta]",
	TagTranslation: "[green]",
	TagSynonym:     "[blue]",
	TagAntonym:     "[red]",
	TagError:       "[yellow]",
}

// WriteANSI writes segments to w. Tagged segments are wrapped in terminal
// color codes when color is true.
func WriteANSI(w io.Writer, segments []Segment, color bool) error {
	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !color,
	}

	for _, seg := range segments {
		code, styled := tagColors[seg.Tag]
		if styled {
			if _, err := io.WriteString(w, c.Color(code)); err != nil {
				return err
			}
		}
		// Text is written verbatim so brackets in definitions are not
		// mistaken for color codes.
		if _, err := io.WriteString(w, seg.Text); err != nil {
			return err
		}
		if styled {
			if _, err := io.WriteString(w, c.Color("[reset]")); err != nil {
				return err
			}
		}
	}
	return nil
}

// ColorEnabled reports whether f is a terminal that should get colors
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
