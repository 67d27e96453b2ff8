package shader

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Span is a half-open byte range [Start, End) into shader source.
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes covered.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// ShiftLeft moves the span n bytes towards the start of the text.
func (s Span) ShiftLeft(n uint32) Span {
	return Span{Start: s.Start - n, End: s.End - n}
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Slice returns the text covered by the span, or false if the span does
// not fit inside text.
func (s Span) Slice(text string) (string, bool) {
	if s.End < s.Start || int64(s.End) > int64(len(text)) {
		return "", false
	}
	return text[s.Start:s.End], true
}

// Label attaches a message to a span.
type Label struct {
	Span    Span
	Message string

	// Internal is set by Diagnostic.Remap when the span starts inside the
	// prologue, which points at the fixed header rather than user code.
	Internal bool
}

func offset32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		if n < 0 {
			return 0
		}
		return math.MaxUint32
	}
	return v
}

// offsetOf converts a 1-based line and column (counted in runes) into a
// byte offset in text. Out of range positions are clamped to the nearest
// line end or to the end of text.
func offsetOf(text string, line, column int) int {
	if line < 1 {
		return 0
	}
	start := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return len(text)
		}
		start += nl + 1
	}
	end := len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	off := start
	for c := 1; c < column && off < end; c++ {
		_, size := utf8.DecodeRuneInString(text[off:end])
		off += size
	}
	return off
}

// tokenSpan returns the span of the token beginning at off: a run of
// identifier characters, or a single rune. At the end of text the span is
// empty.
func tokenSpan(text string, off int) Span {
	if off >= len(text) {
		return Span{Start: offset32(len(text)), End: offset32(len(text))}
	}
	end := off
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	if end == off {
		_, size := utf8.DecodeRuneInString(text[off:])
		end = off + size
	}
	return Span{Start: offset32(off), End: offset32(end)}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
