package editor

import "errors"

// ErrEditOutOfRange is returned for an Edit whose range does not fit the
// buffer.
var ErrEditOutOfRange = errors.New("editor: edit out of range")

// Edit replaces the bytes [Start, End) of the buffer with Text.
type Edit struct {
	Start, End int
	Text       string
}

// Insert returns an edit inserting text at off.
func Insert(off int, text string) Edit {
	return Edit{Start: off, End: off, Text: text}
}

// Buffer is the shader text. The zero value is an empty buffer.
type Buffer struct {
	text string
}

// Text returns the buffer contents.
func (b *Buffer) Text() string {
	return b.text
}

// Len returns the length in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Set replaces the whole buffer.
func (b *Buffer) Set(text string) {
	b.text = text
}

// Apply performs e.
func (b *Buffer) Apply(e Edit) error {
	if e.Start < 0 || e.End < e.Start || e.End > len(b.text) {
		return ErrEditOutOfRange
	}
	b.text = b.text[:e.Start] + e.Text + b.text[e.End:]
	return nil
}
