package shader

import (
	_ "embed"
	"strings"
)

// Prologue is the fixed uniform header placed in front of every user shader
// before it is parsed, validated and compiled. It declares the Uniforms
// block bound at @group(0) @binding(0) as `uniforms` and the vs_main vertex
// stage that covers the surface with a quad.
//
//go:embed shaders/prologue.wgsl
var Prologue string

// DefaultFragment is the shader shown when no file was opened before.
//
//go:embed shaders/default.wgsl
var DefaultFragment string

// EmptyFragment is the template for a new shader.
//
//go:embed shaders/empty.wgsl
var EmptyFragment string

// VertexEntryPoint is the vertex stage declared by the prologue.
const VertexEntryPoint = "vs_main"

// PrologueLen is the number of bytes that precede user text in the
// concatenated source. Diagnostic spans are shifted left by this amount to
// address the user's own buffer.
var PrologueLen = len(Prologue)

// Concat returns the full module source for the given user text.
func Concat(text string) string {
	var sb strings.Builder
	sb.Grow(len(Prologue) + len(text))
	sb.WriteString(Prologue)
	sb.WriteString(text)
	return sb.String()
}
