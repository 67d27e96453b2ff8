package shader

import (
	"errors"
	"strings"
)

// Kind classifies a Diagnostic.
type Kind uint8

const (
	// KindParse is a syntax or lowering failure. It carries labels.
	KindParse Kind = iota
	// KindSemantic is a validation failure on a well-formed module.
	KindSemantic
	// KindBackend is a pipeline compile failure reported by the GPU backend.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindSemantic:
		return "semantic"
	case KindBackend:
		return "backend"
	}
	return "unknown"
}

// MissingEntryPoint is the message of a diagnostic for text that declares
// no fragment stage.
const MissingEntryPoint = "missing @fragment entry point"

// Diagnostic describes why shader text was rejected. Label spans address
// the concatenated prologue and user text until Remap is applied.
type Diagnostic struct {
	Kind    Kind
	Message string
	Labels  []Label
}

func (d *Diagnostic) Error() string {
	return d.Kind.String() + " error: " + d.Message
}

// Remap returns a copy of d whose label spans are relative to user text.
// Labels starting inside the prologue keep their spans and are marked
// Internal.
func (d *Diagnostic) Remap(prologueLen int) *Diagnostic {
	shift := offset32(prologueLen)
	out := &Diagnostic{Kind: d.Kind, Message: d.Message}
	if len(d.Labels) == 0 {
		return out
	}
	out.Labels = make([]Label, len(d.Labels))
	for i, l := range d.Labels {
		if l.Internal || l.Span.Start < shift {
			l.Internal = true
		} else {
			l.Span = l.Span.ShiftLeft(shift)
		}
		out.Labels[i] = l
	}
	return out
}

// Format renders the diagnostic for display against the user text it was
// remapped to:
//
//	message:
//	    label:
//	        source slice
//
// Internal labels and labels that fall outside text print without a slice.
func (d *Diagnostic) Format(text string) string {
	var sb strings.Builder
	sb.WriteString(d.Message)
	for _, l := range d.Labels {
		sb.WriteString(":\n    ")
		msg := l.Message
		if msg == "" {
			msg = "here"
		}
		sb.WriteString(msg)
		if l.Internal {
			sb.WriteString(" (in prologue)")
			continue
		}
		if s, ok := l.Span.Slice(text); ok && s != "" {
			sb.WriteString(":\n        ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// BackendDiagnostic converts a backend compile failure into a diagnostic
// that can be shown next to validation errors. A Diagnostic already present
// in the chain is returned as is.
func BackendDiagnostic(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return &Diagnostic{Kind: KindBackend, Message: err.Error()}
}
