package editor

import "github.com/gogpu/halo/shader"

// State is the validation state of a Session.
type State uint8

const (
	Validated State = iota
	Validating
	Invalid
	NeedsValidation
)

func (s State) String() string {
	switch s {
	case Validated:
		return "validated"
	case Validating:
		return "validating"
	case Invalid:
		return "invalid"
	case NeedsValidation:
		return "needs validation"
	}
	return "unknown"
}

// Status is the state together with the diagnostic of an Invalid state.
// Diagnostic spans are relative to the session text.
type Status struct {
	State      State
	Diagnostic *shader.Diagnostic
}

// Event is delivered to subscribers after every status change.
type Event struct {
	Status Status
	// Version is the shader.Slot version at the time of the change.
	Version uint64
}
