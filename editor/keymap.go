package editor

import "github.com/gogpu/gpucontext"

// Action is a command triggered by a key binding.
type Action uint8

const (
	ActionNone Action = iota
	ActionValidate
	ActionSave
	ActionNew
)

func (a Action) String() string {
	switch a {
	case ActionValidate:
		return "validate"
	case ActionSave:
		return "save"
	case ActionNew:
		return "new"
	}
	return "none"
}

// Binding is a key together with the modifiers that must be held.
type Binding struct {
	Key  gpucontext.Key
	Mods gpucontext.Modifiers
}

// Keymap maps bindings to actions.
type Keymap map[Binding]Action

const modMask = gpucontext.ModShift | gpucontext.ModControl | gpucontext.ModAlt | gpucontext.ModSuper

// DefaultKeymap binds Ctrl+Enter to validate and Ctrl+S / Ctrl+N to save and
// new. The Super variants cover macOS.
func DefaultKeymap() Keymap {
	return Keymap{
		{gpucontext.KeyEnter, gpucontext.ModControl}: ActionValidate,
		{gpucontext.KeyEnter, gpucontext.ModSuper}:   ActionValidate,
		{gpucontext.KeyS, gpucontext.ModControl}:     ActionSave,
		{gpucontext.KeyS, gpucontext.ModSuper}:       ActionSave,
		{gpucontext.KeyN, gpucontext.ModControl}:     ActionNew,
		{gpucontext.KeyN, gpucontext.ModSuper}:       ActionNew,
	}
}

// Lookup returns the action bound to key with exactly mods held.
func (k Keymap) Lookup(key gpucontext.Key, mods gpucontext.Modifiers) Action {
	return k[Binding{Key: key, Mods: mods & modMask}]
}
