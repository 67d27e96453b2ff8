package editor

import "github.com/gogpu/halo/shader"

// Prefs are the user preferences a Session restores and persists.
type Prefs struct {
	AutoValidate bool
	LastPath     string
}

// DefaultPrefs returns the preferences of a first start.
func DefaultPrefs() Prefs {
	return Prefs{AutoValidate: true}
}

// PrefsStore persists preferences.
type PrefsStore interface {
	Save(Prefs) error
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	validator    shader.Validator
	store        PrefsStore
	keymap       Keymap
	autoValidate bool
	bufferSize   int
}

func defaultOptions() sessionOptions {
	return sessionOptions{
		validator:    shader.Naga,
		keymap:       DefaultKeymap(),
		autoValidate: true,
		bufferSize:   16,
	}
}

// WithValidator replaces the naga validator.
func WithValidator(v shader.Validator) Option {
	return func(o *sessionOptions) {
		o.validator = v
	}
}

// WithPrefsStore makes the session persist preference changes to s.
func WithPrefsStore(s PrefsStore) Option {
	return func(o *sessionOptions) {
		o.store = s
	}
}

// WithKeymap replaces the default key bindings.
func WithKeymap(k Keymap) Option {
	return func(o *sessionOptions) {
		o.keymap = k
	}
}

// WithAutoValidate sets whether edits trigger validation. Default true.
func WithAutoValidate(on bool) Option {
	return func(o *sessionOptions) {
		o.autoValidate = on
	}
}

// WithEventBuffer sets the channel capacity of Subscribe. Default 16.
func WithEventBuffer(n int) Option {
	return func(o *sessionOptions) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}
