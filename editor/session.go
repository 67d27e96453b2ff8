package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/halo/internal/logging"
	"github.com/gogpu/halo/shader"
)

// ErrNoPath is returned by Save when the text was never loaded from or saved
// to a file.
var ErrNoPath = errors.New("editor: no file path")

// Request is a dispatched validation of a text snapshot.
type Request struct {
	ID   uint64
	Text string
}

// Result is the outcome of running a Request.
type Result struct {
	ID       uint64
	Artifact *shader.Artifact
	Err      error
}

// Session holds the shader text and runs the validation state machine.
// It is safe for concurrent use.
type Session struct {
	validator shader.Validator
	slot      *shader.Slot
	store     PrefsStore
	keymap    Keymap
	bufSize   int

	mu           sync.Mutex
	buf          Buffer
	status       Status
	autoValidate bool
	path         string
	latest       uint64
	subs         []chan Event
	closed       bool

	wg sync.WaitGroup
}

// NewSession returns a session publishing validated artifacts to slot. The
// buffer starts empty in the Validated state; call Init to restore the last
// shader.
func NewSession(slot *shader.Slot, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		validator:    o.validator,
		slot:         slot,
		store:        o.store,
		keymap:       o.keymap,
		bufSize:      o.bufferSize,
		autoValidate: o.autoValidate,
		status:       Status{State: Validated},
	}
}

// Slot returns the slot artifacts are published to.
func (s *Session) Slot() *shader.Slot {
	return s.slot
}

// Text returns the current text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Text()
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Path returns the file the text belongs to, or "".
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// AutoValidate reports whether edits trigger validation.
func (s *Session) AutoValidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoValidate
}

// Edit applies e. With auto-validation on a validation is started; otherwise
// the status becomes NeedsValidation.
func (s *Session) Edit(ctx context.Context, e Edit) error {
	s.mu.Lock()
	auto, err := s.applyLocked(func() error { return s.buf.Apply(e) })
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if auto {
		s.Validate(ctx)
	}
	return nil
}

// Replace swaps in text as a single edit covering the whole buffer.
func (s *Session) Replace(ctx context.Context, text string) error {
	s.mu.Lock()
	auto, err := s.applyLocked(func() error {
		return s.buf.Apply(Edit{Start: 0, End: s.buf.Len(), Text: text})
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if auto {
		s.Validate(ctx)
	}
	return nil
}

// applyLocked runs change and reports whether a validation should follow.
func (s *Session) applyLocked(change func() error) (bool, error) {
	if err := change(); err != nil {
		return false, err
	}
	if !s.autoValidate {
		s.setStatusLocked(Status{State: NeedsValidation})
	}
	return s.autoValidate, nil
}

// Dispatch enters Validating and returns a request for the current text.
// Its id supersedes every earlier request.
func (s *Session) Dispatch() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	req := Request{ID: s.latest, Text: s.buf.Text()}
	s.setStatusLocked(Status{State: Validating})
	logging.Logger().Debug("validation dispatched", "id", req.ID)
	return req
}

// Run validates req. It may take long and touches no session state.
func (s *Session) Run(ctx context.Context, req Request) Result {
	art, err := s.validator.Validate(ctx, req.Text)
	return Result{ID: req.ID, Artifact: art, Err: err}
}

// Apply commits res if it answers the newest request and reports whether it
// did. A success is published to the slot; a failure makes the status
// Invalid and publishes nothing.
func (s *Session) Apply(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.ID != s.latest {
		logging.Logger().Debug("stale validation discarded", "id", res.ID, "latest", s.latest)
		return false
	}

	switch {
	case res.Err == nil && res.Artifact != nil:
		s.slot.Publish(res.Artifact)
		s.setStatusLocked(Status{State: Validated})
	default:
		var d *shader.Diagnostic
		if errors.As(res.Err, &d) {
			s.setStatusLocked(Status{State: Invalid, Diagnostic: d.Remap(shader.PrologueLen)})
			break
		}
		// Validation did not finish, e.g. its context was canceled.
		logging.Logger().Debug("validation aborted", "id", res.ID, "err", res.Err)
		s.setStatusLocked(Status{State: NeedsValidation})
	}
	return true
}

// Validate starts validating the current text on its own goroutine and
// returns the request id. It ignores the auto-validate setting.
func (s *Session) Validate(ctx context.Context) uint64 {
	req := s.Dispatch()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Apply(s.Run(ctx, req))
	}()
	return req.ID
}

// Wait blocks until all validations started by Validate have been applied
// or discarded.
func (s *Session) Wait() {
	s.wg.Wait()
}

// SetAutoValidate turns automatic validation on edits on or off. Running
// validations are not affected. The setting is persisted.
func (s *Session) SetAutoValidate(on bool) {
	s.mu.Lock()
	s.autoValidate = on
	s.mu.Unlock()
	s.savePrefs()
}

// ReportBackendError records that the renderer failed to build a pipeline
// for the artifact published as version. Reports for versions other than
// the current one are ignored.
func (s *Session) ReportBackendError(version uint64, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.slot.Version() {
		return
	}
	s.setStatusLocked(Status{State: Invalid, Diagnostic: shader.BackendDiagnostic(err)})
}

// Subscribe returns a channel receiving an Event after every status change.
// Events are dropped while the channel is full; Status always has the latest
// value. The channel is closed by Close.
func (s *Session) Subscribe() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, s.bufSize)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Close stops event delivery. In-flight validations still complete.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *Session) setStatusLocked(st Status) {
	s.status = st
	if s.closed {
		return
	}
	ev := Event{Status: st, Version: s.slot.Version()}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Init restores prefs and loads the last shader file. When there is none,
// or it cannot be read, the default shader is used.
func (s *Session) Init(ctx context.Context, p Prefs) {
	s.mu.Lock()
	s.autoValidate = p.AutoValidate
	s.mu.Unlock()

	if p.LastPath != "" {
		err := s.Load(ctx, p.LastPath)
		if err == nil {
			return
		}
		logging.Logger().Warn("last shader not loaded", "path", p.LastPath, "err", err)
	}
	s.mu.Lock()
	s.buf.Set(shader.DefaultFragment)
	s.path = ""
	s.mu.Unlock()
	s.Validate(ctx)
}

// Load replaces the text with the contents of path and validates it.
func (s *Session) Load(ctx context.Context, path string) error {
	text, err := ReadShaderFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.buf.Set(text)
	s.path = path
	s.mu.Unlock()

	logging.Logger().Info("shader loaded", "path", path, "bytes", len(text))
	s.savePrefs()
	s.Validate(ctx)
	return nil
}

// Save writes the text to the current path.
func (s *Session) Save() error {
	s.mu.Lock()
	path, text := s.path, s.buf.Text()
	s.mu.Unlock()
	if path == "" {
		return ErrNoPath
	}
	return WriteShaderFile(path, text)
}

// SaveAs writes the text to path and makes it the current path.
func (s *Session) SaveAs(path string) error {
	s.mu.Lock()
	text := s.buf.Text()
	s.mu.Unlock()
	if err := WriteShaderFile(path, text); err != nil {
		return err
	}
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	s.savePrefs()
	return nil
}

// New replaces the text with the empty shader template, forgets the path
// and validates.
func (s *Session) New(ctx context.Context) {
	s.mu.Lock()
	s.buf.Set(shader.EmptyFragment)
	s.path = ""
	s.mu.Unlock()
	s.Validate(ctx)
}

// HandleKey runs the action bound to key and returns it.
func (s *Session) HandleKey(ctx context.Context, key gpucontext.Key, mods gpucontext.Modifiers) (Action, error) {
	a := s.keymap.Lookup(key, mods)
	switch a {
	case ActionValidate:
		s.Validate(ctx)
	case ActionNew:
		s.New(ctx)
	case ActionSave:
		return a, s.Save()
	}
	return a, nil
}

// Prefs returns the preferences as currently in effect.
func (s *Session) Prefs() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Prefs{AutoValidate: s.autoValidate, LastPath: s.path}
}

func (s *Session) savePrefs() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.Prefs()); err != nil {
		logging.Logger().Warn("preferences not saved", "err", err)
	}
}
