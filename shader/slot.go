package shader

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/halo/internal/logging"
)

// Snapshot is a published (version, artifact) pair. Version 0 with a nil
// Artifact means nothing was published yet.
type Snapshot struct {
	Version  uint64
	Artifact *Artifact
}

// Slot holds the most recently published artifact. Readers see the version
// and the artifact change together.
//
// Slot is safe for concurrent use. The zero value is ready to use.
type Slot struct {
	mu  sync.Mutex // serializes publishers
	cur atomic.Pointer[Snapshot]
}

var emptySnapshot = &Snapshot{}

// Publish stores art under the next version and returns that version.
func (s *Slot) Publish(art *Artifact) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &Snapshot{Version: s.Load().Version + 1, Artifact: art}
	s.cur.Store(next)
	logging.Logger().Info("shader published", "version", next.Version)
	return next.Version
}

// Load returns the current snapshot. It never returns nil.
func (s *Slot) Load() *Snapshot {
	if p := s.cur.Load(); p != nil {
		return p
	}
	return emptySnapshot
}

// Version returns the current version.
func (s *Slot) Version() uint64 {
	return s.Load().Version
}
