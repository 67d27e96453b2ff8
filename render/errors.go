package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNoArtifact is returned when a frame is prepared before any shader
	// was published.
	ErrNoArtifact = errors.New("render: no shader artifact published")

	// ErrNoAdapter is returned by OpenDevice when the backend exposes no
	// adapters.
	ErrNoAdapter = errors.New("render: no GPU adapter found")
)

// CompileError reports a pipeline build failure for one published version.
type CompileError struct {
	Surface SurfaceID
	Version uint64
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("render: surface %d: build pipeline for version %d: %v", e.Surface, e.Version, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
