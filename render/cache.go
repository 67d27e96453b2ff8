package render

import (
	"github.com/gogpu/halo/internal/logging"
	"github.com/gogpu/halo/shader"
)

// SurfaceID identifies a drawing surface owning one pipeline.
type SurfaceID uint64

type cacheEntry struct {
	pipeline *Pipeline
	// failed is the newest version whose build failed, so it is not retried
	// every frame.
	failed uint64
}

// Cache holds one pipeline per surface and rebuilds it when a newer artifact
// version is published. It is owned by the render loop and is not safe for
// concurrent use.
type Cache struct {
	compiler Compiler
	entries  map[SurfaceID]*cacheEntry
	rebuilds int

	// OnError, if set, receives every build failure. The failing frame keeps
	// drawing with the previous pipeline.
	OnError func(*CompileError)
}

// NewCache returns an empty cache building with c.
func NewCache(c Compiler) *Cache {
	return &Cache{
		compiler: c,
		entries:  make(map[SurfaceID]*cacheEntry),
	}
}

// EnsureFresh returns the pipeline for surface id, building it first when
// snap is newer than what the surface holds. Versions are compared, never
// contents. With nothing published it returns nil, nil.
//
// A failed build leaves the previous pipeline in place: it is returned
// together with a *CompileError.
func (c *Cache) EnsureFresh(id SurfaceID, snap *shader.Snapshot) (*Pipeline, error) {
	e := c.entries[id]
	if snap == nil || snap.Artifact == nil {
		if e != nil {
			return e.pipeline, nil
		}
		return nil, nil
	}
	if e == nil {
		e = &cacheEntry{}
		c.entries[id] = e
	}
	if e.pipeline != nil && e.pipeline.Version >= snap.Version {
		return e.pipeline, nil
	}
	if e.failed >= snap.Version {
		return e.pipeline, nil
	}

	c.rebuilds++
	p, err := c.compiler.Build(snap.Artifact, snap.Version)
	if err != nil {
		e.failed = snap.Version
		cerr := &CompileError{Surface: id, Version: snap.Version, Err: err}
		logging.Logger().Warn("pipeline build failed", "surface", id, "version", snap.Version, "err", err)
		if c.OnError != nil {
			c.OnError(cerr)
		}
		return e.pipeline, cerr
	}

	if e.pipeline != nil {
		c.compiler.Destroy(e.pipeline)
	}
	e.pipeline = p
	logging.Logger().Debug("pipeline rebuilt", "surface", id, "version", snap.Version)
	return p, nil
}

// Get returns the cached pipeline for id without rebuilding.
func (c *Cache) Get(id SurfaceID) *Pipeline {
	if e := c.entries[id]; e != nil {
		return e.pipeline
	}
	return nil
}

// Rebuilds returns the number of build attempts, successful or not.
func (c *Cache) Rebuilds() int {
	return c.rebuilds
}

// Remove destroys the pipeline of surface id.
func (c *Cache) Remove(id SurfaceID) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	if e.pipeline != nil {
		c.compiler.Destroy(e.pipeline)
	}
	delete(c.entries, id)
}

// Close destroys every cached pipeline.
func (c *Cache) Close() {
	for id := range c.entries {
		c.Remove(id)
	}
}
