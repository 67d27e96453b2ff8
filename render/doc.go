// Package render turns published shader artifacts into GPU pipelines and
// draws them.
//
// The Cache maps each surface to the pipeline built for the newest artifact
// version it has seen. It rebuilds only when the published version grows and
// keeps the previous pipeline when a build fails, so the screen never goes
// blank because of a bad edit.
//
// The Bridge is the per-frame entry point. It reads the shader Slot once,
// refreshes the cache, marshals the uniform record and records the draw.
//
// Host applications pass their GPU device in through SetDeviceProvider or
// NewHALCompiler; headless tools can open their own with OpenDevice.
package render
