package shader

import "github.com/gogpu/naga/ir"

// Artifact is shader text that passed validation. It is immutable and is
// shared by pointer between the editor and the renderer.
type Artifact struct {
	// Source is the user text the artifact was validated from.
	Source string
	// Full is Prologue followed by Source. Pipelines compile from it.
	Full string
	// EntryPoint names the fragment stage.
	EntryPoint string

	module *ir.Module
}

// Module returns the lowered IR of Full.
func (a *Artifact) Module() *ir.Module {
	return a.module
}
