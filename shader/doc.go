// Package shader validates WGSL fragment shaders written against the fixed
// uniform prologue and publishes the resulting artifacts.
//
// User text is never compiled on its own. Validate prepends Prologue, runs
// the naga front end over the whole module and, on success, returns an
// Artifact. Failures come back as a *Diagnostic whose label spans address
// the concatenated text; Diagnostic.Remap shifts them back onto the user's
// buffer.
//
// A Slot carries the latest artifact together with a version number that
// grows by one on every Publish. Renderers compare versions, never text, to
// decide when to rebuild.
package shader
