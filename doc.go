// Package halo is a live WGSL shader playground.
//
// # Overview
//
// The user edits the body of a fragment shader. Every edit is validated off
// the UI goroutine against a fixed uniform prologue, and each successful
// validation is published as a new artifact version. The renderer compares
// versions once per frame and rebuilds its pipeline only when the version
// grew, so a running shader is hot-swapped the moment a new one validates.
//
// # Quick Start
//
//	app, err := halo.New(halo.WithBackend("auto"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	app.Init(ctx, editor.DefaultPrefs())
//	target, _ := app.NewTarget(800, 600)
//	for running {
//	    app.RenderFrame(target)
//	}
//
// # Uniforms
//
// User code reads per-frame inputs from the pre-declared `uniforms` block:
//
//	uniforms.transform  mat4x4<f32>  viewport projection
//	uniforms.position   vec2<f32>    surface origin, physical pixels
//	uniforms.scale      vec2<f32>    surface size, physical pixels
//	uniforms.mouse      vec2<f32>    last pointer position
//	uniforms.time       f32          seconds since start
//
// # Architecture
//
//   - shader: validation, diagnostics, the published Slot
//   - editor: text buffer and validation state machine
//   - uniforms: the 96-byte per-frame record
//   - render: pipeline cache, HAL compiler, per-frame bridge
//
// # Logging
//
// halo is silent by default. Use SetLogger to enable structured logging
// through log/slog.
package halo
