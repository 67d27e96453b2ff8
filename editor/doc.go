// Package editor owns the shader text being edited and drives its
// validation.
//
// A Session moves between four states:
//
//	Validated       last validation succeeded (initial state)
//	Validating      a validation is in flight
//	Invalid         last validation failed; Status.Diagnostic says why
//	NeedsValidation the text changed while auto-validation is off
//
// Every validation request gets a strictly increasing id. Only the result
// for the newest id is applied; results of superseded requests are dropped
// when they arrive, so a slow validation of old text can never overwrite the
// outcome of newer text. Successful results are published to a shader.Slot.
package editor
