// Package uniforms builds the per-frame parameter record consumed by the
// Uniforms block of the shader prologue.
package uniforms

import (
	"encoding/binary"
	"math"
	"time"
)

// Size is the byte size of the record, matching the WGSL struct.
const Size = 96

// Byte offsets of each field within the record.
const (
	OffsetTransform = 0
	OffsetPosition  = 64
	OffsetScale     = 72
	OffsetMouse     = 80
	OffsetTime      = 88
	OffsetPadding   = 92
)

// Field describes one member of the record.
type Field struct {
	Name   string
	WGSL   string
	Offset int
	Size   int
}

// Layout lists the record members in declaration order.
var Layout = []Field{
	{Name: "transform", WGSL: "mat4x4<f32>", Offset: OffsetTransform, Size: 64},
	{Name: "position", WGSL: "vec2<f32>", Offset: OffsetPosition, Size: 8},
	{Name: "scale", WGSL: "vec2<f32>", Offset: OffsetScale, Size: 8},
	{Name: "mouse", WGSL: "vec2<f32>", Offset: OffsetMouse, Size: 8},
	{Name: "time", WGSL: "f32", Offset: OffsetTime, Size: 4},
	{Name: "_padding", WGSL: "f32", Offset: OffsetPadding, Size: 4},
}

// Rect is a rectangle in logical pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Params are the live inputs for one frame.
type Params struct {
	// Bounds of the shader surface in logical pixels.
	Bounds Rect
	// ScaleFactor converts logical to physical pixels.
	ScaleFactor float32
	// Mouse is the last known pointer position.
	Mouse [2]float32
	// Elapsed is the time since the renderer started.
	Elapsed time.Duration
}

// Viewport is the projection of the target the surface is drawn into.
type Viewport struct {
	Transform [16]float32
}

// Raw is the uniform record in host form. Matrices are column-major.
type Raw struct {
	Transform [16]float32
	Position  [2]float32
	Scale     [2]float32
	Mouse     [2]float32
	Time      float32
	Padding   float32
}

// Marshal builds the record for one frame.
func Marshal(p Params, vp Viewport) Raw {
	sf := p.ScaleFactor
	if sf == 0 {
		sf = 1
	}
	return Raw{
		Transform: vp.Transform,
		Position:  [2]float32{p.Bounds.X * sf, p.Bounds.Y * sf},
		Scale:     [2]float32{p.Bounds.Width * sf, p.Bounds.Height * sf},
		Mouse:     p.Mouse,
		Time:      float32(p.Elapsed.Seconds()),
	}
}

// Put writes the little-endian record into buf.
func (r *Raw) Put(buf *[Size]byte) {
	le := binary.LittleEndian
	for i, v := range r.Transform {
		le.PutUint32(buf[OffsetTransform+i*4:], math.Float32bits(v))
	}
	putVec2(buf[OffsetPosition:], r.Position)
	putVec2(buf[OffsetScale:], r.Scale)
	putVec2(buf[OffsetMouse:], r.Mouse)
	le.PutUint32(buf[OffsetTime:], math.Float32bits(r.Time))
	le.PutUint32(buf[OffsetPadding:], math.Float32bits(r.Padding))
}

// Bytes returns the record as a new byte slice.
func (r *Raw) Bytes() []byte {
	var buf [Size]byte
	r.Put(&buf)
	return buf[:]
}

func putVec2(b []byte, v [2]float32) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v[1]))
}

// Orthographic returns the projection mapping physical pixel coordinates
// of a width x height target, origin top-left, to clip space.
func Orthographic(width, height float32) Viewport {
	var vp Viewport
	if width <= 0 || height <= 0 {
		return vp
	}
	vp.Transform = [16]float32{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
	return vp
}

// Apply multiplies the point (x, y, 0, 1) by the projection and returns the
// resulting clip-space x and y.
func (vp Viewport) Apply(x, y float32) (float32, float32) {
	m := &vp.Transform
	cx := m[0]*x + m[4]*y + m[12]
	cy := m[1]*x + m[5]*y + m[13]
	w := m[3]*x + m[7]*y + m[15]
	if w != 0 && w != 1 {
		cx /= w
		cy /= w
	}
	return cx, cy
}
