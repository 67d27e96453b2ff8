package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/halo/shader"
	"github.com/gogpu/halo/uniforms"
)

// quadVertices is the triangle strip expanded by the prologue's vs_main.
const quadVertices = 4

// Pipeline is the compiled GPU state for one artifact version.
type Pipeline struct {
	// Version is the Slot version the pipeline was built from.
	Version uint64
	// EntryPoint is the fragment stage the pipeline runs.
	EntryPoint string

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	uniformBuf    hal.Buffer
	bindGroup     hal.BindGroup
}

// Write uploads the uniform record to the pipeline's uniform buffer.
func (p *Pipeline) Write(queue hal.Queue, raw *uniforms.Raw) error {
	if p.uniformBuf == nil {
		return nil
	}
	var buf [uniforms.Size]byte
	raw.Put(&buf)
	if err := queue.WriteBuffer(p.uniformBuf, 0, buf[:]); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}
	return nil
}

// Record sets the pipeline and its bind group on rp and draws the quad.
func (p *Pipeline) Record(rp hal.RenderPassEncoder) {
	if p.pipeline == nil {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.Draw(quadVertices, 1, 0, 0)
}

// Compiler builds pipelines from artifacts and releases them.
type Compiler interface {
	Build(art *shader.Artifact, version uint64) (*Pipeline, error)
	Destroy(p *Pipeline)
}

// HALCompiler builds pipelines on a HAL device.
type HALCompiler struct {
	device hal.Device
	format gputypes.TextureFormat
	spirv  bool
}

// CompilerOption configures a HALCompiler.
type CompilerOption func(*HALCompiler)

// WithFormat sets the color target format. The default is BGRA8Unorm.
func WithFormat(f gputypes.TextureFormat) CompilerOption {
	return func(c *HALCompiler) {
		c.format = f
	}
}

// WithSPIRV makes the compiler hand SPIR-V generated by naga to the device
// instead of WGSL source.
func WithSPIRV() CompilerOption {
	return func(c *HALCompiler) {
		c.spirv = true
	}
}

// NewHALCompiler returns a compiler for the given device.
func NewHALCompiler(device hal.Device, opts ...CompilerOption) *HALCompiler {
	c := &HALCompiler{
		device: device,
		format: gputypes.TextureFormatBGRA8Unorm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the color target format pipelines are built for.
func (c *HALCompiler) Format() gputypes.TextureFormat {
	return c.format
}

// Build creates the shader module, layouts, render pipeline, uniform buffer
// and bind group for art. On failure everything created so far is released.
func (c *HALCompiler) Build(art *shader.Artifact, version uint64) (*Pipeline, error) {
	if art == nil {
		return nil, ErrNoArtifact
	}
	p := &Pipeline{Version: version, EntryPoint: art.EntryPoint}
	if err := c.build(p, art); err != nil {
		c.Destroy(p)
		return nil, err
	}
	return p, nil
}

func (c *HALCompiler) build(p *Pipeline, art *shader.Artifact) error {
	source, err := c.shaderSource(art)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("halo_v%d", p.Version)

	p.shader, err = c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("compile shader module: %w", err)
	}

	p.uniformLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	p.pipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	blend := gputypes.BlendStateReplace()
	p.pipeline, err = c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: shader.VertexEntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: art.EntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    c.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}

	p.uniformBuf, err = c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_uniforms",
		Size:  uniforms.Size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}

	p.bindGroup, err = c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: p.uniformBuf.NativeHandle(),
					Offset: 0,
					Size:   uniforms.Size,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	return nil
}

func (c *HALCompiler) shaderSource(art *shader.Artifact) (hal.ShaderSource, error) {
	if !c.spirv {
		return hal.ShaderSource{WGSL: art.Full}, nil
	}
	words, err := CompileSPIRV(art.Full)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}

// Destroy releases the GPU objects of p in reverse creation order. It is
// safe to call on a partially built pipeline.
func (c *HALCompiler) Destroy(p *Pipeline) {
	if p == nil || c.device == nil {
		return
	}
	if p.bindGroup != nil {
		c.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		c.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		c.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		c.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		c.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		c.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
