// Command voxelviewer drives a Universe and opens a window that rasterizes
// its spatial index each frame — every matter cell's bounds as a wireframe
// cube, every entity's bounding-sphere center as a small cross — rather than
// the voxel geometry itself, which §6 of the core's contract leaves to an
// external front-end. It exists to prove the core is wired into a real
// window/GPU surface, not to be a voxel renderer.
package main

import (
	"flag"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	voxelverse "github.com/gekko3d/voxelverse"
)

func init() {
	runtime.LockOSThread()
}

type window struct {
	glfw          *glfw.Window
	surface       *wgpu.Surface
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	pipeline    *wgpu.RenderPipeline
	cameraBuf   *wgpu.Buffer
	cameraGroup *wgpu.BindGroup
	aspect      float32
}

// wireframeShader transforms pre-colored line-list vertices by a single
// camera uniform. Position and color both ride the vertex buffer rather
// than a second draw call, since this viewer only ever needs flat-colored
// lines.
const wireframeShader = `
struct Camera {
    view_proj: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> camera: Camera;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) color: vec3<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(position, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

func createWindow(width, height int, title string) *window {
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "voxelviewer device"})
	if err != nil {
		panic(err)
	}

	caps := surface.GetCapabilities(adapter)
	cfg := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &cfg)

	w := &window{
		glfw:          win,
		surface:       surface,
		device:        device,
		queue:         device.GetQueue(),
		surfaceConfig: &cfg,
		aspect:        float32(width) / float32(height),
	}
	w.createWireframePipeline()
	return w
}

// createWireframePipeline builds the line-list pipeline that rasterizes cell
// bounds and entity centers. A vertex is 6 float32s — position then color —
// a flat interleaved buffer with no index buffer backing it, and the
// camera's view-projection matrix rides a single uniform bound at group 0
// binding 0, read back from the pipeline's own inferred layout.
func (w *window) createWireframePipeline() {
	shader, err := w.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "wireframe",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wireframeShader},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: 6 * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 3 * 4, Format: wgpu.VertexFormatFloat32x3},
		},
	}

	pipeline, err := w.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: w.surfaceConfig.Format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	w.pipeline = pipeline

	identity := mgl32.Ident4()
	cameraBuf, err := w.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "camera",
		Contents: wgpu.ToBytes(identity[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	w.cameraBuf = cameraBuf

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	group, err := w.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: w.cameraBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(err)
	}
	w.cameraGroup = group
}

var cubeEdges = [12][2]int{
	{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
	{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
}

func vec3From(v voxelverse.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// buildWireframe flattens every cell's 12 edges and every entity's 3-axis
// cross marker into one line-list vertex buffer: 6 float32s per vertex
// (position, color), matching the pipeline's vertex layout.
func buildWireframe(cells []voxelverse.CellSnapshot) []float32 {
	cellColor := [3]float32{0.2, 0.8, 0.9}
	entityColor := [3]float32{1, 0.55, 0.1}

	var verts []float32
	appendVert := func(p mgl32.Vec3, c [3]float32) {
		verts = append(verts, p[0], p[1], p[2], c[0], c[1], c[2])
	}

	for _, cell := range cells {
		var corners [8]mgl32.Vec3
		o, side := cell.Area.Origin, cell.Area.Side
		for i := range corners {
			corners[i] = vec3From(voxelverse.Vec3{
				X: o.X + int64(i&1)*side,
				Y: o.Y + int64((i>>1)&1)*side,
				Z: o.Z + int64((i>>2)&1)*side,
			})
		}
		for _, edge := range cubeEdges {
			appendVert(corners[edge[0]], cellColor)
			appendVert(corners[edge[1]], cellColor)
		}

		for _, e := range cell.Entities {
			center := vec3From(e.BoundingSphere.Center)
			arm := float32(e.BoundingSphere.Radius)
			if arm <= 0 {
				arm = 1
			}
			appendVert(center.Sub(mgl32.Vec3{arm, 0, 0}), entityColor)
			appendVert(center.Add(mgl32.Vec3{arm, 0, 0}), entityColor)
			appendVert(center.Sub(mgl32.Vec3{0, arm, 0}), entityColor)
			appendVert(center.Add(mgl32.Vec3{0, arm, 0}), entityColor)
			appendVert(center.Sub(mgl32.Vec3{0, 0, arm}), entityColor)
			appendVert(center.Add(mgl32.Vec3{0, 0, arm}), entityColor)
		}
	}
	return verts
}

// computeViewProj frames a view-projection matrix around every cell's
// bounds, so the whole tree stays in frame as it grows and shrinks across
// ticks.
func computeViewProj(cells []voxelverse.CellSnapshot, aspect float32) mgl32.Mat4 {
	if len(cells) == 0 {
		return mgl32.Perspective(mgl32.DegToRad(55), aspect, 0.1, 100).Mul4(
			mgl32.LookAtV(mgl32.Vec3{20, 20, 20}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}))
	}

	lo := vec3From(cells[0].Area.Origin)
	hi := lo
	for _, cell := range cells {
		cellLo := vec3From(cell.Area.Origin)
		side := float32(cell.Area.Side)
		cellHi := mgl32.Vec3{cellLo[0] + side, cellLo[1] + side, cellLo[2] + side}
		lo = mgl32.Vec3{min(lo[0], cellLo[0]), min(lo[1], cellLo[1]), min(lo[2], cellLo[2])}
		hi = mgl32.Vec3{max(hi[0], cellHi[0]), max(hi[1], cellHi[1]), max(hi[2], cellHi[2])}
	}

	center := lo.Add(hi).Mul(0.5)
	radius := hi.Sub(center).Len()
	if radius < 1 {
		radius = 1
	}

	eye := center.Add(mgl32.Vec3{radius * 1.6, radius * 1.3, radius * 1.6})
	proj := mgl32.Perspective(mgl32.DegToRad(55), aspect, radius*0.02, radius*8)
	view := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// renderFrame rasterizes every matter cell's bounds as a wireframe cube and
// every entity's bounding-sphere center as a cross, then presents.
func (w *window) renderFrame(cells []voxelverse.CellSnapshot) {
	nextTexture, err := w.surface.GetCurrentTexture()
	if err != nil {
		return
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return
	}
	defer view.Release()

	viewProj := computeViewProj(cells, w.aspect)
	if err := w.queue.WriteBuffer(w.cameraBuf, 0, wgpu.ToBytes(viewProj[:])); err != nil {
		return
	}
	verts := buildWireframe(cells)
	vertexCount := uint32(len(verts) / 6)

	encoder, err := w.device.CreateCommandEncoder(nil)
	if err != nil {
		return
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1},
			},
		},
	})

	var vbuf *wgpu.Buffer
	if vertexCount > 0 {
		vbuf, err = w.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "wireframe vertices",
			Contents: wgpu.ToBytes(verts),
			Usage:    wgpu.BufferUsageVertex,
		})
		if err == nil {
			pass.SetPipeline(w.pipeline)
			pass.SetBindGroup(0, w.cameraGroup, nil)
			pass.SetVertexBuffer(0, vbuf, 0, wgpu.WholeSize)
			pass.Draw(vertexCount, 1, 0, 0)
		}
	}

	if err := pass.End(); err != nil {
		return
	}
	pass.Release()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return
	}
	defer cmdBuf.Release()

	w.queue.Submit(cmdBuf)
	w.surface.Present()

	if vbuf != nil {
		vbuf.Release()
	}
}

func main() {
	ticks := flag.Int("ticks", 0, "stop after this many ticks (0 runs until the window closes)")
	flag.Parse()

	u := voxelverse.NewUniverse()
	u.Insert(voxelverse.Entity{
		BoundingSphere: voxelverse.Sphere{Center: voxelverse.Vec3{}, Radius: 1},
		Velocity:       voxelverse.Vec3{X: 3, Y: 1, Z: 2},
	})

	win := createWindow(1280, 720, "voxelviewer")
	defer glfw.Terminate()

	logger := u.Logger()
	tick := 0
	for !win.glfw.ShouldClose() {
		glfw.PollEvents()

		u.Tick()
		tick++
		logger.Infof("tick=%d nodes=%d entities=%d", tick, u.NodeCount(), u.EntityCount())

		win.renderFrame(u.Cells())

		if *ticks > 0 && tick >= *ticks {
			win.glfw.SetShouldClose(true)
		}
	}
}
