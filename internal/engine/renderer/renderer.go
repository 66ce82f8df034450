// Package renderer draws a scene.Scene with hemisphere and sun lighting,
// directional shadows and linear fog.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/engine/shader"
	"github.com/Faultbox/glade/internal/engine/shadow"
	"github.com/Faultbox/glade/internal/logger"
	"github.com/Faultbox/glade/pkg/math"
)

// Meshes not drawn for this many frames are released from the GPU.
const staleFrames = 120

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	MSAA   bool
	// ShadowResolution of 0 selects the default; negative disables shadows.
	ShadowResolution int32
}

// View supplies the camera matrices for a frame.
type View interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Stats describes the last rendered frame.
type Stats struct {
	DrawCalls int
	Triangles int
}

// Renderer handles all OpenGL rendering. It must only be used from the thread
// that owns the GL context.
type Renderer struct {
	width, height int

	lit      *shader.Program
	depth    *shader.Program
	overlay  *shader.Program
	shadows  *shadow.Map
	emptyVAO uint32

	meshes map[*mesh.Mesh]*gpuMesh
	frame  uint64
	log    *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		width:  cfg.Width,
		height: cfg.Height,
		meshes: make(map[*mesh.Mesh]*gpuMesh),
		log:    logger.Named("renderer"),
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}

	var err error
	if r.lit, err = shader.New("lit", litVertexShader, litFragmentShader); err != nil {
		return nil, err
	}
	if r.depth, err = shader.New("depth", depthVertexShader, depthFragmentShader); err != nil {
		r.Close()
		return nil, err
	}
	if r.overlay, err = shader.New("overlay", overlayVertexShader, overlayFragmentShader); err != nil {
		r.Close()
		return nil, err
	}
	gl.GenVertexArrays(1, &r.emptyVAO)

	if cfg.ShadowResolution >= 0 {
		if r.shadows, err = shadow.NewMap(cfg.ShadowResolution); err != nil {
			r.log.Warn("shadows disabled", zap.Error(err))
		}
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for m, g := range r.meshes {
		g.release()
		delete(r.meshes, m)
	}
	for _, p := range []*shader.Program{r.lit, r.depth, r.overlay} {
		if p != nil {
			p.Delete()
		}
	}
	if r.shadows != nil {
		r.shadows.Destroy()
	}
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
	}
}

// Resize handles window resize. Sizes are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Render draws one frame of s as seen from v. shadowFocus is the point the
// shadow frustum follows, usually the player.
func (r *Renderer) Render(s *scene.Scene, v View, shadowFocus math.Vec3) Stats {
	r.frame++
	light := s.Lighting
	var stats Stats

	var lightVP math.Mat4
	if r.shadows != nil {
		lightVP = shadow.LightMatrix(light.SunPosition, shadowFocus, shadow.DefaultHalfSize, mesh.EmptyBounds())
		r.shadowPass(s, lightVP, &stats)
	}

	gl.ClearColor(light.FogColor[0], light.FogColor[1], light.FogColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.lit
	p.Use()
	p.SetMat4("uView", v.ViewMatrix())
	p.SetMat4("uProj", v.ProjectionMatrix())
	p.SetMat4("uLightVP", lightVP)
	p.SetVec3("uSkyColor", light.SkyColor)
	p.SetVec3("uGroundColor", light.GroundColor)
	p.SetFloat("uHemiIntensity", light.HemiIntensity)
	p.SetVec3("uSunDir", light.SunPosition.Normalize().Array())
	p.SetVec3("uSunColor", light.SunColor)
	p.SetFloat("uSunIntensity", light.SunIntensity)
	p.SetVec3("uFogColor", light.FogColor)
	p.SetFloat("uFogNear", light.FogNear)
	p.SetFloat("uFogFar", light.FogFar)
	p.SetBool("uShadows", r.shadows != nil)
	if r.shadows != nil {
		r.shadows.BindTexture(gl.TEXTURE0)
		p.SetInt("uShadowMap", 0)
	}

	var transparent []*scene.Node
	for _, n := range s.Nodes() {
		if !drawable(n) {
			continue
		}
		if n.Material.Opacity < 1 {
			transparent = append(transparent, n)
			continue
		}
		r.drawLit(n, &stats)
	}

	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, n := range transparent {
			r.drawLit(n, &stats)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.BindVertexArray(0)

	if r.frame%staleFrames == 0 {
		r.prune()
	}
	return stats
}

func (r *Renderer) shadowPass(s *scene.Scene, lightVP math.Mat4, stats *Stats) {
	r.shadows.Bind()
	r.depth.Use()
	r.depth.SetMat4("uLightVP", lightVP)
	for _, n := range s.Nodes() {
		if !drawable(n) || !n.CastShadow || n.Mesh.Mode != mesh.Triangles {
			continue
		}
		g := r.gpu(n.Mesh)
		r.depth.SetMat4("uModel", n.Transform)
		g.draw()
		stats.DrawCalls++
	}
	r.shadows.Unbind()
}

func (r *Renderer) drawLit(n *scene.Node, stats *Stats) {
	m := n.Material
	p := r.lit
	p.SetMat4("uModel", n.Transform)
	p.SetVec3("uTint", m.Tint)
	p.SetVec3("uEmissive", m.Emissive)
	p.SetFloat("uEmissiveIntensity", m.EmissiveIntensity)
	p.SetFloat("uOpacity", m.Opacity)
	p.SetBool("uUnlit", m.Unlit)
	p.SetBool("uReceiveShadow", n.ReceiveShadow)

	g := r.gpu(n.Mesh)
	g.draw()
	stats.DrawCalls++
	if g.mode == gl.TRIANGLES {
		stats.Triangles += int(g.count / 3)
	}
}

func drawable(n *scene.Node) bool {
	return n.Visible && n.Mesh != nil && len(n.Mesh.Indices) > 0 && len(n.Mesh.Vertices) > 0
}

// gpu returns the uploaded form of m, uploading it on first use.
func (r *Renderer) gpu(m *mesh.Mesh) *gpuMesh {
	g, ok := r.meshes[m]
	if !ok {
		g = upload(m)
		r.meshes[m] = g
	}
	g.lastUsed = r.frame
	return g
}

func (r *Renderer) prune() {
	released := 0
	for m, g := range r.meshes {
		if r.frame-g.lastUsed >= staleFrames {
			g.release()
			delete(r.meshes, m)
			released++
		}
	}
	if released > 0 {
		r.log.Debug("released stale meshes", zap.Int("count", released))
	}
}
