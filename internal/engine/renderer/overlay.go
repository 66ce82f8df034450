package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glade/pkg/math"
)

var (
	overlayBackground = math.Hex(0x0d1324)
	overlayBar        = math.Hex(0x9ed6ff)
)

// DrawOverlay covers the frame with the loading screen and a progress bar.
// progress is clamped to [0, 1].
func (r *Renderer) DrawOverlay(progress float32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.overlay.Use()
	gl.Uniform4f(r.overlay.Uniform("uBackground"), overlayBackground[0], overlayBackground[1], overlayBackground[2], 0.96)
	r.overlay.SetVec3("uBarColor", overlayBar)
	r.overlay.SetFloat("uProgress", math.Clamp(progress, 0, 1))
	aspect := float32(1)
	if r.height > 0 {
		aspect = float32(r.width) / float32(r.height)
	}
	r.overlay.SetFloat("uAspect", aspect)

	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}
