package game

import (
	"github.com/Faultbox/glade/internal/engine/anim"
	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/model"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/pkg/math"
)

// rig draws the player. A loaded model gets one scene node per part, posed
// by the mixer; the capsule fallback is a single node without a model.
type rig struct {
	model *model.Model
	rest  []anim.TRS
	nodes []*scene.Node
}

func newRig(m *model.Model) *rig {
	r := &rig{model: m, rest: m.RestPose()}
	mats := m.NodeMatrices(nil)
	for _, p := range m.Parts {
		n := scene.NewNode("player", p.Mesh, mats[p.Node])
		n.CastShadow = true
		n.ReceiveShadow = true
		r.nodes = append(r.nodes, n)
	}
	return r
}

func fallbackRig(node *scene.Node) *rig {
	return &rig{nodes: []*scene.Node{node}}
}

// pose places every part under base. With a mixer the parts follow the
// blended clips, otherwise they stay at rest.
func (r *rig) pose(base math.Mat4, mixer *anim.Mixer) {
	if r.model == nil {
		for _, n := range r.nodes {
			n.Transform = base
		}
		return
	}
	var p []anim.TRS
	if mixer != nil {
		p = mixer.Pose(r.rest)
	}
	mats := r.model.NodeMatrices(p)
	for i, part := range r.model.Parts {
		r.nodes[i].Transform = base.Mul(mats[part.Node])
	}
}

// bounds is the world box around every part.
func (r *rig) bounds() mesh.Bounds {
	b := mesh.EmptyBounds()
	for _, n := range r.nodes {
		b = b.Union(n.Bounds())
	}
	return b
}

// bind retargets a clip onto the rig's nodes by name.
func (r *rig) bind(c *anim.Clip) *anim.Clip {
	if r == nil || r.model == nil {
		return c.Bind(func(string) (int, bool) { return 0, false })
	}
	return c.Bind(r.model.NodeIndex)
}
