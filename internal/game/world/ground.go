package world

import (
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/pkg/math"
)

// Ground ties the terrain chunks to their scene nodes.
type Ground struct {
	Grid     *terrain.Grid
	floors   []*scene.Node
	overlays []*scene.Node
}

// AddGround adds a floor and a contour overlay node per chunk of g.
func AddGround(s *scene.Scene, g *terrain.Grid) *Ground {
	gr := &Ground{Grid: g}
	for _, c := range g.Chunks {
		floor := scene.NewNode("terrainFloor", c.Floor, math.Translate(math.V3(c.Center.X, 0, c.Center.Y)))
		floor.ReceiveShadow = true

		overlay := scene.NewNode("terrainContour", c.Overlay, math.Translate(math.V3(c.Center.X, terrain.OverlayLift, c.Center.Y)))
		overlay.Material.Unlit = true
		overlay.Material.Opacity = terrain.OverlayOpacity

		s.Add(floor, overlay)
		gr.floors = append(gr.floors, floor)
		gr.overlays = append(gr.overlays, overlay)
	}
	return gr
}

// Update recomputes chunk visibility from ref and mirrors it onto the nodes.
func (gr *Ground) Update(ref math.Vec3) {
	gr.Grid.UpdateVisibility(ref)
	for i, c := range gr.Grid.Chunks {
		gr.floors[i].Visible = c.Visible
		gr.overlays[i].Visible = c.Visible
	}
}
