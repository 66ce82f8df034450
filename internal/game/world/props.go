// Package world builds the set dressing, landmarks and ground nodes of the
// glade scene.
package world

import (
	"context"
	"fmt"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/model"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/pkg/math"
)

// PropKind selects one of the nature kit models.
type PropKind int

const (
	Tree PropKind = iota
	Rock
	LogStack
)

func (k PropKind) String() string {
	switch k {
	case Rock:
		return "rock"
	case LogStack:
		return "logStack"
	default:
		return "tree"
	}
}

// Anchor is a spot the props are clustered around.
type Anchor struct {
	X, Z  float32
	Scale float32
}

// PropAnchors are the three prop clusters near the spawn point.
var PropAnchors = []Anchor{
	{X: -6.5, Z: -4.2, Scale: 1.2},
	{X: 7.4, Z: 4.6, Scale: 0.9},
	{X: -9.2, Z: 6.8, Scale: 1.05},
}

var fallbackPropColor = math.Hex(0x8b7b67)

// Placement positions one prop instance.
type Placement struct {
	Kind     PropKind
	Position math.Vec3
	Scale    float32
	RotY     float32
}

// Transform returns the model matrix of the placement.
func (p Placement) Transform() math.Mat4 {
	return math.Translate(p.Position).
		Mul(math.RotateY(p.RotY)).
		Mul(math.Scale(math.V3(p.Scale, p.Scale, p.Scale)))
}

func grounded(x, z float32) math.Vec3 {
	return math.V3(x, terrain.HeightAt(x, z), z)
}

// PropPlacements returns a tree, a rock and a log stack per anchor, all
// standing on the terrain.
func PropPlacements() []Placement {
	out := make([]Placement, 0, len(PropAnchors)*3)
	for i, a := range PropAnchors {
		fi := float32(i)
		out = append(out,
			Placement{Kind: Tree, Position: grounded(a.X, a.Z), Scale: a.Scale * 1.45, RotY: 0.6 + fi*0.9},
			Placement{Kind: Rock, Position: grounded(a.X+1.1, a.Z+0.4), Scale: a.Scale * 0.9, RotY: fi * 0.8},
			Placement{Kind: LogStack, Position: grounded(a.X-0.95, a.Z+0.2), Scale: a.Scale * 0.95, RotY: -0.3 + fi*0.45},
		)
	}
	return out
}

// PropPaths lists the nature kit files by kind.
type PropPaths struct {
	Tree     string
	Rock     string
	LogStack string
}

// LoadProps loads the three nature kit models in parallel and instances
// them at every placement. Any failure fails the whole set.
func LoadProps(ctx context.Context, paths PropPaths) ([]*scene.Node, error) {
	models, err := model.LoadAll(ctx, paths.Tree, paths.Rock, paths.LogStack)
	if err != nil {
		return nil, fmt.Errorf("load nature kit: %w", err)
	}
	return InstanceProps(models)
}

// InstanceProps places a clone of models[kind] at each prop placement.
func InstanceProps(models []*model.Model) ([]*scene.Node, error) {
	var nodes []*scene.Node
	for _, p := range PropPlacements() {
		if int(p.Kind) >= len(models) || models[p.Kind] == nil {
			return nil, fmt.Errorf("no model for %s", p.Kind)
		}
		inst, err := models[p.Kind].Clone()
		if err != nil {
			return nil, err
		}
		n := scene.NewNode(p.Kind.String(), inst.Merged(), p.Transform())
		n.CastShadow = true
		n.ReceiveShadow = true
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// FallbackProps returns one hexagonal stump per anchor.
func FallbackProps() []*scene.Node {
	nodes := make([]*scene.Node, 0, len(PropAnchors))
	for i, a := range PropAnchors {
		m := mesh.Cylinder(0.3, 0.45, 1.1, 6)
		m.SetColor(fallbackPropColor)
		pos := grounded(a.X, a.Z)
		pos.Y += 0.55
		p := Placement{Position: pos, Scale: a.Scale, RotY: float32(i) * 0.7}
		n := scene.NewNode("propFallback", m, p.Transform())
		n.CastShadow = true
		n.ReceiveShadow = true
		nodes = append(nodes, n)
	}
	return nodes
}
