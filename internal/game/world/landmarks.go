package world

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/model"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/logger"
	"github.com/Faultbox/glade/pkg/math"
)

// Landmark is a large structure visible from afar. A loaded model is scaled
// to Height.
type Landmark struct {
	Name   string
	X, Z   float32
	RotY   float32
	Height float32
	build  func() *mesh.Mesh
}

// Landmarks are the three points of interest around the glade.
var Landmarks = []Landmark{
	{Name: "ruins", X: -24, Z: -30, RotY: 0.4, Height: 4, build: ruinsFallback},
	{Name: "tower", X: 18, Z: -22, RotY: -0.2, Height: 11, build: towerFallback},
	{Name: "windmill", X: 26, Z: 18, RotY: 2.3, Height: 9, build: windmillFallback},
}

var (
	stoneColor = math.Hex(0x8a8f98)
	wallColor  = math.Hex(0x9c8f7a)
	roofColor  = math.Hex(0x6b3e3e)
	plankColor = math.Hex(0xd8cbb0)
	bladeColor = math.Hex(0x5a4632)
)

func (l Landmark) base() math.Vec3 {
	return grounded(l.X, l.Z)
}

// LoadLandmarks loads a model per landmark from paths, keyed by name. A
// landmark whose model is missing or broken gets its primitive stand-in, so
// the result always has one node per landmark.
func LoadLandmarks(ctx context.Context, paths map[string]string) []*scene.Node {
	nodes := make([]*scene.Node, 0, len(Landmarks))
	for _, l := range Landmarks {
		if ctx.Err() != nil {
			break
		}
		n, err := loadLandmark(l, paths[l.Name])
		if err != nil {
			logger.Warn("landmark model failed, using primitive fallback",
				zap.String("landmark", l.Name), zap.Error(err))
			n = FallbackLandmark(l)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func loadLandmark(l Landmark, path string) (*scene.Node, error) {
	if path == "" {
		return nil, fmt.Errorf("no model path for %s", l.Name)
	}
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	size := m.Bounds.Size()
	scale := float32(1)
	if size.Y > 0.0001 {
		scale = l.Height / size.Y
	}
	pos := l.base()
	pos.Y -= m.Bounds.Min.Y * scale
	p := Placement{Position: pos, Scale: scale, RotY: l.RotY}

	n := scene.NewNode(l.Name, m.Merged(), p.Transform())
	n.CastShadow = true
	n.ReceiveShadow = true
	return n, nil
}

// FallbackLandmark builds the primitive composition for l, standing on the
// terrain.
func FallbackLandmark(l Landmark) *scene.Node {
	p := Placement{Position: l.base(), Scale: 1, RotY: l.RotY}
	n := scene.NewNode(l.Name, l.build(), p.Transform())
	n.CastShadow = true
	n.ReceiveShadow = true
	return n
}

func colored(m *mesh.Mesh, c math.Color) *mesh.Mesh {
	m.SetColor(c)
	return m
}

func placed(m *mesh.Mesh, x, y, z, rotY float32) *mesh.Mesh {
	return m.Transformed(math.Translate(math.V3(x, y, z)).Mul(math.RotateY(rotY)))
}

// ruinsFallback is a broken ring of walls around a toppled column.
func ruinsFallback() *mesh.Mesh {
	return mesh.Merge(
		placed(colored(mesh.Box(5, 3.2, 0.6), stoneColor), 0, 1.6, -2.5, 0),
		placed(colored(mesh.Box(0.6, 2.2, 4), stoneColor), -2.5, 1.1, -0.3, 0),
		placed(colored(mesh.Box(2.2, 1.2, 0.6), stoneColor), 1.6, 0.6, 2.2, 0.15),
		colored(mesh.Cylinder(0.45, 0.45, 3.8, 10), wallColor).
			Transformed(math.Translate(math.V3(1.8, 0.45, 0)).Mul(rotateZ(1.5708))),
		placed(colored(mesh.Cylinder(0.5, 0.55, 2.6, 10), wallColor), 2.4, 1.3, -1.6, 0),
	)
}

// towerFallback is a tapered stone tower with a conical roof.
func towerFallback() *mesh.Mesh {
	return mesh.Merge(
		placed(colored(mesh.Cylinder(1.6, 2.0, 9, 12), wallColor), 0, 4.5, 0, 0),
		placed(colored(mesh.Cylinder(0, 2.4, 2.5, 12), roofColor), 0, 10.25, 0, 0),
		placed(colored(mesh.Box(0.8, 1.6, 0.3), stoneColor), 0, 1.2, 1.95, 0),
	)
}

// windmillFallback is a wooden mill with two crossed sails.
func windmillFallback() *mesh.Mesh {
	blade := func(angle float32) *mesh.Mesh {
		sail := colored(mesh.Box(0.5, 6, 0.1), bladeColor)
		spin := math.Translate(math.V3(0, 6.2, 1.9)).Mul(rotateZ(angle))
		return sail.Transformed(spin)
	}
	return mesh.Merge(
		placed(colored(mesh.Cylinder(1.2, 1.8, 6, 8), plankColor), 0, 3, 0, 0),
		placed(colored(mesh.Cylinder(0, 1.5, 1.6, 8), roofColor), 0, 6.8, 0, 0),
		blade(0.35),
		blade(0.35+1.5708),
	)
}

func rotateZ(angle float32) math.Mat4 {
	return math.QuatFromAxisAngle(math.V3(0, 0, 1), angle).ToMat4()
}
