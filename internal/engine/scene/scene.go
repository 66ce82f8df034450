// Package scene holds the flat list of drawable nodes and the light setup
// the renderer consumes.
package scene

import (
	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

// Material describes how a node is shaded.
type Material struct {
	// Tint multiplies the vertex colors.
	Tint              math.Color
	Emissive          math.Color
	EmissiveIntensity float32
	// Opacity below 1 draws the node blended after opaque geometry.
	Opacity float32
	// Unlit skips lighting; used for the contour lines.
	Unlit bool
}

// DefaultMaterial is a lit, opaque, untinted material.
func DefaultMaterial() Material {
	return Material{Tint: math.Color{1, 1, 1}, Opacity: 1}
}

// Node is one drawable object.
type Node struct {
	Name      string
	Mesh      *mesh.Mesh
	Transform math.Mat4
	Material  Material
	Visible   bool

	CastShadow    bool
	ReceiveShadow bool
}

// NewNode creates a visible node with the default material.
func NewNode(name string, m *mesh.Mesh, transform math.Mat4) *Node {
	return &Node{
		Name:      name,
		Mesh:      m,
		Transform: transform,
		Material:  DefaultMaterial(),
		Visible:   true,
	}
}

// Bounds returns the node's world-space bounding box.
func (n *Node) Bounds() mesh.Bounds {
	if n.Mesh == nil {
		return mesh.EmptyBounds()
	}
	return n.Mesh.Bounds().Transform(n.Transform)
}

// Lighting is the fixed light and fog setup of the scene.
type Lighting struct {
	SkyColor      math.Color
	GroundColor   math.Color
	HemiIntensity float32

	SunColor     math.Color
	SunIntensity float32
	SunPosition  math.Vec3

	FogColor math.Color
	FogNear  float32
	FogFar   float32
}

// DefaultLighting returns the dusk lighting of the glade.
func DefaultLighting() Lighting {
	return Lighting{
		SkyColor:      math.Hex(0xbad4ff),
		GroundColor:   math.Hex(0x47604d),
		HemiIntensity: 0.82,
		SunColor:      math.Hex(0xffd6ab),
		SunIntensity:  1.05,
		SunPosition:   math.V3(8, 16, 6),
		FogColor:      math.Hex(0x3f4f7a),
		FogNear:       32,
		FogFar:        118,
	}
}

// Scene is the set of nodes drawn each frame. It is owned by the game loop
// thread.
type Scene struct {
	Lighting Lighting
	nodes    []*Node
}

// NewScene creates an empty scene with the default lighting.
func NewScene() *Scene {
	return &Scene{Lighting: DefaultLighting()}
}

// Add appends nodes to the scene.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		if n != nil {
			s.nodes = append(s.nodes, n)
		}
	}
}

// Remove drops a node from the scene.
func (s *Scene) Remove(n *Node) {
	for i, cur := range s.nodes {
		if cur == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// Nodes returns the nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Find returns the first node with the given name.
func (s *Scene) Find(name string) *Node {
	for _, n := range s.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}
