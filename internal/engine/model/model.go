// Package model loads glTF scenes into CPU-side meshes and animation clips.
package model

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/glade/internal/engine/anim"
	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

var (
	// ErrNoMeshes is returned when a file holds no drawable geometry.
	ErrNoMeshes = errors.New("model has no meshes")
	// ErrClipMissing is returned when a file holds no animation.
	ErrClipMissing = errors.New("model has no animation clips")
)

// Model is a loaded scene. Meshes and Bounds are baked into model space at
// the rest pose; Nodes and Parts keep the hierarchy for animation.
type Model struct {
	Name   string
	Meshes []*mesh.Mesh
	Clips  []*anim.Clip
	Bounds mesh.Bounds

	// Nodes are in depth-first order, so a parent always precedes its
	// children.
	Nodes []Node
	Parts []Part
}

// Node is one node of the scene hierarchy.
type Node struct {
	Name   string
	Parent int
	Rest   anim.TRS
	// Matrix replaces Rest for nodes declared with a matrix. Such nodes
	// cannot be animated.
	Matrix *math.Mat4
}

// Part is a mesh in the local space of its node.
type Part struct {
	Node int
	Mesh *mesh.Mesh
}

// Load reads a .gltf or .glb file. Malformed files come back as errors, never
// as panics.
func Load(path string) (m *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("load %s: malformed file: %v", path, r)
		}
	}()
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	m, err = FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	m.Name = path
	return m, nil
}

// FromDocument converts a parsed glTF document. Meshes are baked with their
// node transforms; the hierarchy is kept alongside.
func FromDocument(doc *gltf.Document) (*Model, error) {
	m := &Model{Bounds: mesh.EmptyBounds()}

	visited := make(map[int]bool)
	for _, root := range rootNodes(doc) {
		if err := m.addNode(doc, root, -1, math.Identity(), visited); err != nil {
			return nil, err
		}
	}
	if len(m.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	for i, a := range doc.Animations {
		clip, err := clipFromAnimation(doc, a)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		m.Clips = append(m.Clips, clip)
	}
	return m, nil
}

// nodeName identifies a node across files of the same rig. Unnamed nodes
// fall back to their index.
func nodeName(doc *gltf.Document, idx int) string {
	if n := doc.Nodes[idx]; n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("node%d", idx)
}

// NodeIndex finds a node by name.
func (m *Model) NodeIndex(name string) (int, bool) {
	for i, n := range m.Nodes {
		if n.Name == name {
			return i, true
		}
	}
	return -1, false
}

// RestPose returns the local transform of every node before animation.
func (m *Model) RestPose() []anim.TRS {
	out := make([]anim.TRS, len(m.Nodes))
	for i, n := range m.Nodes {
		out[i] = n.Rest
	}
	return out
}

// NodeMatrices resolves a pose into model-space node matrices. A nil or
// short pose uses the rest transforms.
func (m *Model) NodeMatrices(pose []anim.TRS) []math.Mat4 {
	out := make([]math.Mat4, len(m.Nodes))
	for i, n := range m.Nodes {
		local := n.Rest.Matrix()
		switch {
		case n.Matrix != nil:
			local = *n.Matrix
		case i < len(pose):
			local = pose[i].Matrix()
		}
		if n.Parent >= 0 {
			local = out[n.Parent].Mul(local)
		}
		out[i] = local
	}
	return out
}

// rootNodes returns the nodes of the default scene, or every node without a
// parent when the file declares no scene.
func rootNodes(doc *gltf.Document) []int {
	var roots []int
	if len(doc.Scenes) > 0 {
		scene := doc.Scenes[0]
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = doc.Scenes[*doc.Scene]
		}
		if scene == nil {
			return nil
		}
		for _, n := range scene.Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (m *Model) addNode(doc *gltf.Document, idx, parent int, parentWorld math.Mat4, visited map[int]bool) error {
	if idx < 0 || idx >= len(doc.Nodes) || doc.Nodes[idx] == nil {
		return fmt.Errorf("node %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d appears twice in the hierarchy", idx)
	}
	visited[idx] = true

	node := doc.Nodes[idx]
	self := len(m.Nodes)
	m.Nodes = append(m.Nodes, localTransform(doc, idx, parent))
	local := m.Nodes[self].Rest.Matrix()
	if mat := m.Nodes[self].Matrix; mat != nil {
		local = *mat
	}
	world := parentWorld.Mul(local)

	if node.Mesh != nil {
		mi := *node.Mesh
		if mi < 0 || mi >= len(doc.Meshes) || doc.Meshes[mi] == nil {
			return fmt.Errorf("node %d: mesh %d out of range", idx, mi)
		}
		src := doc.Meshes[mi]
		for i, prim := range src.Primitives {
			part, err := primitiveMesh(doc, prim)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
			}
			if part == nil {
				continue
			}
			m.Parts = append(m.Parts, Part{Node: self, Mesh: part})
			baked := part.Transformed(world)
			m.Meshes = append(m.Meshes, baked)
			m.Bounds = m.Bounds.Union(baked.Bounds())
		}
	}
	for _, c := range node.Children {
		if err := m.addNode(doc, int(c), self, world, visited); err != nil {
			return err
		}
	}
	return nil
}

func localTransform(doc *gltf.Document, idx, parent int) Node {
	n := doc.Nodes[idx]
	out := Node{Name: nodeName(doc, idx), Parent: parent}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	out.Rest = anim.TRS{
		Translation: math.V3(float32(t[0]), float32(t[1]), float32(t[2])),
		Rotation:    math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		Scale:       math.V3(float32(s[0]), float32(s[1]), float32(s[2])),
	}

	if mat := n.MatrixOrDefault(); mat != gltf.DefaultMatrix {
		var fixed math.Mat4
		for i, v := range mat {
			fixed[i] = float32(v)
		}
		out.Matrix = &fixed
	}
	return out
}

// accessor returns doc.Accessors[idx] or an error naming what it is for.
func accessor(doc *gltf.Document, idx int, what string) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%s accessor %d out of range", what, idx)
	}
	acr := doc.Accessors[idx]
	if acr.BufferView != nil {
		if bv := *acr.BufferView; bv < 0 || bv >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("%s accessor %d: buffer view %d out of range", what, idx, bv)
		}
		if b := doc.BufferViews[*acr.BufferView].Buffer; b < 0 || b >= len(doc.Buffers) {
			return nil, fmt.Errorf("%s accessor %d: buffer %d out of range", what, idx, b)
		}
	}
	return acr, nil
}

// primitiveMesh reads one triangle primitive. Other primitive modes are
// skipped with a nil mesh.
func primitiveMesh(doc *gltf.Document, prim *gltf.Primitive) (*mesh.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	posAcr, err := accessor(doc, posIdx, "position")
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, posAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	out := &mesh.Mesh{Mode: mesh.Triangles, Vertices: make([]mesh.Vertex, len(positions))}
	color := materialColor(doc, prim)
	for i, p := range positions {
		out.Vertices[i] = mesh.Vertex{Position: p, Color: color}
	}

	if prim.Indices != nil {
		idxAcr, err := accessor(doc, *prim.Indices, "index")
		if err != nil {
			return nil, err
		}
		out.Indices, err = modeler.ReadIndices(doc, idxAcr, nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range out.Indices {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("index %d past %d vertices", i, len(positions))
			}
		}
	} else {
		out.Indices = make([]uint32, len(positions))
		for i := range out.Indices {
			out.Indices[i] = uint32(i)
		}
	}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		nAcr, err := accessor(doc, nIdx, "normal")
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, nAcr, nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		for i := range out.Vertices {
			if i < len(normals) {
				out.Vertices[i].Normal = normals[i]
			}
		}
	} else {
		out.ComputeNormals()
	}
	return out, nil
}

func materialColor(doc *gltf.Document, prim *gltf.Primitive) [3]float32 {
	c := [3]float32{1, 1, 1}
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) || doc.Materials[*prim.Material] == nil {
		return c
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return c
	}
	f := *pbr.BaseColorFactor
	return [3]float32{float32(f[0]), float32(f[1]), float32(f[2])}
}

// clipFromAnimation reads the node channels of an animation. The duration is
// the latest keyframe, or the largest declared sampler input when the key
// data is not stored in a buffer. Morph weight channels are ignored.
func clipFromAnimation(doc *gltf.Document, a *gltf.Animation) (*anim.Clip, error) {
	clip := &anim.Clip{Name: a.Name}
	for _, s := range a.Samplers {
		if s == nil {
			continue
		}
		if acr, err := accessor(doc, s.Input, "sampler input"); err == nil && len(acr.Max) > 0 && float32(acr.Max[0]) > clip.Duration {
			clip.Duration = float32(acr.Max[0])
		}
	}

	for i, ch := range a.Channels {
		if ch == nil || ch.Target.Node == nil || ch.Target.Path == gltf.TRSWeights {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) || a.Samplers[ch.Sampler] == nil {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", i, ch.Sampler)
		}
		node := *ch.Target.Node
		if node < 0 || node >= len(doc.Nodes) || doc.Nodes[node] == nil {
			return nil, fmt.Errorf("channel %d: node %d out of range", i, node)
		}
		c, err := readChannel(doc, a.Samplers[ch.Sampler], ch.Target.Path)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		if c == nil {
			continue
		}
		c.Target = nodeName(doc, node)
		if n := len(c.Times); n > 0 && c.Times[n-1] > clip.Duration {
			clip.Duration = c.Times[n-1]
		}
		clip.Channels = append(clip.Channels, *c)
	}
	return clip, nil
}

// readChannel decodes keyframes. It returns nil when the sampler data is not
// stored in a buffer.
func readChannel(doc *gltf.Document, s *gltf.AnimationSampler, path gltf.TRSProperty) (*anim.Channel, error) {
	inAcr, err := accessor(doc, s.Input, "sampler input")
	if err != nil {
		return nil, err
	}
	outAcr, err := accessor(doc, s.Output, "sampler output")
	if err != nil {
		return nil, err
	}
	rawIn, err := modeler.ReadAccessor(doc, inAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("read keyframe times: %w", err)
	}
	rawOut, err := modeler.ReadAccessor(doc, outAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("read keyframe values: %w", err)
	}
	if rawIn == nil || rawOut == nil {
		return nil, nil
	}
	times, ok := rawIn.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times are %T, want float", rawIn)
	}

	c := &anim.Channel{Node: -1, Times: times, Step: s.Interpolation == gltf.InterpolationStep}
	var values [][4]float32
	switch path {
	case gltf.TRSTranslation, gltf.TRSScale:
		c.Path = anim.PathTranslation
		if path == gltf.TRSScale {
			c.Path = anim.PathScale
		}
		v3, ok := rawOut.([][3]float32)
		if !ok {
			return nil, fmt.Errorf("%v values are %T, want vec3 float", path, rawOut)
		}
		for _, v := range v3 {
			values = append(values, [4]float32{v[0], v[1], v[2], 0})
		}
	case gltf.TRSRotation:
		c.Path = anim.PathRotation
		v4, ok := rawOut.([][4]float32)
		if !ok {
			return nil, fmt.Errorf("rotation values are %T, want vec4 float", rawOut)
		}
		values = v4
	default:
		return nil, nil
	}

	// cubic spline keys are in-tangent, value, out-tangent triples
	if s.Interpolation == gltf.InterpolationCubicSpline {
		var kept [][4]float32
		for i := 1; i < len(values); i += 3 {
			kept = append(kept, values[i])
		}
		values = kept
	}
	if len(values) < len(times) {
		return nil, fmt.Errorf("%d keyframe values for %d times", len(values), len(times))
	}
	c.Values = values[:len(times)]
	return c, nil
}

// FirstClip returns the first animation in the file.
func (m *Model) FirstClip() (*anim.Clip, error) {
	if len(m.Clips) == 0 || m.Clips[0] == nil {
		return nil, ErrClipMissing
	}
	return m.Clips[0], nil
}

// Merged returns every mesh of the model as one.
func (m *Model) Merged() *mesh.Mesh {
	return mesh.Merge(m.Meshes...)
}

// Clone returns a deep copy so instances can be placed independently.
func (m *Model) Clone() (*Model, error) {
	out := &Model{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone %s: %w", m.Name, err)
	}
	return out, nil
}
