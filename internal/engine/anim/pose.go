package anim

import (
	"sort"

	"github.com/Faultbox/glade/pkg/math"
)

// TRS is the local transform of one node.
type TRS struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// IdentityTRS is the transform that changes nothing.
func IdentityTRS() TRS {
	return TRS{Rotation: math.QuatIdentity(), Scale: math.V3(1, 1, 1)}
}

// Matrix returns the transform as T * R * S.
func (t TRS) Matrix() math.Mat4 {
	return math.FromTRS(t.Translation, t.Rotation, t.Scale)
}

// Path is the node property a channel drives.
type Path uint8

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Channel is a keyframed track of one node property. Values hold xyz for
// translation and scale, xyzw for rotation.
type Channel struct {
	// Target names the node in the file the clip came from.
	Target string
	// Node is the index in the rig the clip is bound to, or -1.
	Node   int
	Path   Path
	Step   bool
	Times  []float32
	Values [][4]float32
}

// Sample returns the channel value at time t, clamped to the first and last
// keyframe.
func (c *Channel) Sample(t float32) [4]float32 {
	n := len(c.Times)
	if n == 0 || len(c.Values) < n {
		return [4]float32{}
	}
	if t <= c.Times[0] {
		return c.Values[0]
	}
	if t >= c.Times[n-1] {
		return c.Values[n-1]
	}
	i := sort.Search(n, func(i int) bool { return c.Times[i] > t }) - 1
	a, b := c.Values[i], c.Values[i+1]
	if c.Step {
		return a
	}
	f := (t - c.Times[i]) / (c.Times[i+1] - c.Times[i])
	if c.Path == PathRotation {
		q := quat(a).Nlerp(quat(b), f)
		return [4]float32{q.X, q.Y, q.Z, q.W}
	}
	var out [4]float32
	for k := range out {
		out[k] = a[k] + (b[k]-a[k])*f
	}
	return out
}

func quat(v [4]float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func vec3(v [4]float32) math.Vec3 {
	return math.V3(v[0], v[1], v[2])
}

// Bind returns a copy of the clip whose channels point at rig nodes found by
// name. Channels without a matching node are dropped.
func (c *Clip) Bind(lookup func(name string) (int, bool)) *Clip {
	out := &Clip{Name: c.Name, Duration: c.Duration}
	for _, ch := range c.Channels {
		idx, ok := lookup(ch.Target)
		if !ok {
			continue
		}
		ch.Node = idx
		out.Channels = append(out.Channels, ch)
	}
	return out
}

// blend accumulates weighted samples for one node.
type blend struct {
	t, s       math.Vec3
	r          math.Quat
	wt, wr, ws float32
}

func (b *blend) add(ch *Channel, time, weight float32, restRot math.Quat) {
	v := ch.Sample(time)
	switch ch.Path {
	case PathTranslation:
		b.t = b.t.Add(vec3(v).Scale(weight))
		b.wt += weight
	case PathScale:
		b.s = b.s.Add(vec3(v).Scale(weight))
		b.ws += weight
	case PathRotation:
		q := quat(v)
		// keep every sample in the hemisphere of the rest rotation
		if q.Dot(restRot) < 0 {
			weight = -weight
		}
		b.r = math.Quat{X: b.r.X + q.X*weight, Y: b.r.Y + q.Y*weight, Z: b.r.Z + q.Z*weight, W: b.r.W + q.W*weight}
		if weight < 0 {
			weight = -weight
		}
		b.wr += weight
	}
}

func (b *blend) resolve(rest TRS) TRS {
	out := rest
	if b.wt > 0 {
		out.Translation = mixVec(b.t, b.wt, rest.Translation)
	}
	if b.ws > 0 {
		out.Scale = mixVec(b.s, b.ws, rest.Scale)
	}
	if b.wr > 0 {
		r := b.r
		if b.wr < 1 {
			f := 1 - b.wr
			r = math.Quat{X: r.X + rest.Rotation.X*f, Y: r.Y + rest.Rotation.Y*f, Z: r.Z + rest.Rotation.Z*f, W: r.W + rest.Rotation.W*f}
		}
		out.Rotation = r.Normalize()
	}
	return out
}

func mixVec(sum math.Vec3, w float32, rest math.Vec3) math.Vec3 {
	if w < 1 {
		return sum.Add(rest.Scale(1 - w))
	}
	return sum.Scale(1 / w)
}
