package anim

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func slide(node int, from, to float32) Channel {
	return Channel{
		Node:   node,
		Path:   PathTranslation,
		Times:  []float32{0, 1},
		Values: [][4]float32{{from, 0, 0}, {to, 0, 0}},
	}
}

func TestChannelSample(t *testing.T) {
	ch := slide(0, 0, 2)
	tests := []struct {
		at   float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.5},
		{1, 2},
		{3, 2},
	}
	for _, tt := range tests {
		if got := ch.Sample(tt.at)[0]; !near(got, tt.want) {
			t.Errorf("Sample(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	ch.Step = true
	if got := ch.Sample(0.9)[0]; got != 0 {
		t.Errorf("step Sample(0.9) = %v, want 0", got)
	}
}

func TestChannelSampleRotation(t *testing.T) {
	a := math.QuatFromAxisAngle(math.V3(0, 1, 0), 0)
	b := math.QuatFromAxisAngle(math.V3(0, 1, 0), 1)
	ch := Channel{
		Path:   PathRotation,
		Times:  []float32{0, 2},
		Values: [][4]float32{{a.X, a.Y, a.Z, a.W}, {b.X, b.Y, b.Z, b.W}},
	}
	v := ch.Sample(1)
	want := math.QuatFromAxisAngle(math.V3(0, 1, 0), 0.5)
	if !near(math32.Abs(quat(v).Dot(want)), 1) {
		t.Errorf("rotation mid-way = %v, want %v", v, want)
	}
}

func TestBindDropsUnknownTargets(t *testing.T) {
	c := &Clip{Name: "walk", Duration: 1, Channels: []Channel{
		{Target: "hips", Node: -1},
		{Target: "tail", Node: -1},
	}}
	nodes := map[string]int{"hips": 3}
	b := c.Bind(func(name string) (int, bool) {
		i, ok := nodes[name]
		return i, ok
	})
	if len(b.Channels) != 1 || b.Channels[0].Node != 3 {
		t.Fatalf("bound channels = %+v", b.Channels)
	}
	if c.Channels[0].Node != -1 {
		t.Error("Bind modified the source clip")
	}
}

func TestPoseBlendsByWeight(t *testing.T) {
	m := NewMixer()
	m.Add(&Clip{Name: "idle", Duration: 1, Channels: []Channel{slide(0, 0, 0)}}, LoopRepeat)
	m.Add(&Clip{Name: "walk", Duration: 1, Channels: []Channel{slide(0, 4, 4)}}, LoopRepeat)

	rest := []TRS{IdentityTRS(), IdentityTRS()}
	rest[1].Translation = math.V3(0, 7, 0)

	m.SetAction("idle", 0)
	m.SetAction("walk", 0.2)
	m.Update(0.1)

	pose := m.Pose(rest)
	if got := pose[0].Translation.X; !near(got, 2) {
		t.Errorf("half-way blend x = %v, want 2", got)
	}
	if pose[1] != rest[1] {
		t.Errorf("untouched node = %+v, want rest %+v", pose[1], rest[1])
	}

	m.Update(0.2)
	if got := m.Pose(rest)[0].Translation.X; !near(got, 4) {
		t.Errorf("after fade x = %v, want 4", got)
	}
}

func TestPoseFillsMissingWeightFromRest(t *testing.T) {
	m := NewMixer()
	m.Add(&Clip{Name: "walk", Duration: 1, Channels: []Channel{slide(0, 2, 2)}}, LoopRepeat)
	m.SetAction("walk", 0.2)
	m.Update(0.05)

	rest := []TRS{IdentityTRS()}
	rest[0].Translation = math.V3(10, 0, 0)
	// walk weight is .25, so .75 of the rest position remains
	if got := m.Pose(rest)[0].Translation.X; !near(got, 8) {
		t.Errorf("partial blend x = %v, want 8", got)
	}
}

func TestPoseIgnoresOutOfRangeNodes(t *testing.T) {
	m := NewMixer()
	m.Add(&Clip{Name: "idle", Duration: 1, Channels: []Channel{slide(5, 1, 1), slide(-1, 1, 1)}}, LoopRepeat)
	m.SetAction("idle", 0)
	pose := m.Pose([]TRS{IdentityTRS()})
	if pose[0] != IdentityTRS() {
		t.Errorf("pose = %+v, want identity", pose[0])
	}
}
