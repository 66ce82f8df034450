// Package anim plays named animation clips with linear crossfades.
package anim

// Loop selects what happens when an action reaches the end of its clip.
type Loop int

const (
	// LoopRepeat wraps time back to the start.
	LoopRepeat Loop = iota
	// LoopOnce stops at the end of the clip.
	LoopOnce
)

// Clip is a named animation of fixed length in seconds.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// Action is the playback state of one clip on a mixer.
type Action struct {
	Clip              *Clip
	Loop              Loop
	ClampWhenFinished bool

	Time     float32
	Weight   float32
	Running  bool
	Finished bool

	fadeFrom     float32
	fadeTo       float32
	fadeDuration float32
	fadeElapsed  float32
}

// reset rewinds the action without touching its weight.
func (a *Action) reset() {
	a.Time = 0
	a.Finished = false
}

func (a *Action) fade(to, duration float32) {
	a.fadeFrom = a.Weight
	a.fadeTo = to
	a.fadeDuration = duration
	a.fadeElapsed = 0
	if duration <= 0 {
		a.Weight = to
	}
}

// Target is the weight the action is fading towards.
func (a *Action) Target() float32 {
	return a.fadeTo
}

func (a *Action) advance(dt float32) {
	if a.fadeDuration > 0 && a.fadeElapsed < a.fadeDuration {
		a.fadeElapsed += dt
		t := a.fadeElapsed / a.fadeDuration
		if t > 1 {
			t = 1
		}
		a.Weight = a.fadeFrom + (a.fadeTo-a.fadeFrom)*t
	}
	if a.fadeTo == 0 && a.Weight == 0 {
		a.Running = false
		return
	}

	if a.Finished {
		return
	}
	a.Time += dt
	d := a.Clip.Duration
	if d <= 0 {
		return
	}
	switch a.Loop {
	case LoopRepeat:
		for a.Time >= d {
			a.Time -= d
		}
	case LoopOnce:
		if a.Time >= d {
			a.Time = d
			a.Finished = true
			if !a.ClampWhenFinished {
				a.Weight = 0
				a.fadeTo = 0
				a.Running = false
			}
		}
	}
}

// Mixer owns the actions of one rig and tracks the single active action.
type Mixer struct {
	actions map[string]*Action
	active  *Action
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{actions: make(map[string]*Action)}
}

// Add registers a clip under its name and returns its action.
func (m *Mixer) Add(clip *Clip, loop Loop) *Action {
	a := &Action{Clip: clip, Loop: loop}
	m.actions[clip.Name] = a
	return a
}

// Action returns the action registered under name.
func (m *Mixer) Action(name string) (*Action, bool) {
	a, ok := m.actions[name]
	return a, ok
}

// Has reports whether an action is registered under name.
func (m *Mixer) Has(name string) bool {
	_, ok := m.actions[name]
	return ok
}

// Active returns the name of the active action, or "" before the first switch.
func (m *Mixer) Active() string {
	if m.active == nil {
		return ""
	}
	return m.active.Clip.Name
}

// SetAction crossfades to the named action over fade seconds. It does nothing
// and returns false when the action is missing or already active.
func (m *Mixer) SetAction(name string, fade float32) bool {
	next, ok := m.actions[name]
	if !ok || next == m.active {
		return false
	}
	next.reset()
	next.Running = true
	next.fade(1, fade)
	if m.active != nil {
		m.active.fade(0, fade)
	}
	m.active = next
	return true
}

// Update advances every running action by dt seconds.
func (m *Mixer) Update(dt float32) {
	for _, a := range m.actions {
		if a.Running {
			a.advance(dt)
		}
	}
}

// Pose blends every running action over the rest pose. Each action
// contributes its sampled channels by weight; whatever weight is missing on a
// node up to 1 is filled in from rest.
func (m *Mixer) Pose(rest []TRS) []TRS {
	acc := make([]blend, len(rest))
	for _, a := range m.actions {
		if !a.Running || a.Weight <= 0 {
			continue
		}
		for i := range a.Clip.Channels {
			ch := &a.Clip.Channels[i]
			if ch.Node < 0 || ch.Node >= len(rest) {
				continue
			}
			acc[ch.Node].add(ch, a.Time, a.Weight, rest[ch.Node].Rotation)
		}
	}

	out := make([]TRS, len(rest))
	for i, r := range rest {
		out[i] = acc[i].resolve(r)
	}
	return out
}

// Len returns the number of registered actions.
func (m *Mixer) Len() int {
	return len(m.actions)
}
