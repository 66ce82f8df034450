package player

import "github.com/Faultbox/glade/pkg/math"

// Animator switches the playing animation. anim.Mixer satisfies it.
type Animator interface {
	SetAction(name string, fade float32) bool
}

// HeightFunc samples the ground height at a world position.
type HeightFunc func(x, z float32) float32

// Controller drives a player from keyboard input. Player and Actions may be
// nil while assets are still loading; every method tolerates that.
type Controller struct {
	Player  *Player
	Actions Animator
	Height  HeightFunc
}

// NewController creates a controller that grounds the player on height.
func NewController(height HeightFunc) *Controller {
	return &Controller{Height: height}
}

// SetActions installs the animation actions and starts the idle clip.
func (c *Controller) SetActions(a Animator) {
	c.Actions = a
	if a != nil {
		a.SetAction(StateIdle.String(), FadeInitialIdle)
	}
}

func (c *Controller) setState(s State, fade float32) {
	c.Player.State = s
	if c.Actions != nil {
		c.Actions.SetAction(s.String(), fade)
	}
}

// Jump starts a jump if the player is on the ground. It reports whether a
// jump started.
func (c *Controller) Jump() bool {
	p := c.Player
	if p == nil || p.Jumping {
		return false
	}
	p.Jumping = true
	p.VelocityY = JumpVelocity
	c.setState(StateJump, FadeJump)
	return true
}

// Update moves the player for dt seconds of held input and integrates the
// jump.
func (c *Controller) Update(dt float32, in Input) {
	p := c.Player
	if p == nil {
		return
	}

	move := in.Move()
	moving := move.LengthSq() > 0
	if moving {
		step := move.Normalize().Scale(MoveSpeed * dt)
		p.Position = p.Position.Add(step)
		if !p.Jumping {
			c.setState(StateWalk, FadeWalk)
		}
		p.FaceTowards(step)
	} else if !p.Jumping {
		c.setState(StateIdle, FadeIdle)
	}

	ground := c.groundAt(p.Position)
	if !p.Jumping {
		p.Position.Y = ground
		return
	}

	p.VelocityY -= Gravity * dt
	p.Position.Y += p.VelocityY * dt
	if p.Position.Y <= ground {
		p.Position.Y = ground
		p.VelocityY = 0
		p.Jumping = false
		if moving {
			c.setState(StateWalk, FadeLanding)
		} else {
			c.setState(StateIdle, FadeLanding)
		}
	}
}

func (c *Controller) groundAt(pos math.Vec3) float32 {
	if c.Height == nil {
		return 0
	}
	return c.Height(pos.X, pos.Z)
}
