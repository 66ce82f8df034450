package game

import (
	"github.com/Faultbox/glade/internal/engine/anim"
	"github.com/Faultbox/glade/internal/engine/camera"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/game/interact"
	"github.com/Faultbox/glade/internal/game/player"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/internal/game/world"
	"github.com/Faultbox/glade/pkg/math"
)

// simulation is the per-frame scene state that needs no GPU.
type simulation struct {
	controller *player.Controller
	mixer      *anim.Mixer
	rig        *rig

	orb      *interact.Orb
	baseNode *scene.Node
	orbNode  *scene.Node

	slow      bool
	slowScale float32
	timeScale float32
}

func newSimulation(s *scene.Scene, slow bool, slowScale float32) *simulation {
	sim := &simulation{
		controller: player.NewController(terrain.HeightAt),
		orb:        interact.New(),
		slowScale:  slowScale,
	}
	sim.setSlow(slow)

	sim.baseNode = scene.NewNode("interactBase", interact.BaseMesh(), math.Translate(interact.BasePosition))
	sim.baseNode.ReceiveShadow = true
	sim.orbNode = scene.NewNode("interactOrb", interact.SphereMesh(), math.Identity())
	sim.orbNode.CastShadow = true
	sim.updateOrbNode()
	s.Add(sim.baseNode, sim.orbNode)
	return sim
}

func (s *simulation) setSlow(slow bool) {
	s.slow = slow
	s.timeScale = 1
	if slow {
		s.timeScale = s.slowScale
	}
}

// toggleSlow flips slow motion and reports the new mode.
func (s *simulation) toggleSlow() bool {
	s.setSlow(!s.slow)
	return s.slow
}

// interact tries the orb from the player position.
func (s *simulation) interact() (toggled, activated bool) {
	p := s.controller.Player
	if p == nil {
		return false, s.orb.Activated
	}
	return s.orb.TryInteract(p.Position), s.orb.Activated
}

// step advances one frame. real is the unscaled frame time; the orb glow and
// status timer run on it, everything else on the scaled time.
func (s *simulation) step(real float32, in player.Input, ground *world.Ground, cam *camera.FollowCamera) {
	dt := real * s.timeScale

	if s.mixer != nil {
		s.mixer.Update(dt)
	}
	s.controller.Update(dt, in)

	var pos *math.Vec3
	if p := s.controller.Player; p != nil {
		pos = &p.Position
		if s.rig != nil {
			s.rig.pose(p.Transform(), s.mixer)
		}
	}

	s.orb.Update(real, pos)
	s.updateOrbNode()

	ref := cam.Position
	if pos != nil {
		ref = *pos
	}
	ground.Update(ref)

	if pos != nil {
		cam.Follow(*pos, dt)
	}
	cam.Update()
}

func (s *simulation) updateOrbNode() {
	at := interact.BasePosition.Add(math.V3(0, s.orb.OrbHeight, 0))
	s.orbNode.Transform = math.Translate(at)
	albedo, emissive := s.orb.Color()
	s.orbNode.Material.Tint = albedo
	s.orbNode.Material.Emissive = emissive
	s.orbNode.Material.EmissiveIntensity = s.orb.EmissiveIntensity
}

// focus is where the shadow frustum centers: the player, else the camera
// target.
func (s *simulation) focus(cam *camera.FollowCamera) math.Vec3 {
	if p := s.controller.Player; p != nil {
		return p.Position
	}
	return cam.Target
}
