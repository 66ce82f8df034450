// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDrag
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	DeltaX float32
	DeltaY float32
}

// Input polls SDL and keeps the held-key state.
type Input struct {
	events []Event
	keys   *KeyState
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		keys:   NewKeyState(),
	}
}

// scancodeKeys maps the physical keys the scene listens to.
var scancodeKeys = map[sdl.Scancode]Key{
	sdl.SCANCODE_UP:     KeyArrowUp,
	sdl.SCANCODE_LEFT:   KeyArrowLeft,
	sdl.SCANCODE_RIGHT:  KeyArrowRight,
	sdl.SCANCODE_SPACE:  KeySpace,
	sdl.SCANCODE_E:      KeyE,
	sdl.SCANCODE_T:      KeyT,
	sdl.SCANCODE_ESCAPE: KeyEscape,
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.keys.Reset()
			}

		case *sdl.KeyboardEvent:
			k, ok := scancodeKeys[e.Keysym.Scancode]
			if !ok {
				continue
			}
			down := e.Type == sdl.KEYDOWN
			i.keys.Set(k, down)
			typ := EventKeyUp
			if down {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{Type: typ, Key: k, Repeat: e.Repeat != 0})
			if down && k == KeyEscape {
				return true
			}

		case *sdl.MouseMotionEvent:
			if e.State&sdl.ButtonLMask() != 0 {
				i.events = append(i.events, Event{
					Type:   EventMouseDrag,
					DeltaX: float32(e.XRel),
					DeltaY: float32(e.YRel),
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, DeltaY: float32(e.Y)})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Held reports whether a key is currently down.
func (i *Input) Held(k Key) bool {
	return i.keys.Held(k)
}
