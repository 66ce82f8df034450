package input

// Key is a key the game reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyArrowUp
	KeyArrowLeft
	KeyArrowRight
	KeySpace
	KeyE
	KeyT
	KeyEscape
)

var keyNames = map[Key]string{
	KeyArrowUp:    "ArrowUp",
	KeyArrowLeft:  "ArrowLeft",
	KeyArrowRight: "ArrowRight",
	KeySpace:      "Space",
	KeyE:          "KeyE",
	KeyT:          "KeyT",
	KeyEscape:     "Escape",
}

// String returns the DOM-style key code name.
func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "None"
}

// KeyState tracks which keys are held.
type KeyState struct {
	held map[Key]bool
}

// NewKeyState creates a state with nothing held.
func NewKeyState() *KeyState {
	return &KeyState{held: make(map[Key]bool)}
}

// Set records a key transition. KeyNone is ignored.
func (s *KeyState) Set(k Key, down bool) {
	if k == KeyNone {
		return
	}
	s.held[k] = down
}

// Held reports whether k is down.
func (s *KeyState) Held(k Key) bool {
	return s.held[k]
}

// Reset releases every key, used when the window loses focus.
func (s *KeyState) Reset() {
	clear(s.held)
}
