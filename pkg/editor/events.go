package editor

// PointerKind distinguishes pointer event phases.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerDoubleClick
)

// Button identifies the pointer button of a Down event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Mods is a bitmask of held modifier keys.
type Mods int

const (
	ModCtrl Mods = 1 << iota
	ModShift
	ModAlt

	ModNone Mods = 0
)

// Has reports whether every bit in m2 is set in m.
func (m Mods) Has(m2 Mods) bool {
	return m&m2 == m2
}

// PointerEvent is a pointer action in canvas coordinates.
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	Mods   Mods
	X, Y   float64
}

// KeyEvent is a key press or release. Key uses the host toolkit's key name,
// for example "Delete" or "Escape".
type KeyEvent struct {
	Key      string
	Released bool
}

// KeyEscape cancels a pending label or an edge being drawn.
const KeyEscape = "Escape"

// DefaultDeleteKey is the key that is held to enter delete mode.
const DefaultDeleteKey = "Delete"
