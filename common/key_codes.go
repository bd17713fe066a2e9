package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87 // W key (ASCII)
	KeyA = 65 // A key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyD = 68 // D key (ASCII)
	KeyQ = 81 // Q key (ASCII)
	KeyE = 69 // E key (ASCII)
	KeyK = 75 // K key (ASCII)
	KeyL = 76 // L key (ASCII)
	KeyR = 82 // R key (ASCII)

	KeyEsc = 256 // Escape key (GLFW)
)

// Navigation keys
const (
	KeyRight    = 262 // Right arrow (GLFW)
	KeyLeft     = 263 // Left arrow (GLFW)
	KeyDown     = 264 // Down arrow (GLFW)
	KeyUp       = 265 // Up arrow (GLFW)
	KeyPageUp   = 266 // Page Up (GLFW)
	KeyPageDown = 267 // Page Down (GLFW)
	KeyHome     = 268 // Home (GLFW)
)

// KeyAction identifies the kind of keyboard event delivered by the window layer.
type KeyAction int

const (
	// KeyPress is the initial press of a key.
	KeyPress KeyAction = iota
	// KeyRepeat is an auto-repeat event while the key is held.
	KeyRepeat
	// KeyRelease is sent when the key is released.
	KeyRelease
)

func (a KeyAction) String() string {
	switch a {
	case KeyPress:
		return "press"
	case KeyRepeat:
		return "repeat"
	case KeyRelease:
		return "release"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button. Values match GLFW button indices.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// ButtonAction identifies a mouse button transition.
type ButtonAction int

const (
	ButtonPress ButtonAction = iota
	ButtonRelease
)
