package focus

// KeyEvent is a discrete keyboard event delivered by the platform.
type KeyEvent struct {
	// Key is the logical key name: "a", "Enter", "Space", "Tab".
	Key string
}

// PointerPhase identifies the stage of a pointer gesture.
type PointerPhase int

const (
	// PointerDown is a press.
	PointerDown PointerPhase = iota
	// PointerUp is a release.
	PointerUp
	// PointerMove is motion, pressed or not.
	PointerMove
)

func (p PointerPhase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerMove:
		return "move"
	default:
		return "unknown"
	}
}

// PointerEvent is a discrete pointer event delivered by the platform.
// Coordinates are in the space of the component the event enters at;
// hit-testing happens upstream of the router.
type PointerEvent struct {
	Phase PointerPhase
	X, Y  float64
}

// KeyEventResult indicates how a handler responded to an event.
type KeyEventResult int

const (
	// KeyEventIgnored indicates the event was not handled; the router
	// offers it to the next ancestor in the chain.
	KeyEventIgnored KeyEventResult = iota

	// KeyEventHandled indicates the event was consumed; propagation
	// stops.
	KeyEventHandled
)
