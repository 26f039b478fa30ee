package drag

// Button identifies a pointer button using DOM numbering.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

// PointerEvent is a pointer position in client coordinates.
type PointerEvent struct {
	X, Y   float64
	Button Button

	defaultPrevented bool
}

// PreventDefault suppresses the host's default drag and selection behaviour
// for the gesture this event starts.
func (e *PointerEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool { return e.defaultPrevented }
