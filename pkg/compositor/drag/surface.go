package drag

import "sync"

// PointerHandlers are the global listeners a session installs while active.
type PointerHandlers struct {
	Move func(PointerEvent)
	Up   func(PointerEvent)
}

// Release removes listeners installed by [Surface.Capture]. It is safe to
// call more than once.
type Release func()

// Surface is the top-level input surface a session captures.
type Surface interface {
	Capture(h PointerHandlers) Release
}

// Window is an in-process [Surface]. Hosts forward every pointer move and
// pointer up they observe, wherever it happened, and Window dispatches them
// to the listeners currently captured.
type Window struct {
	mu       sync.Mutex
	nextID   uint32
	handlers []windowHandler
}

type windowHandler struct {
	id uint32
	h  PointerHandlers
}

// NewWindow creates a surface with no listeners.
func NewWindow() *Window { return &Window{} }

// Capture installs h until the returned Release is called.
func (w *Window) Capture(h PointerHandlers) Release {
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.handlers = append(w.handlers, windowHandler{id: id, h: h})
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { w.remove(id) })
	}
}

func (w *Window) remove(id uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.handlers {
		if w.handlers[i].id == id {
			copy(w.handlers[i:], w.handlers[i+1:])
			w.handlers[len(w.handlers)-1] = windowHandler{}
			w.handlers = w.handlers[:len(w.handlers)-1]
			return
		}
	}
}

// Listeners returns the number of installed listener sets.
func (w *Window) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.handlers)
}

// Move dispatches a pointer move to every captured listener.
func (w *Window) Move(ev PointerEvent) {
	for _, h := range w.snapshot() {
		if h.Move != nil {
			h.Move(ev)
		}
	}
}

// Up dispatches a pointer up to every captured listener.
func (w *Window) Up(ev PointerEvent) {
	for _, h := range w.snapshot() {
		if h.Up != nil {
			h.Up(ev)
		}
	}
}

// snapshot copies the listeners so handlers may release themselves while
// being dispatched.
func (w *Window) snapshot() []PointerHandlers {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PointerHandlers, len(w.handlers))
	for i, h := range w.handlers {
		out[i] = h.h
	}
	return out
}
