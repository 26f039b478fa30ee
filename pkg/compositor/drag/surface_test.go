package drag

import "testing"

func TestWindowReleaseIsIdempotent(t *testing.T) {
	w := NewWindow()
	r1 := w.Capture(PointerHandlers{})
	r2 := w.Capture(PointerHandlers{})
	if w.Listeners() != 2 {
		t.Fatalf("Listeners() = %d, want 2", w.Listeners())
	}
	r1()
	r1()
	if w.Listeners() != 1 {
		t.Errorf("Listeners() = %d after double release, want 1", w.Listeners())
	}
	r2()
	if w.Listeners() != 0 {
		t.Errorf("Listeners() = %d, want 0", w.Listeners())
	}
}

func TestWindowHandlerMayReleaseDuringDispatch(t *testing.T) {
	w := NewWindow()
	var release Release
	calls := 0
	release = w.Capture(PointerHandlers{Up: func(PointerEvent) {
		calls++
		release()
	}})
	w.Up(PointerEvent{})
	w.Up(PointerEvent{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
