// Package compositor turns a layer set into a render-ready frame and routes
// user interaction back out as requests.
//
// Each [Compositor.Render] pass runs the same steps in the same order:
//
//  1. Order the layers by track (package ordering).
//  2. Resolve each layer's spatial description, marking the layer being
//     dragged (package transform).
//  3. Bind the base layer's media element to the playback clock
//     (package clock).
//  4. Mark interaction affordances: selected, dragging, draggable.
//
// Pointer-downs on overlay layers are forwarded to the drag controller
// (package drag), which emits move and select requests to the
// [timeline.Emitter] supplied at construction. The compositor never mutates
// the layers it is given; the owner of the project state applies the
// requests and passes an updated layer set on the next pass.
//
// Every Compositor owns its own synchronizer and drag controller, so
// independent instances never interfere. A single instance is not safe for
// concurrent use.
//
// # Usage
//
//	w := drag.NewWindow()
//	c := compositor.New(w, store, compositor.WithMedia(media))
//	frame := c.Render(ctx, compositor.Input{Layers: layers, IsPlaying: false})
//	c.PointerDown(ctx, "logo", &drag.PointerEvent{X: 10, Y: 10})
//	w.Move(drag.PointerEvent{X: 30, Y: 25})
//	w.Up(drag.PointerEvent{X: 30, Y: 25})
package compositor
