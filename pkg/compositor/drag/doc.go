// Package drag implements the single-gesture pointer state machine used to
// move overlay layers.
//
// A [Controller] is Idle until a primary-button pointer-down lands on a layer
// outside the base track. It then records where the pointer and the layer
// started, reports the layer as selected, and captures the whole input
// [Surface] so the gesture keeps tracking after the pointer leaves the layer.
// Every move emits a position request; any pointer-up ends the gesture and
// releases the captured listeners.
//
// Only one session exists at a time. A pointer-down while a session is active
// replaces it: the old session's listeners are released before the new
// session starts, so emissions after the second pointer-down reference only
// the new layer.
//
// There is no cancel path. Releasing the pointer always commits.
package drag
