// Package clock keeps the base layer's media element in step with the
// externally owned playback intent.
//
// Exactly one layer drives playback: the first video layer on the primary
// track ([SelectBase]). The [Synchronizer] binds to that layer's media
// element and reconciles it on every render pass:
//
//   - While paused, a change of the base layer's clip time seeks the element
//     when it is more than the tolerance (0.1s by default) away. During
//     playback the element's own clock is never overridden.
//   - A transition to playing requests playback; a rejected request (for
//     example an autoplay policy) is ignored. A transition to paused pauses.
//   - The first time the element reports it is ready, its position is forced
//     to the clip time once, regardless of tolerance.
//
// Overlay layers are never seeked, played or paused by this package.
//
// A Synchronizer is not safe for concurrent use; hosts drive it from a single
// event loop.
package clock
