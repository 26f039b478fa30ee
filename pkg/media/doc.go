// Package media provides playable media elements and source resolution for
// hosts that have no real decoder behind them: the CLI, the HTTP server and
// the terminal editor.
//
// [Element] is a virtual playback clock. It advances in wall time while
// playing, can refuse Play like a browser autoplay policy, and reports when
// it has become ready. A [Library] hands out one Element per base layer and
// satisfies the compositor's media provider.
//
// [Resolver] turns a layer's SourceURL into bytes: local paths and file://
// URLs are read from disk, http(s) sources are fetched with retry and kept
// in a [cache.Cache].
package media
