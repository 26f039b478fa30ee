// Package pkg provides the libraries behind reelstack, a multi-track media
// timeline compositor.
//
// # Overview
//
// A project is a set of clips placed on named tracks. At any playhead the
// visible clips become layers, and the compositor stacks them into a
// frame: layers are painted in track order, each one gets a CSS-style
// transform description, the video on the primary track becomes the base
// layer whose media clock follows the playhead, and every other layer can
// be dragged into place with a pointer.
//
// # Architecture
//
//	project.Project (clips, playhead, selection)
//	         ↓  LayersAt(playhead)
//	    [timeline] ClipLayer values
//	         ↓
//	    [compositor] ordering → transform → clock → drag
//	         ↓
//	    compositor.Frame
//	         ↓
//	    [render] svg, png, json, dot
//
// Pointer interaction runs the other way: the drag controller emits move
// and select requests, the [project] Applier queues them in arrival order,
// and the next render pass flushes them into the project.
//
// # Quick Start
//
//	p := project.New("launch")
//	p.AddClip(project.Clip{ClipLayer: timeline.ClipLayer{
//	    ID: "intro", TrackID: "V1", MediaKind: timeline.KindVideo, SourceURL: "intro.mp4",
//	}})
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{Project: p, Formats: []string{"svg"}})
//	os.WriteFile("frame.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [timeline] - Layer, transform and request types shared by everything else.
//
// [compositor] - The per-pass orchestrator. Subpackages hold the layer
// ordering resolver, the transform resolver, the playback clock
// synchronizer and the drag interaction controller. A Compositor has no
// package-level state, so independent instances never interfere.
//
// [media] - Simulated media elements driven by the clock, and a resolver
// that fetches clip sources from disk or http(s) through the cache.
//
// [project] - Projects, clip placement and the stores that persist them
// (memory, JSON files, SQLite, MongoDB).
//
// [render] - Frame sinks: SVG, PNG, a JSON frame document and a Graphviz
// paint-order diagram.
//
// [pipeline] - Project → frame → artifacts, with content-addressed caching.
//
// [session] and [server] - Live editing sessions over HTTP, one
// compositor per session.
//
// [cache], [errors], [observability] - Shared infrastructure.
//
// [timeline]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/timeline
// [compositor]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/compositor
// [media]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/media
// [project]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/project
// [render]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/reelstack/pkg/observability
package pkg
