package media

import (
	"sync"

	"github.com/matzehuels/reelstack/pkg/compositor/clock"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Library keeps one Element per layer and source. A layer whose source
// changes gets a fresh element.
type Library struct {
	mu       sync.Mutex
	opts     []ElementOption
	elements map[libraryKey]*Element
}

type libraryKey struct{ layerID, source string }

// NewLibrary returns a Library whose elements are built with opts.
func NewLibrary(opts ...ElementOption) *Library {
	return &Library{opts: opts, elements: make(map[libraryKey]*Element)}
}

// Element returns the element for layer, creating it on first use.
func (l *Library) Element(layer timeline.ClipLayer) clock.MediaElement {
	return l.Get(layer)
}

// Get is Element with the concrete type.
func (l *Library) Get(layer timeline.ClipLayer) *Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := libraryKey{layer.ID, layer.SourceURL}
	e, ok := l.elements[k]
	if !ok {
		e = NewElement(layer.SourceURL, l.opts...)
		l.elements[k] = e
	}
	return e
}

// Len returns the number of elements created so far.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.elements)
}
