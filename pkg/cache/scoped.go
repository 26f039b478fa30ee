package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server scopes keys
// per project so that clearing one project never touches another.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "project:intro:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, falling back to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SourceKey(url string) string {
	return k.prefix + k.inner.SourceKey(url)
}

func (k *ScopedKeyer) FrameKey(projectHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(projectHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}
