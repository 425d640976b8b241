package apps

import "image"

// Builder assembles an Entry. Nothing is notified or persisted while
// building; Build hands out the finished entry.
type Builder struct {
	e Entry
}

// NewBuilder starts an entry in ModeFunction with no storage key.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) DisplayName(name string) *Builder {
	b.e.displayName = name
	return b
}

func (b *Builder) Path(path string) *Builder {
	b.e.path = path
	return b
}

func (b *Builder) Mode(m Mode) *Builder {
	b.e.mode = m
	return b
}

func (b *Builder) Icon(img image.Image) *Builder {
	b.e.icon = img
	return b
}

// StorageKey records where an entry read from storage lives.
func (b *Builder) StorageKey(key string) *Builder {
	b.e.storageKey = key
	return b
}

// Build returns the entry. The builder may be reused; each call yields a
// distinct entry.
func (b *Builder) Build() *Entry {
	e := b.e
	return &e
}
