package apps

// Field names an Entry attribute touched by a mutation.
type Field int

const (
	FieldDisplayName Field = iota
	FieldPath
	FieldMode
	FieldIcon
	FieldPendingRemoval
)

func (f Field) String() string {
	switch f {
	case FieldDisplayName:
		return "DisplayName"
	case FieldPath:
		return "Path"
	case FieldMode:
		return "Mode"
	case FieldIcon:
		return "Icon"
	case FieldPendingRemoval:
		return "PendingRemoval"
	default:
		return "Unknown"
	}
}

// Kind classifies a change by its effect on storage.
type Kind int

const (
	// KindCosmetic changes are never persisted.
	KindCosmetic Kind = iota
	// KindValue changes rewrite the stored value in place.
	KindValue
	// KindIdentity changes move the entry to a new storage key.
	KindIdentity
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindValue:
		return "value"
	default:
		return "cosmetic"
	}
}

// Change describes one applied mutation.
type Change struct {
	Field    Field
	Previous string
	Current  string
}

// Kind reports how the change affects storage.
func (c Change) Kind() Kind {
	switch c.Field {
	case FieldDisplayName, FieldMode:
		return KindIdentity
	case FieldPath:
		return KindValue
	default:
		return KindCosmetic
	}
}

// Observer is notified after a mutation is applied and before it is persisted.
type Observer func(e *Entry, c Change)
