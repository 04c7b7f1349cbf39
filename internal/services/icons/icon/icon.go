package icon

import "github.com/louisbranch/icondex/internal/services/icons/label"

// GroupPrefix marks a group label name in an icon label list.
const GroupPrefix = "_"

// Category groups icons in the catalog.
type Category struct {
	ID int
	// Name is the literal display name. It is empty when the name is held by
	// a label.
	Name string
	// NameLabel names the label holding the display name.
	NameLabel string
}

// LabelRef points at one label of an icon.
type LabelRef struct {
	// Group reports whether Handle addresses the group label catalog.
	Group  bool
	Handle label.Handle
}

// Missing reports whether the label has no entry for the active locale.
func (r LabelRef) Missing() bool {
	return r.Handle == label.NoHandle
}

// Icon is one catalog entry.
//
// Path and Labels may be shared with other icons declared with the same id;
// treat them as read-only.
type Icon struct {
	ID       int
	Category *Category
	Path     []byte
	Labels   []LabelRef
}

// LabelLookup resolves plain label names while icons are loaded.
type LabelLookup interface {
	Lookup(name string) (label.Handle, bool)
}
