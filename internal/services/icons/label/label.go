// Package label stores localized icon labels.
//
// Labels live in an arena addressed by Handle. A handle stays valid for the
// life of the Catalog: redefining a name, whether in an append load or in a
// fresh load after a locale change, updates the record in place, so anything
// holding the handle observes the new text without resolving the name again.
package label

import (
	"slices"

	"github.com/louisbranch/icondex/internal/services/icons/textkey"
)

// Handle addresses one label record in a Catalog.
type Handle int32

// NoHandle marks an absent label.
const NoHandle Handle = -1

// Value is one display text and its search key.
type Value struct {
	Text string
	Key  string
}

// NewValue returns the value for display text, deriving its search key.
func NewValue(text string) Value {
	return Value{Text: text, Key: textkey.Normalize(text)}
}

// Content is either a single value or an ordered list of aliases.
type Content struct {
	value   Value
	aliases []Value
	aliased bool
}

// Simple returns single-valued content.
func Simple(v Value) Content {
	return Content{value: v}
}

// Aliased returns content holding the given aliases, in order.
func Aliased(values ...Value) Content {
	return Content{aliases: slices.Clone(values), aliased: true}
}

// HasAliases reports whether the content is an alias list.
func (c Content) HasAliases() bool {
	return c.aliased
}

// Value returns the single value. ok is false for aliased content.
func (c Content) Value() (v Value, ok bool) {
	if c.aliased {
		return Value{}, false
	}
	return c.value, true
}

// Aliases returns a copy of the alias list, or nil for single-valued content.
func (c Content) Aliases() []Value {
	if !c.aliased {
		return nil
	}
	return slices.Clone(c.aliases)
}

// Values returns every display value: the single value or all aliases.
func (c Content) Values() []Value {
	if c.aliased {
		return slices.Clone(c.aliases)
	}
	return []Value{c.value}
}

// Text returns the primary display text: the value, or the first alias.
func (c Content) Text() string {
	if !c.aliased {
		return c.value.Text
	}
	if len(c.aliases) == 0 {
		return ""
	}
	return c.aliases[0].Text
}

// Equal reports whether both contents hold the same shape and values.
func (c Content) Equal(other Content) bool {
	if c.aliased != other.aliased {
		return false
	}
	if !c.aliased {
		return c.value == other.value
	}
	return slices.Equal(c.aliases, other.aliases)
}

func (c Content) clone() Content {
	if c.aliased {
		c.aliases = slices.Clone(c.aliases)
	}
	return c
}

// Label is a read-only view of one catalog record.
type Label struct {
	Handle Handle
	Name   string
	Content
	// Default holds the content captured before the label was first
	// overwritten, or nil when it was never overwritten.
	Default *Content
}

// Resolved returns the default content when useDefault is set and a default
// exists, else the current content.
func (l Label) Resolved(useDefault bool) Content {
	if useDefault && l.Default != nil {
		return *l.Default
	}
	return l.Content
}
