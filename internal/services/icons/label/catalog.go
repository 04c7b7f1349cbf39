package label

import (
	"slices"
	"strings"
)

type record struct {
	name        string
	key         string
	content     Content
	overwritten *Content
	live        bool
}

// Catalog is a name-sorted, deduplicated label store.
//
// A Catalog is not safe for concurrent mutation. Concurrent reads are safe
// while no load or update is running.
type Catalog struct {
	records []record
	// index holds the live handles sorted by key.
	index []Handle
	// known maps every key ever allocated to its handle.
	known map[string]Handle
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{known: map[string]Handle{}}
}

// Len returns the number of live labels.
func (c *Catalog) Len() int {
	return len(c.index)
}

func fold(name string) string {
	return strings.ToLower(name)
}

func (c *Catalog) search(key string) (int, bool) {
	return slices.BinarySearchFunc(c.index, key, func(h Handle, k string) int {
		return strings.Compare(c.records[h].key, k)
	})
}

// Lookup returns the handle of the live label with the given name, matched
// case-insensitively.
func (c *Catalog) Lookup(name string) (Handle, bool) {
	i, found := c.search(fold(name))
	if !found {
		return NoHandle, false
	}
	return c.index[i], true
}

// Get returns the label for h. ok is false when h does not address a live
// label, including handles whose name was dropped by a fresh load.
func (c *Catalog) Get(h Handle) (Label, bool) {
	if h < 0 || int(h) >= len(c.records) || !c.records[h].live {
		return Label{}, false
	}
	rec := c.records[h]
	l := Label{Handle: h, Name: rec.name, Content: rec.content.clone()}
	if rec.overwritten != nil {
		snapshot := rec.overwritten.clone()
		l.Default = &snapshot
	}
	return l, true
}

// Find returns the live label with the given name.
func (c *Catalog) Find(name string) (Label, bool) {
	h, ok := c.Lookup(name)
	if !ok {
		return Label{}, false
	}
	return c.Get(h)
}

// Names returns the live label names in index order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.index))
	for i, h := range c.index {
		names[i] = c.records[h].name
	}
	return names
}

// Labels returns every live label in index order.
func (c *Catalog) Labels() []Label {
	out := make([]Label, 0, len(c.index))
	for _, h := range c.index {
		l, _ := c.Get(h)
		out = append(out, l)
	}
	return out
}

// Reset drops every label from the index. Handles stay allocated and are
// revived if their name is defined again.
func (c *Catalog) Reset() {
	for _, h := range c.index {
		rec := &c.records[h]
		rec.live = false
		rec.content = Content{}
		rec.overwritten = nil
	}
	c.index = c.index[:0]
}

// Update replaces the content of the label at h in place.
//
// The content held before the first overwrite is kept as the label's default;
// later overwrites leave it untouched so default references keep resolving to
// the canonical text.
func (c *Catalog) Update(h Handle, content Content) {
	rec := &c.records[h]
	if rec.overwritten == nil {
		snapshot := rec.content.clone()
		rec.overwritten = &snapshot
	}
	rec.content = content.clone()
}

// Define inserts a label with the given name, or updates the existing one.
func (c *Catalog) Define(name string, content Content) Handle {
	if h, ok := c.Lookup(name); ok {
		c.Update(h, content)
		return h
	}
	h := c.alloc(name, content)
	c.publish(h)
	return h
}

// Ensure returns the handle for name, inserting an empty single-valued label
// when none exists.
func (c *Catalog) Ensure(name string) Handle {
	if h, ok := c.Lookup(name); ok {
		return h
	}
	h := c.alloc(name, Content{})
	c.publish(h)
	return h
}

// alloc reserves a record for a label that is not indexed yet, reviving the
// slot previously used by the same name.
func (c *Catalog) alloc(name string, content Content) Handle {
	key := fold(name)
	rec := record{name: name, key: key, content: content.clone()}
	if h, ok := c.known[key]; ok {
		c.records[h] = rec
		return h
	}
	h := Handle(len(c.records))
	c.records = append(c.records, rec)
	c.known[key] = h
	return h
}

// publish inserts an allocated record into the sorted index.
func (c *Catalog) publish(h Handle) {
	rec := &c.records[h]
	if rec.live {
		return
	}
	i, found := c.search(rec.key)
	if found {
		return
	}
	rec.live = true
	c.index = slices.Insert(c.index, i, h)
}

func (c *Catalog) appendValues(h Handle, values ...Value) {
	rec := &c.records[h]
	rec.content.aliased = true
	rec.content.aliases = append(rec.content.aliases, values...)
}
