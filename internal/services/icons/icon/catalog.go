package icon

import (
	"maps"
	"slices"

	"github.com/louisbranch/icondex/internal/services/icons/label"
)

// Catalog holds icons, categories and group labels.
//
// A Catalog is not safe for concurrent mutation.
type Catalog struct {
	icons      map[int]*Icon
	categories map[int]*Category
	groups     *label.Catalog
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		icons:      map[int]*Icon{},
		categories: map[int]*Category{},
		groups:     label.New(),
	}
}

// Reset drops every icon, category and group label.
func (c *Catalog) Reset() {
	clear(c.icons)
	clear(c.categories)
	c.groups.Reset()
}

// Len returns the number of icons.
func (c *Catalog) Len() int {
	return len(c.icons)
}

// Icon returns the icon with the given id.
func (c *Catalog) Icon(id int) (Icon, bool) {
	ic, ok := c.icons[id]
	if !ok {
		return Icon{}, false
	}
	return *ic, true
}

// Category returns the category with the given id.
func (c *Catalog) Category(id int) (Category, bool) {
	cat, ok := c.categories[id]
	if !ok {
		return Category{}, false
	}
	return *cat, true
}

// IDs returns every icon id in ascending order.
func (c *Catalog) IDs() []int {
	return slices.Sorted(maps.Keys(c.icons))
}

// Icons returns every icon sorted by id.
func (c *Catalog) Icons() []Icon {
	ids := c.IDs()
	out := make([]Icon, len(ids))
	for i, id := range ids {
		out[i] = *c.icons[id]
	}
	return out
}

// Categories returns every category sorted by id.
func (c *Catalog) Categories() []Category {
	ids := slices.Sorted(maps.Keys(c.categories))
	out := make([]Category, len(ids))
	for i, id := range ids {
		out[i] = *c.categories[id]
	}
	return out
}

// Groups returns the group label catalog. Names are stored without the
// group prefix.
func (c *Catalog) Groups() *label.Catalog {
	return c.groups
}
