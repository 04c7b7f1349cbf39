package icon

// groupRef is a group label slot waiting to be linked.
type groupRef struct {
	// labels is the label list holding the slot. Later declarations of the
	// same icon may replace the icon's list, so the slot is tracked by list.
	labels []LabelRef
	slot   int
	name   string
}

// linkGroups inserts every group name not yet known as an empty label, then
// points each placeholder at the shared handle for its name.
func (c *Catalog) linkGroups(refs []groupRef) {
	for _, ref := range refs {
		c.groups.Ensure(ref.name)
	}
	for _, ref := range refs {
		h, _ := c.groups.Lookup(ref.name)
		ref.labels[ref.slot] = LabelRef{Group: true, Handle: h}
	}
}
