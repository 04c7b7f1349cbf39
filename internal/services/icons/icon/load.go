package icon

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"github.com/louisbranch/icondex/internal/services/icons/label"
	"github.com/louisbranch/icondex/internal/services/icons/markup"
)

const (
	elementCategory = "category"
	elementIcon     = "icon"

	attrID       = "id"
	attrName     = "name"
	attrLabels   = "labels"
	attrPath     = "path"
	attrCategory = "category"

	labelSep = ","
	// nameRefPrefix marks a category name held by a label.
	nameRefPrefix = "@label/"
)

// Load reads categories and icons from src, resolving plain label names
// through labels.
//
// When appendMode is false the catalog starts fresh. Otherwise an icon
// redeclared without a path or a label list keeps the one it already had.
// Group labels are linked once the whole document is read.
func (c *Catalog) Load(src markup.Source, labels LabelLookup, appendMode bool) error {
	if !appendMode {
		c.Reset()
	}

	var groupRefs []groupRef
	// current is the innermost open category element.
	var current *Category
	var open []*Category

	for {
		ev, err := src.Next()
		if err != nil {
			return err
		}

		switch ev.Kind {
		case markup.KindEOF:
			c.linkGroups(groupRefs)
			return nil

		case markup.KindStart:
			switch {
			case ev.Is(elementCategory):
				cat, err := c.defineCategory(ev)
				if err != nil {
					return err
				}
				open = append(open, cat)
				current = cat
			case ev.Is(elementIcon):
				refs, err := c.defineIcon(ev, current, labels)
				if err != nil {
					return err
				}
				groupRefs = append(groupRefs, refs...)
			}

		case markup.KindEnd:
			if ev.Is(elementCategory) && len(open) > 0 {
				open = open[:len(open)-1]
				current = nil
				if len(open) > 0 {
					current = open[len(open)-1]
				}
			}
		}
	}
}

func (c *Catalog) defineCategory(ev markup.Event) (*Category, error) {
	id, err := intAttr(ev, attrID)
	if err != nil {
		return nil, err
	}

	cat, ok := c.categories[id]
	if !ok {
		cat = &Category{ID: id}
		c.categories[id] = cat
	}
	if name, ok := ev.Attr(attrName); ok && name != "" {
		if target, isRef := strings.CutPrefix(name, nameRefPrefix); isRef {
			cat.Name, cat.NameLabel = "", target
		} else {
			cat.Name, cat.NameLabel = name, ""
		}
	}
	return cat, nil
}

func (c *Catalog) defineIcon(ev markup.Event, current *Category, labels LabelLookup) ([]groupRef, error) {
	id, err := intAttr(ev, attrID)
	if err != nil {
		return nil, err
	}
	prior := c.icons[id]

	ic := &Icon{ID: id, Category: current}
	if raw, ok := ev.Attr(attrCategory); ok {
		catID, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, malformed(ev, "icon "+strconv.Itoa(id)+" has invalid category "+strconv.Quote(raw))
		}
		ic.Category = c.categories[catID]
	}

	if path, ok := ev.Attr(attrPath); ok {
		ic.Path = []byte(path)
	} else if prior != nil {
		ic.Path = prior.Path
	}

	var refs []groupRef
	if names, ok := ev.Attr(attrLabels); ok {
		ic.Labels, refs = resolveLabels(names, labels)
	} else if prior != nil {
		ic.Labels = prior.Labels
	}

	c.icons[id] = ic
	return refs, nil
}

// resolveLabels builds the label list of one icon. Group names are returned
// as placeholders for linkGroups.
func resolveLabels(names string, labels LabelLookup) ([]LabelRef, []groupRef) {
	parts := strings.Split(names, labelSep)
	out := make([]LabelRef, len(parts))
	var refs []groupRef
	for i, part := range parts {
		name := strings.TrimSpace(part)
		if group, ok := strings.CutPrefix(name, GroupPrefix); ok {
			out[i] = LabelRef{Group: true, Handle: label.NoHandle}
			refs = append(refs, groupRef{labels: out, slot: i, name: group})
			continue
		}
		h := label.NoHandle
		if name != "" && labels != nil {
			if found, ok := labels.Lookup(name); ok {
				h = found
			}
		}
		out[i] = LabelRef{Handle: h}
	}
	return out, refs
}

func intAttr(ev markup.Event, name string) (int, error) {
	raw, ok := ev.Attr(name)
	if !ok {
		return 0, malformed(ev, ev.Name+" element without "+name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, malformed(ev, ev.Name+" has invalid "+name+" "+strconv.Quote(raw))
	}
	return n, nil
}

func malformed(ev markup.Event, msg string) error {
	var md map[string]string
	if ev.Line > 0 {
		md = map[string]string{"line": strconv.Itoa(ev.Line)}
	}
	return apperrors.WithMetadata(apperrors.CodeDocumentMalformed, msg, md)
}
