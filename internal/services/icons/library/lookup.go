package library

import (
	"slices"
	"strings"

	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/label"
	"github.com/louisbranch/icondex/internal/services/icons/textkey"
)

// Icon returns the icon with the given id. The returned slices are copies.
func (l *Library) Icon(id int) (icon.Icon, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ic, ok := l.icons.Icon(id)
	if !ok {
		return icon.Icon{}, false
	}
	return detach(ic), true
}

// Icons returns every icon sorted by id. The returned slices are copies.
func (l *Library) Icons() []icon.Icon {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ics := l.icons.Icons()
	for i := range ics {
		ics[i] = detach(ics[i])
	}
	return ics
}

// detach copies the slices an icon shares with the catalog.
func detach(ic icon.Icon) icon.Icon {
	ic.Path = slices.Clone(ic.Path)
	ic.Labels = slices.Clone(ic.Labels)
	if ic.Category != nil {
		cat := *ic.Category
		ic.Category = &cat
	}
	return ic
}

// Label returns the label with the given name. Names starting with an
// underscore are looked up among group labels.
func (l *Library) Label(name string) (label.Label, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if group, ok := strings.CutPrefix(name, icon.GroupPrefix); ok {
		return l.icons.Groups().Find(group)
	}
	return l.labels.Find(name)
}

// Labels returns every plain label in name order.
func (l *Library) Labels() []label.Label {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.labels.Labels()
}

// ResolveLabel returns the label a reference points at. ok is false for a
// missing translation.
func (l *Library) ResolveLabel(ref icon.LabelRef) (label.Label, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resolve(ref)
}

func (l *Library) resolve(ref icon.LabelRef) (label.Label, bool) {
	if ref.Missing() {
		return label.Label{}, false
	}
	if ref.Group {
		return l.icons.Groups().Get(ref.Handle)
	}
	return l.labels.Get(ref.Handle)
}

// IconLabels returns the labels of an icon in order, skipping missing
// translations.
func (l *Library) IconLabels(ic icon.Icon) []label.Label {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]label.Label, 0, len(ic.Labels))
	for _, ref := range ic.Labels {
		if lbl, ok := l.resolve(ref); ok {
			out = append(out, lbl)
		}
	}
	return out
}

// Category returns the category with the given id.
func (l *Library) Category(id int) (icon.Category, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.icons.Category(id)
}

// Categories returns every category sorted by id.
func (l *Library) Categories() []icon.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.icons.Categories()
}

// CategoryName returns the display name of a category, reading it from the
// label catalog when the category names a label.
func (l *Library) CategoryName(id int) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cat, ok := l.icons.Category(id)
	if !ok {
		return "", false
	}
	if cat.NameLabel == "" {
		return cat.Name, true
	}
	lbl, ok := l.labels.Find(cat.NameLabel)
	if !ok {
		return "", false
	}
	return lbl.Text(), true
}

// Search returns the icons having a label value whose search key contains
// the normalized query, sorted by id. A query with no letters or digits
// matches nothing.
func (l *Library) Search(query string) []icon.Icon {
	key := textkey.Normalize(query)
	if key == "" {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []icon.Icon
	for _, ic := range l.icons.Icons() {
		if l.matches(ic, key) {
			out = append(out, detach(ic))
		}
	}
	return out
}

func (l *Library) matches(ic icon.Icon, key string) bool {
	for _, ref := range ic.Labels {
		lbl, ok := l.resolve(ref)
		if !ok {
			continue
		}
		for _, v := range lbl.Values() {
			if strings.Contains(v.Key, key) {
				return true
			}
		}
	}
	return false
}
