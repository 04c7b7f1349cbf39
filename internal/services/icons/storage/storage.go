// Package storage defines the records written to a persisted icon index.
package storage

import (
	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/library"
)

// LabelRow is one display value of one icon label.
type LabelRow struct {
	Position int
	// Alias is the index of the value in an aliased label, 0 otherwise.
	Alias int
	// Name is the label name. Group labels keep their underscore prefix.
	Name  string
	Group bool
	Text  string
	Key   string
}

// IconRow is one indexed icon.
type IconRow struct {
	ID          int
	CategoryID  int
	HasCategory bool
	Path        string
	Labels      []LabelRow
}

// CategoryRow is one indexed category with its resolved display name.
type CategoryRow struct {
	ID   int
	Name string
}

// Snapshot is the content of an index.
type Snapshot struct {
	Pack       string
	Locale     string
	Categories []CategoryRow
	Icons      []IconRow
}

// Capture reads a snapshot of lib for its active locale. Missing
// translations are left out.
func Capture(lib *library.Library, packName string) Snapshot {
	snap := Snapshot{Pack: packName, Locale: lib.Locale().String()}
	for _, cat := range lib.Categories() {
		name, _ := lib.CategoryName(cat.ID)
		snap.Categories = append(snap.Categories, CategoryRow{ID: cat.ID, Name: name})
	}
	for _, ic := range lib.Icons() {
		snap.Icons = append(snap.Icons, iconRow(lib, ic))
	}
	return snap
}

func iconRow(lib *library.Library, ic icon.Icon) IconRow {
	row := IconRow{ID: ic.ID, Path: string(ic.Path)}
	if ic.Category != nil {
		row.CategoryID, row.HasCategory = ic.Category.ID, true
	}
	for pos, ref := range ic.Labels {
		lbl, ok := lib.ResolveLabel(ref)
		if !ok {
			continue
		}
		name := lbl.Name
		if ref.Group {
			name = icon.GroupPrefix + name
		}
		for alias, v := range lbl.Values() {
			row.Labels = append(row.Labels, LabelRow{
				Position: pos,
				Alias:    alias,
				Name:     name,
				Group:    ref.Group,
				Text:     v.Text,
				Key:      v.Key,
			})
		}
	}
	return row
}
