package sqlite

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"github.com/louisbranch/icondex/internal/services/icons/storage"
)

func openTempIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(context.Background(), filepath.Join(t.TempDir(), "icons.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Fatalf("close index: %v", err)
		}
	})
	return idx
}

func builtinSnapshot(t *testing.T) storage.Snapshot {
	t.Helper()
	base, err := pack.Builtin()
	if err != nil {
		t.Fatalf("builtin pack: %v", err)
	}
	lib, err := library.Open(context.Background(), base)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	return storage.Capture(lib, base.Name())
}

func ids(matches []Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestReplaceAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := openTempIndex(t)
	snap := builtinSnapshot(t)
	if err := idx.Replace(ctx, snap); err != nil {
		t.Fatalf("replace: %v", err)
	}

	n, err := idx.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(snap.Icons) {
		t.Fatalf("expected %d icons, got %d", len(snap.Icons), n)
	}

	packName, locale, err := idx.Meta(ctx)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if packName != "builtin" || locale != "en" {
		t.Fatalf("unexpected meta %q %q", packName, locale)
	}

	tests := []struct {
		filter string
		want   []int
	}{
		{`key = "car"`, []int{50}},
		{`key = "automobile"`, []int{50, 51, 52}},
		{`category = 5 AND label = "bus"`, []int{52}},
		{`category = 6`, []int{60, 61, 62}},
		{`category_name = "Symbols"`, []int{90, 91}},
		{`label = "_fruit"`, []int{60, 61}},
		{`id > 90`, []int{91}},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			matches, err := idx.Query(ctx, tc.filter)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if got := ids(matches); !slices.Equal(got, tc.want) {
				t.Fatalf("ids = %v, want %v", got, tc.want)
			}
		})
	}

	all, err := idx.Query(ctx, "")
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != len(snap.Icons) {
		t.Fatalf("expected every icon, got %d", len(all))
	}
	if all[0].ID != 0 || all[0].Category != "People" || all[0].Text != "Person" {
		t.Fatalf("unexpected first match %+v", all[0])
	}
}

func TestReplaceOverwritesPreviousContent(t *testing.T) {
	ctx := context.Background()
	idx := openTempIndex(t)
	if err := idx.Replace(ctx, builtinSnapshot(t)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	small := storage.Snapshot{
		Pack:   "tiny",
		Locale: "fr",
		Icons:  []storage.IconRow{{ID: 7, Path: "M0", Labels: []storage.LabelRow{{Name: "x", Text: "X", Key: "x"}}}},
	}
	if err := idx.Replace(ctx, small); err != nil {
		t.Fatalf("replace: %v", err)
	}

	matches, err := idx.Query(ctx, "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := ids(matches); !slices.Equal(got, []int{7}) {
		t.Fatalf("expected only icon 7, got %v", got)
	}
	if matches[0].Category != "" {
		t.Fatalf("expected no category, got %q", matches[0].Category)
	}
}

func TestQueryRejectsInvalidFilter(t *testing.T) {
	idx := openTempIndex(t)
	if _, err := idx.Query(context.Background(), "nope = 1"); !apperrors.IsCode(err, apperrors.CodeInvalidFilter) {
		t.Fatalf("expected invalid filter, got %v", err)
	}
}

func TestQueryMatchesLabelsPerIcon(t *testing.T) {
	ctx := context.Background()
	idx := openTempIndex(t)
	snap := storage.Snapshot{
		Pack:   "vehicles",
		Locale: "en",
		Icons: []storage.IconRow{
			{ID: 1, Path: "M0", Labels: []storage.LabelRow{
				{Position: 0, Name: "car", Text: "Car", Key: "car"},
				{Position: 1, Name: "vehicle", Text: "Vehicle", Key: "vehicle"},
			}},
			{ID: 2, Path: "M1", Labels: []storage.LabelRow{
				{Position: 0, Name: "bike", Text: "Bike", Key: "bike"},
			}},
			{ID: 3, Path: "M2"},
		},
	}
	if err := idx.Replace(ctx, snap); err != nil {
		t.Fatalf("replace: %v", err)
	}

	tests := []struct {
		filter string
		want   []int
	}{
		{`NOT key = "car"`, []int{2, 3}},
		{`key = "car" AND key = "vehicle"`, []int{1}},
		{`key = "car" AND key = "bike"`, nil},
		{`key = "car" OR key = "bike"`, []int{1, 2}},
		{`key != "car"`, []int{1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			matches, err := idx.Query(ctx, tc.filter)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if got := ids(matches); !slices.Equal(got, tc.want) {
				t.Fatalf("ids = %v, want %v", got, tc.want)
			}
		})
	}
}
