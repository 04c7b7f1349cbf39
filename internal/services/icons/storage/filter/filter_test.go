package filter

import (
	"slices"
	"testing"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
)

func TestParseEmpty(t *testing.T) {
	cond, err := Parse("   ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cond.Empty() || cond.Params != nil {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		filter string
		clause string
		params []any
	}{
		{`key = "car"`, `EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND l.key = ?)`, []any{"car"}},
		{`category = 5`, "i.category_id = ?", []any{int64(5)}},
		{`id >= 10`, "i.id >= ?", []any{int64(10)}},
		{`category = 5 AND key = "car"`, `(i.category_id = ? AND EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND l.key = ?))`, []any{int64(5), "car"}},
		{`label = "car" OR label = "bike"`, `(EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND l.label_name = ?) OR EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND l.label_name = ?))`, []any{"car", "bike"}},
		{`NOT key = "car"`, `NOT EXISTS (SELECT 1 FROM icon_labels l WHERE l.icon_id = i.id AND l.key = ?)`, []any{"car"}},
		{`NOT category = 5`, "NOT i.category_id = ?", []any{int64(5)}},
		{`category_name != "Food"`, "c.name != ?", []any{"Food"}},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			cond, err := Parse(tc.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cond.Clause != tc.clause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tc.clause)
			}
			if !slices.Equal(cond.Params, tc.params) {
				t.Fatalf("params = %v, want %v", cond.Params, tc.params)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, filter := range []string{
		`unknown = 1`,
		`key = `,
		`category = "five"`,
	} {
		t.Run(filter, func(t *testing.T) {
			_, err := Parse(filter)
			if !apperrors.IsCode(err, apperrors.CodeInvalidFilter) {
				t.Fatalf("expected invalid filter, got %v", err)
			}
		})
	}
}
