package label

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
)

const (
	// currentPrefix references a label's value as currently stored.
	currentPrefix = "@label/"
	// defaultPrefix references a label's value from before it was overwritten.
	defaultPrefix = "@icd:label/"
	aliasSep      = "$"
	wholeLabel    = -1
)

// pendingRef is a reference recorded during the scan and resolved once the
// document has been read.
type pendingRef struct {
	// name is the label being defined.
	name string
	// parent is the aliased label receiving the values, or NoHandle when the
	// reference defines the whole label.
	parent Handle
	target string
	// alias selects one alias of the target, or wholeLabel.
	alias      int
	useDefault bool
}

func parseReference(text string) (pendingRef, bool, error) {
	ref := pendingRef{parent: NoHandle, alias: wholeLabel}
	var rest string
	switch {
	case strings.HasPrefix(text, defaultPrefix):
		rest = text[len(defaultPrefix):]
		ref.useDefault = true
	case strings.HasPrefix(text, currentPrefix):
		rest = text[len(currentPrefix):]
	default:
		return pendingRef{}, false, nil
	}

	if i := strings.Index(rest, aliasSep); i >= 0 {
		index, err := strconv.Atoi(rest[i+len(aliasSep):])
		if err != nil || index < 0 {
			return pendingRef{}, true, fmt.Errorf("invalid alias index in %q", text)
		}
		ref.alias = index
		rest = rest[:i]
	}
	if rest == "" {
		return pendingRef{}, true, fmt.Errorf("empty reference %q", text)
	}
	ref.target = rest
	return ref, true, nil
}

// resolve applies pending references in scan order. A reference may target a
// label materialized by an earlier reference in the same list.
func (c *Catalog) resolve(refs []pendingRef) error {
	for _, ref := range refs {
		target, ok := c.Lookup(ref.target)
		if !ok {
			return apperrors.WithMetadata(apperrors.CodeUnresolvedReference,
				fmt.Sprintf("label %q references unknown label %q", ref.name, ref.target),
				map[string]string{"label": ref.name, "target": ref.target})
		}

		rec := c.records[target]
		source := rec.content
		if ref.useDefault && rec.overwritten != nil {
			source = *rec.overwritten
		}

		values, single, err := selectValues(source, ref)
		if err != nil {
			return err
		}

		if ref.parent != NoHandle {
			c.appendValues(ref.parent, values...)
			continue
		}
		if single {
			c.Define(ref.name, Simple(values[0]))
		} else {
			c.Define(ref.name, Aliased(values...))
		}
	}
	return nil
}

func selectValues(source Content, ref pendingRef) ([]Value, bool, error) {
	if !source.aliased {
		return []Value{source.value}, true, nil
	}
	if ref.alias == wholeLabel {
		return source.Aliases(), false, nil
	}
	if ref.alias >= len(source.aliases) {
		return nil, false, apperrors.WithMetadata(apperrors.CodeUnresolvedReference,
			fmt.Sprintf("label %q references alias %d of %q which has %d aliases", ref.name, ref.alias, ref.target, len(source.aliases)),
			map[string]string{"label": ref.name, "target": ref.target, "alias": itoa(ref.alias)})
	}
	return []Value{source.aliases[ref.alias]}, true, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
