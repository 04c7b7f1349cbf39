package label

import (
	"strings"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"github.com/louisbranch/icondex/internal/services/icons/markup"
)

const (
	elementLabel = "label"
	elementAlias = "alias"
	attrName     = "name"
)

// apostrophe stands in for ' in label documents.
const apostrophe = "`"

// definition tracks the label element being scanned.
type definition struct {
	name string
	// building is the record receiving values, NoHandle until the first
	// value or alias is seen.
	building Handle
	// existing is the live label being overwritten, NoHandle for a new name.
	existing Handle
	aliased  bool
}

// Load reads label definitions from src.
//
// When appendMode is false the catalog starts fresh; otherwise existing labels
// are kept and labels with the same name are overwritten in place. References
// between labels are resolved after the whole document is read, in document
// order. A malformed document leaves the catalog partially loaded.
func (c *Catalog) Load(src markup.Source, appendMode bool) error {
	if !appendMode {
		c.Reset()
	}

	var refs []pendingRef
	var def *definition

	for {
		ev, err := src.Next()
		if err != nil {
			return err
		}

		switch ev.Kind {
		case markup.KindEOF:
			return c.resolve(refs)

		case markup.KindStart:
			switch {
			case ev.Is(elementLabel):
				name, ok := ev.Attr(attrName)
				if !ok || strings.TrimSpace(name) == "" {
					return apperrors.WithMetadata(apperrors.CodeDocumentMalformed, "label element without name", lineMetadata(ev))
				}
				def = &definition{name: name, building: NoHandle, existing: NoHandle}
				if h, found := c.Lookup(name); found {
					def.existing = h
				}
			case ev.Is(elementAlias) && def != nil:
				def.aliased = true
				if def.building == NoHandle {
					if def.existing != NoHandle {
						c.Update(def.existing, Aliased())
						def.building = def.existing
					} else {
						def.building = c.alloc(def.name, Aliased())
					}
				}
			}

		case markup.KindText:
			if def == nil {
				continue
			}
			text := strings.TrimSpace(ev.Text)
			if text == "" {
				continue
			}
			ref, isRef, err := parseReference(text)
			if err != nil {
				return apperrors.WrapWithMetadata(apperrors.CodeDocumentMalformed, "label "+def.name, lineMetadata(ev), err)
			}
			if isRef {
				ref.name = def.name
				ref.parent = def.building
				refs = append(refs, ref)
				continue
			}
			c.addLiteral(def, NewValue(strings.ReplaceAll(text, apostrophe, "'")))

		case markup.KindEnd:
			if ev.Is(elementLabel) && def != nil {
				if def.building != NoHandle && def.existing == NoHandle {
					c.publish(def.building)
				}
				def = nil
			}
		}
	}
}

func (c *Catalog) addLiteral(def *definition, v Value) {
	switch {
	case def.aliased:
		c.appendValues(def.building, v)
	case def.existing != NoHandle:
		c.Update(def.existing, Simple(v))
		def.building = def.existing
	default:
		def.building = c.alloc(def.name, Simple(v))
	}
}

func lineMetadata(ev markup.Event) map[string]string {
	if ev.Line == 0 {
		return nil
	}
	return map[string]string{"line": itoa(ev.Line)}
}
