package markup

import "strings"

// Kind identifies a markup event.
type Kind uint8

const (
	// KindStart reports an element start tag with its attributes.
	KindStart Kind = iota + 1
	// KindText reports character data between tags.
	KindText
	// KindEnd reports an element end tag.
	KindEnd
	// KindEOF reports the end of the document.
	KindEOF
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindText:
		return "text"
	case KindEnd:
		return "end"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Event is one item of a markup stream.
type Event struct {
	Kind Kind
	// Name is the lowercased local element name for start and end events.
	Name  string
	Attrs map[string]string
	Text  string
	Line  int
}

// Attr returns the attribute value and whether it was present.
func (e Event) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Is reports whether e is a start or end event for the element name.
func (e Event) Is(name string) bool {
	return strings.EqualFold(e.Name, name)
}

// Source yields markup events. After KindEOF every call returns KindEOF.
type Source interface {
	Next() (Event, error)
}

// Start builds a start event.
func Start(name string, attrs ...string) Event {
	ev := Event{Kind: KindStart, Name: strings.ToLower(name)}
	if len(attrs) > 0 {
		ev.Attrs = make(map[string]string, len(attrs)/2)
		for i := 0; i+1 < len(attrs); i += 2 {
			ev.Attrs[attrs[i]] = attrs[i+1]
		}
	}
	return ev
}

// Text builds a text event.
func Text(text string) Event {
	return Event{Kind: KindText, Text: text}
}

// End builds an end event.
func End(name string) Event {
	return Event{Kind: KindEnd, Name: strings.ToLower(name)}
}

type eventSlice struct {
	events []Event
	pos    int
}

// Events returns a Source replaying the given events followed by EOF.
func Events(events ...Event) Source {
	return &eventSlice{events: events}
}

func (s *eventSlice) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{Kind: KindEOF}, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}
