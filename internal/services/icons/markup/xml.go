package markup

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"golang.org/x/net/html/charset"
)

// XMLReader adapts an encoding/xml decoder to a Source.
type XMLReader struct {
	dec     *xml.Decoder
	name    string
	pending xml.Token
	eof     bool
}

// NewXMLReader returns a Source reading XML from r. Documents declaring a
// non-UTF-8 encoding are transcoded. name identifies the document in errors.
func NewXMLReader(r io.Reader, name string) *XMLReader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &XMLReader{dec: dec, name: name}
}

// Next returns the next event.
func (r *XMLReader) Next() (Event, error) {
	if r.eof {
		return Event{Kind: KindEOF}, nil
	}

	var text strings.Builder
	hasText := false
	textLine := 0

	for {
		tok, err := r.token()
		if err == io.EOF {
			r.eof = true
			if hasText {
				return Event{Kind: KindText, Text: text.String(), Line: textLine}, nil
			}
			return Event{Kind: KindEOF}, nil
		}
		if err != nil {
			line, _ := r.dec.InputPos()
			return Event{}, apperrors.WrapWithMetadata(
				apperrors.CodeDocumentMalformed,
				"parse "+r.name,
				map[string]string{"document": r.name, "line": strconv.Itoa(line)},
				err,
			)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if !hasText {
				textLine, _ = r.dec.InputPos()
			}
			text.Write(t)
			hasText = true
		case xml.StartElement:
			if hasText {
				r.pending = t.Copy()
				return Event{Kind: KindText, Text: text.String(), Line: textLine}, nil
			}
			return r.startEvent(t), nil
		case xml.EndElement:
			if hasText {
				r.pending = t
				return Event{Kind: KindText, Text: text.String(), Line: textLine}, nil
			}
			line, _ := r.dec.InputPos()
			return Event{Kind: KindEnd, Name: strings.ToLower(t.Name.Local), Line: line}, nil
		}
	}
}

func (r *XMLReader) token() (xml.Token, error) {
	if r.pending != nil {
		tok := r.pending
		r.pending = nil
		return tok, nil
	}
	return r.dec.Token()
}

func (r *XMLReader) startEvent(t xml.StartElement) Event {
	line, _ := r.dec.InputPos()
	ev := Event{Kind: KindStart, Name: strings.ToLower(t.Name.Local), Line: line}
	if len(t.Attr) > 0 {
		ev.Attrs = make(map[string]string, len(t.Attr))
		for _, attr := range t.Attr {
			ev.Attrs[attr.Name.Local] = attr.Value
		}
	}
	return ev
}
