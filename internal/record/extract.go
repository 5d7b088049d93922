package record

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

var (
	// ErrMalformedXML is returned when the document is not well-formed XML.
	ErrMalformedXML = errors.New("malformed XML")

	// ErrMissingRecord is returned when the document has no record element.
	ErrMissingRecord = errors.New("missing root record element")
)

const recordElement = "record"

// Extract reads one XML document and returns the fields of its first
// <record> element. For each field the first descendant element with that
// name supplies its text content.
func Extract(r io.Reader) (Record, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		rec        Record
		found      bool
		sawRoot    bool
		rootClosed bool
		inRecord   bool
		depth      int
		level      int
		seen       = make(map[Field]bool, len(Fields))
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if rootClosed && len(bytes.TrimSpace(t)) > 0 {
				return Record{}, fmt.Errorf("%w: content after the root element", ErrMalformedXML)
			}

		case xml.StartElement:
			if rootClosed {
				return Record{}, fmt.Errorf("%w: more than one root element", ErrMalformedXML)
			}
			sawRoot = true
			level++
			if !inRecord {
				if !found && t.Name.Local == recordElement {
					found = true
					inRecord = true
					depth = 0
				}
				continue
			}

			f := Field(t.Name.Local)
			if isField(f) && !seen[f] {
				text, err := textContent(dec)
				if err != nil {
					return Record{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
				}
				seen[f] = true
				rec = rec.With(f, strings.TrimSpace(text))
				level--
				continue
			}
			depth++

		case xml.EndElement:
			level--
			if level == 0 {
				rootClosed = true
			}
			if !inRecord {
				continue
			}
			if depth == 0 {
				inRecord = false
				continue
			}
			depth--
		}
	}

	if !sawRoot {
		return Record{}, fmt.Errorf("%w: document has no root element", ErrMalformedXML)
	}
	if !found {
		return Record{}, ErrMissingRecord
	}
	return rec, nil
}

// textContent consumes tokens up to the end of the current element and
// returns all character data inside it.
func textContent(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

func isField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
