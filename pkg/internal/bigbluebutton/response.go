package bigbluebutton

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const ReturncodeSuccess = "SUCCESS"

// Document is a decoded response envelope. Every top-level field keeps
// the one-element-sequence shape of the wire format, so consumers that
// index element zero keep working for fields the server may repeat.
type Document map[string][]string

func (d Document) First(key string) string {
	if values := d[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func (d Document) Returncode() string {
	return d.First("returncode")
}

func (d Document) Success() bool {
	return d.Returncode() == ReturncodeSuccess
}

// DecodeResponse parses an API response envelope. Malformed XML or a
// missing envelope is an error; no partial document is ever returned.
func DecodeResponse(data []byte) (Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	root, err := nextStartElement(decoder)
	if err != nil {
		return nil, fmt.Errorf("unable to decode response envelope: %w", err)
	}
	if root.Name.Local != "response" {
		return nil, fmt.Errorf("unexpected response envelope <%s>", root.Name.Local)
	}

	document := Document{}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("unable to decode response envelope: unexpected end of document")
		} else if err != nil {
			return nil, fmt.Errorf("unable to decode response envelope: %w", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			var value string
			if err := decoder.DecodeElement(&value, &element); err != nil {
				return nil, fmt.Errorf("unable to decode response field <%s>: %w", element.Name.Local, err)
			}
			document[element.Name.Local] = append(document[element.Name.Local], value)
		case xml.EndElement:
			if element.Name.Local == root.Name.Local {
				return document, nil
			}
		}
	}
}

func nextStartElement(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if element, ok := token.(xml.StartElement); ok {
			return element, nil
		}
	}
}
