// Copyright 2026 MIRI Project. All rights reserved.

// Package lawdoc normalizes the XML payloads of the national law service
// into uniform Go structures. The service serializes a repeated element as
// a single object when one result exists and as a list otherwise; this
// package resolves that ambiguity once, at the boundary, so consumers can
// always iterate.
package lawdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one decoded XML element. Child elements are stored under their
// local name; a child that appeared once is the value itself, a child that
// repeated is a []any. Leaf elements decode to their trimmed string value.
// Mixed content keeps its text under the "#text" key.
type Node map[string]any

// DecodeXML reads an XML document and returns a single-key Node mapping the
// root element name to its decoded content.
func DecodeXML(r io.Reader) (Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("decoding XML: no root element")
			}
			return nil, fmt.Errorf("decoding XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		val, err := decodeElement(dec)
		if err != nil {
			return nil, fmt.Errorf("decoding XML: %w", err)
		}
		return Node{start.Name.Local: val}, nil
	}
}

// decodeElement consumes tokens until the matching end element. It returns
// a string for leaf elements and a Node otherwise.
func decodeElement(dec *xml.Decoder) (any, error) {
	node := Node{}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec)
			if err != nil {
				return nil, err
			}
			node.add(t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if len(node) == 0 {
				return s, nil
			}
			if s != "" {
				node["#text"] = s
			}
			return node, nil
		}
	}
}

// add stores a child value, promoting the slot to a list on repetition.
// A single occurrence stays scalar, matching the wire format's own
// one-vs-many ambiguity that ForceList resolves for consumers.
func (n Node) add(key string, val any) {
	existing, ok := n[key]
	if !ok {
		n[key] = val
		return
	}
	if list, ok := existing.([]any); ok {
		n[key] = append(list, val)
		return
	}
	n[key] = []any{existing, val}
}

// ForceList coerces a decoded value into a list. Nil and empty values
// yield an empty list, a list passes through unchanged, and any other
// value is wrapped as a single element.
func ForceList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case string:
		if t == "" {
			return nil
		}
		return []any{t}
	case Node:
		if len(t) == 0 {
			return nil
		}
		return []any{t}
	default:
		return []any{v}
	}
}

// Child returns the named child as a Node. Missing or scalar children
// yield an empty Node so lookups can chain without nil checks.
func (n Node) Child(key string) Node {
	if child, ok := n[key].(Node); ok {
		return child
	}
	return Node{}
}

// List returns the named child coerced to a list.
func (n Node) List(key string) []any {
	return ForceList(n[key])
}

// Str returns the named child's text. A scalar child is returned as-is;
// an element child yields its "#text" content (the CDATA case).
func (n Node) Str(key string) string {
	return Text(n[key])
}

// Text extracts the string content of any decoded value.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Node:
		if s, ok := t["#text"].(string); ok {
			return s
		}
		return ""
	default:
		return ""
	}
}

// AsNode coerces a decoded value to a Node, returning an empty Node for
// scalars.
func AsNode(v any) Node {
	if n, ok := v.(Node); ok {
		return n
	}
	return Node{}
}
