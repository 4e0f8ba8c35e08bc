// Package cotw implements the Crate of the Week list pipeline: parsing the
// hand-edited YAML list, checking its chronology and rendering it as an
// AsciiDoc table.
package cotw

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"cotw-list/internal/domain/entity"
)

// Recognized record keys.
const (
	fieldDate      = "date"
	fieldID        = "id"
	fieldNominator = "nominator"
	fieldNote      = "note"
	fieldURL       = "url"
)

const recordShape = "expected a record of the form `{date: YYYY-MM-DD, id: crate-name}`"

// Parser turns the raw YAML list into entries. It holds no state and is safe to reuse.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseReader reads the whole document from r and parses it.
func (p *Parser) ParseReader(r io.Reader) ([]entity.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return p.Parse(data)
}

// Parse decodes a YAML sequence of records into entries, preserving input order.
// The input must hold a single YAML document. The first malformed record aborts
// the parse; nothing is repaired or skipped.
func (p *Parser) Parse(data []byte) ([]entity.Entry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []entity.Entry{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	// A stray "---" must not hide the records after it.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return nil, &entity.ParseError{
			Kind:   entity.KindInvalidType,
			Field:  "document",
			Detail: "expected a single YAML document",
		}
	}

	// A comment-only file decodes to a document without content.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []entity.Entry{}, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.SequenceNode {
		return nil, &entity.ParseError{
			Kind:   entity.KindInvalidType,
			Field:  "document",
			Detail: "expected a sequence of records",
		}
	}

	entries := make([]entity.Entry, 0, len(root.Content))
	for i, item := range root.Content {
		e, err := parseRecord(i, resolve(item))
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(index int, node *yaml.Node) (entity.Entry, error) {
	if node.Kind != yaml.MappingNode {
		return entity.Entry{}, &entity.ParseError{
			Kind:   entity.KindInvalidType,
			Field:  "record",
			Detail: recordShape,
			Index:  index,
			Line:   node.Line,
		}
	}

	var date, id, url *string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := resolve(node.Content[i+1])

		var slot **string
		switch key.Value {
		case fieldDate:
			slot = &date
		case fieldID:
			slot = &id
		case fieldURL:
			slot = &url
		case fieldNominator, fieldNote:
			// Accepted for attribution in the source list but not modeled.
			if _, err := scalarString(index, key.Value, value); err != nil {
				return entity.Entry{}, err
			}
			continue
		default:
			return entity.Entry{}, &entity.ParseError{
				Kind:  entity.KindUnknownField,
				Field: key.Value,
				Index: index,
				Line:  key.Line,
			}
		}

		if *slot != nil {
			return entity.Entry{}, &entity.ParseError{
				Kind:  entity.KindDuplicateField,
				Field: key.Value,
				Index: index,
				Line:  key.Line,
			}
		}
		s, err := scalarString(index, key.Value, value)
		if err != nil {
			return entity.Entry{}, err
		}
		*slot = &s
	}

	if date == nil {
		detail := "the entry has no date"
		if id != nil {
			detail = fmt.Sprintf("the entry for crate %q has no date", *id)
		}
		return entity.Entry{}, &entity.ParseError{
			Kind:   entity.KindMissingField,
			Field:  fieldDate,
			Detail: detail,
			Index:  index,
			Line:   node.Line,
		}
	}
	parsed, err := entity.ParseDate(*date)
	if err != nil {
		return entity.Entry{}, &entity.ParseError{
			Kind:   entity.KindInvalidValue,
			Field:  fieldDate,
			Value:  *date,
			Detail: "expected YYYY-MM-DD",
			Index:  index,
			Line:   node.Line,
		}
	}
	if id == nil {
		return entity.Entry{}, &entity.ParseError{
			Kind:   entity.KindMissingField,
			Field:  fieldID,
			Detail: fmt.Sprintf("the entry dated %q has no crate id", *date),
			Index:  index,
			Line:   node.Line,
		}
	}

	return entity.Entry{Date: parsed, ID: id, URL: url}, nil
}

// scalarString returns the text of a string-like scalar value. Plain dates
// resolve to !!timestamp and are kept as text; null, booleans and numbers are
// rejected.
func scalarString(index int, field string, value *yaml.Node) (string, error) {
	if value.Kind != yaml.ScalarNode {
		return "", invalidType(index, field, value, "expected a string")
	}
	switch tag := value.ShortTag(); tag {
	case "!!null", "!!bool", "!!int", "!!float":
		return "", invalidType(index, field, value, "expected a string, found "+tag)
	}
	return value.Value, nil
}

func invalidType(index int, field string, value *yaml.Node, detail string) *entity.ParseError {
	return &entity.ParseError{
		Kind:   entity.KindInvalidType,
		Field:  field,
		Detail: detail,
		Index:  index,
		Line:   value.Line,
	}
}

// resolve follows YAML aliases to the anchored node.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
