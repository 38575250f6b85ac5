// Package schema declares the field mappings for the buildbot
// telemetry index and serializes them into an index-creation payload.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldType is an Elasticsearch core field type.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeLong   FieldType = "long"
	TypeDouble FieldType = "double"
	TypeDate   FieldType = "date"
)

// Field describes how a single document field is indexed. Analyzed is
// only meaningful for string fields: analyzed strings are tokenized for
// full-text search, not-analyzed strings are matched exactly and suit
// categorical filters (builder name, result, revision).
type Field struct {
	Type     FieldType
	Analyzed bool
}

// fieldJSON is the wire form of a field descriptor.
type fieldJSON struct {
	Type  FieldType `json:"type"`
	Index string    `json:"index,omitempty"`
}

// MarshalJSON serializes the descriptor as Elasticsearch expects it,
// e.g. {"type":"string","index":"not_analyzed"}. The index setting is
// omitted for non-string types and for analyzed strings, which is the
// server default.
func (f Field) MarshalJSON() ([]byte, error) {
	fj := fieldJSON{Type: f.Type}
	if f.Type == TypeString && !f.Analyzed {
		fj.Index = "not_analyzed"
	}
	return json.Marshal(fj)
}

// UnmarshalJSON parses a field descriptor. Strings without an explicit
// index setting default to analyzed.
func (f *Field) UnmarshalJSON(data []byte) error {
	var fj fieldJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}

	switch fj.Index {
	case "", "analyzed", "not_analyzed":
	default:
		return fmt.Errorf("unsupported index setting %q", fj.Index)
	}

	f.Type = fj.Type
	f.Analyzed = fj.Type == TypeString && fj.Index != "not_analyzed"
	return nil
}

// Mapping maps field names to their descriptors for one document type.
type Mapping map[string]Field

// Schema maps document type names to their mappings. The buildbot index
// declares two document types, "build" and "step".
type Schema map[string]Mapping

// Validate checks that the schema is non-empty and that every field
// uses one of the supported types.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema declares no document types")
	}

	for docType, mapping := range s {
		if docType == "" {
			return fmt.Errorf("schema contains an unnamed document type")
		}
		if len(mapping) == 0 {
			return fmt.Errorf("document type %q declares no fields", docType)
		}
		for name, field := range mapping {
			switch field.Type {
			case TypeString, TypeLong, TypeDouble, TypeDate:
			default:
				return fmt.Errorf("field %s.%s: unsupported type %q", docType, name, field.Type)
			}
		}
	}

	return nil
}

// docMapping is the wire form of a single document type mapping.
type docMapping struct {
	Properties Mapping `json:"properties"`
}

// CreateBody builds the JSON body for the Create Index API:
// {"mappings": {<doc type>: {"properties": {...}}, ...}}.
func (s Schema) CreateBody() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	mappings := make(map[string]docMapping, len(s))
	for docType, mapping := range s {
		mappings[docType] = docMapping{Properties: mapping}
	}

	body := struct {
		Mappings map[string]docMapping `json:"mappings"`
	}{Mappings: mappings}

	return json.Marshal(body)
}

// DocTypes returns the declared document type names, sorted.
func (s Schema) DocTypes() []string {
	types := make([]string, 0, len(s))
	for docType := range s {
		types = append(types, docType)
	}
	sort.Strings(types)
	return types
}

// FieldNames returns the field names of one document type, sorted.
// The second return is false if the document type is not declared.
func (s Schema) FieldNames(docType string) ([]string, bool) {
	mapping, ok := s[docType]
	if !ok {
		return nil, false
	}

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, true
}
