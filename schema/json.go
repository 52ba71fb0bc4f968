package schema

import (
	"encoding/json"
	"strings"
)

// JSON serialization support for the schema graph.
// Type names are encoded as their qualified string form.

// MarshalText implements encoding.TextMarshaler for TypeName.
func (n TypeName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TypeName.
func (n *TypeName) UnmarshalText(text []byte) error {
	s, variable, _ := strings.Cut(string(text), "::")
	*n = ParseTypeName(s)
	n.TypeVariable = variable
	return nil
}

// Encode writes the schema as indented JSON.
func (s *Schema) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a schema previously written by Encode.
func Decode(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
