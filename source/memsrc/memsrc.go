// Package memsrc provides an in-memory source.Model.
//
// A model is built in code with New and Add, or loaded from a YAML manifest
// with Parse and Load. It is the adapter used by tests and by hosts that
// export their declarations to a manifest file.
package memsrc

import (
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// Model is an in-memory source.Model.
type Model struct {
	conv   *source.Conventions
	decls  []*source.Declaration
	byName map[schema.TypeName]*source.Declaration
}

var _ source.Model = (*Model)(nil)

// New returns an empty model. Nil conventions default to
// source.JVMConventions.
func New(conv *source.Conventions) *Model {
	if conv == nil {
		conv = source.JVMConventions()
	}
	return &Model{
		conv:   conv,
		byName: make(map[schema.TypeName]*source.Declaration),
	}
}

// Add appends top-level declarations in source order. A declaration with
// the name of an existing one replaces it for Lookup.
func (m *Model) Add(decls ...*source.Declaration) *Model {
	for _, d := range decls {
		m.decls = append(m.decls, d)
		m.byName[d.Name] = d
	}
	return m
}

// Declarations implements source.Model.
func (m *Model) Declarations() []*source.Declaration {
	return m.decls
}

// Lookup implements source.Model.
// Companions are found through their owners.
func (m *Model) Lookup(name schema.TypeName) *source.Declaration {
	if d, ok := m.byName[name]; ok {
		return d
	}
	for _, d := range m.decls {
		if c := d.Companion; c != nil && c.Name == name {
			return c
		}
	}
	return nil
}

// Conventions implements source.Model.
func (m *Model) Conventions() *source.Conventions {
	return m.conv
}
