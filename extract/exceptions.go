package extract

import (
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// exceptions expands the Throws marker of f into leaf error codes.
// Leaves are defined like any other reachable type.
func (s *session) exceptions(f *source.Function) ([]schema.TypeName, error) {
	m := f.Markers.Get(source.MarkerThrows)
	if m == nil {
		return nil, nil
	}
	c := &classifier{s: s, visited: make(map[schema.TypeName]bool)}
	for _, name := range m.Types("value") {
		if err := c.visit(name); err != nil {
			return nil, err
		}
	}
	for _, leaf := range c.leaves {
		if err := s.defineType(leaf); err != nil {
			return nil, err
		}
	}
	return c.leaves, nil
}

// classifier walks one throws declaration.
type classifier struct {
	s       *session
	visited map[schema.TypeName]bool
	leaves  []schema.TypeName
}

func (c *classifier) visit(name schema.TypeName) error {
	if c.visited[name] {
		return nil
	}
	c.visited[name] = true

	decl := c.s.model.Lookup(name)
	if decl == nil {
		return nil
	}
	m := decl.Markers.Get(source.MarkerClientException)
	if m == nil {
		return nil
	}
	code, _ := m.Value("code")
	subTypes := m.Types("subTypes")

	switch {
	case code != "" && len(subTypes) > 0:
		return c.s.failAt(decl, ReasonConflict,
			"the code and subTypes of the client exception %s are mutually exclusive", name)
	case code != "":
		c.leaves = append(c.leaves, name)
	default:
		for _, sub := range subTypes {
			if err := c.visit(sub); err != nil {
				return err
			}
		}
	}
	return nil
}
