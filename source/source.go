// Package source defines the view over declarations that the extractor reads.
//
// Adapters (see memsrc and gosrc) translate their host representation into
// Declarations carrying canonical Markers. Declarations are read-only for
// the duration of an extraction run.
package source

import (
	"fmt"

	"github.com/broady/apischema/schema"
)

// Model enumerates and resolves declarations.
type Model interface {
	// Declarations returns the top-level declarations in source order.
	Declarations() []*Declaration

	// Lookup returns the declaration of the named type, or nil if the
	// model does not know it.
	Lookup(name schema.TypeName) *Declaration

	// Conventions returns the well-known names of the host language.
	Conventions() *Conventions
}

// Kind is the closed set of declaration kinds.
type Kind int

const (
	KindClass     Kind = iota // Class or struct
	KindInterface             // Interface
	KindEnum                  // Enumeration
	KindObject                // Singleton object, including companions
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Location is a position in source code.
type Location struct {
	File   string
	Line   int
	Column int

	// Decl is the qualified name of the declaration at this position.
	Decl string
}

// IsZero returns true if the location is empty.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0 && l.Decl == ""
}

func (l Location) String() string {
	switch {
	case l.File == "":
		return l.Decl
	case l.Line == 0:
		return l.File
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// Element is anything that has a source location.
type Element interface {
	Location() Location
}

// Declaration is a named type.
type Declaration struct {
	Name    schema.TypeName
	Kind    Kind
	Pos     Location
	Doc     string
	Markers Markers

	Public bool

	// Inner is true for types that need an enclosing instance.
	Inner bool

	TypeParams    []string
	Functions     []*Function
	Properties    []*Property
	SuperTypes    []*TypeUse
	EnumConstants []*EnumConstant

	// Companion is the static holder of the type (a companion object or a
	// package scope), or nil.
	Companion *Declaration
}

// Location implements Element.
func (d *Declaration) Location() Location { return d.Pos }

// Property returns the property with the given name, or nil.
func (d *Declaration) Property(name string) *Property {
	for _, p := range d.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Function is a function or method declared by a type.
type Function struct {
	Name    string
	Pos     Location
	Doc     string
	Markers Markers

	Public      bool
	Constructor bool
	TypeParams  []string
	Params      []*Parameter

	// Result is nil when the function declares no result.
	Result *TypeUse
}

// Location implements Element.
func (f *Function) Location() Location { return f.Pos }

// Parameter is a function parameter.
type Parameter struct {
	Name       string
	Pos        Location
	Markers    Markers
	HasDefault bool
	Type       *TypeUse
}

// Location implements Element.
func (p *Parameter) Location() Location { return p.Pos }

// Property is a field or property declared by a type.
type Property struct {
	Name    string
	Pos     Location
	Doc     string
	Markers Markers
	Public  bool
	Type    *TypeUse

	// Converted is the target type of a converter registered for this
	// property by the persistence layer, or nil.
	Converted *TypeArgument
}

// Location implements Element.
func (p *Property) Location() Location { return p.Pos }

// EnumConstant is a member of an enumeration.
type EnumConstant struct {
	Name string
	Pos  Location
	Doc  string
}

// Location implements Element.
func (c *EnumConstant) Location() Location { return c.Pos }

// Variance is the variance of a generic argument.
type Variance int

const (
	Invariant     Variance = iota // T
	Covariant                     // out T, ? extends T
	Contravariant                 // in T, ? super T
	Star                          // *, ?
)

func (v Variance) String() string {
	switch v {
	case Invariant:
		return "invariant"
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	case Star:
		return "*"
	default:
		return "unknown"
	}
}

// TypeUse is one occurrence of a type with aliases already expanded.
type TypeUse struct {
	// Name is the referenced type. For type parameters, Name carries
	// TypeVariable and names the declaring type.
	Name     schema.TypeName
	Nullable bool
	Args     []TypeArgument

	// Markers attached to this occurrence, such as FetchBy.
	Markers Markers
	Pos     Location
}

// Location implements Element.
func (t *TypeUse) Location() Location { return t.Pos }

func (t *TypeUse) String() string {
	s := t.Name.String()
	if len(t.Args) > 0 {
		s += "<"
		for i, a := range t.Args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		s += ">"
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// TypeArgument is a generic argument. Type is nil for Star.
type TypeArgument struct {
	Variance Variance
	Type     *TypeUse
}

func (a TypeArgument) String() string {
	switch {
	case a.Variance == Star || a.Type == nil:
		return "*"
	case a.Variance == Invariant:
		return a.Type.String()
	default:
		return a.Variance.String() + " " + a.Type.String()
	}
}
