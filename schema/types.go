// Package schema defines the client API schema graph: services, operations,
// parameters, type references and the type definitions they reach.
// A Schema is produced by package extract and consumed by code generators
// and external tooling through its JSON form.
package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypeName identifies a declared type.
// TypeName is comparable and may be used as a map key.
type TypeName struct {
	// Package is the qualified package name: a Go import path
	// ("github.com/foo/bar") or a dotted package ("com.example.model").
	// Empty for builtin types.
	Package string

	// Name holds the simple names of the type and its enclosing types,
	// outermost first, joined by ".". Example: "Outer.Inner".
	Name string

	// TypeVariable is set when the name refers to a type parameter of the
	// type identified by Package and Name.
	TypeVariable string
}

// NewTypeName returns the name of a type nested inside the enclosing types
// given in simpleNames, outermost first.
func NewTypeName(pkg string, simpleNames ...string) TypeName {
	return TypeName{Package: pkg, Name: strings.Join(simpleNames, ".")}
}

// ParseTypeName parses a qualified name such as "java.util.Map.Entry",
// "github.com/foo/bar.User" or "int64".
//
// A name containing "/" is a Go name: the type is the segment after the
// last "." that follows the last "/". Otherwise the package ends before the
// first dotted segment that starts with an upper-case letter, and when no
// segment does, the last segment is the type name.
func ParseTypeName(s string) TypeName {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		if j := strings.LastIndex(s[i+1:], "."); j >= 0 {
			j += i + 1
			return TypeName{Package: s[:j], Name: s[j+1:]}
		}
		return TypeName{Package: s[:i], Name: s[i+1:]}
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		r, _ := utf8.DecodeRuneInString(p)
		if unicode.IsUpper(r) {
			return TypeName{
				Package: strings.Join(parts[:i], "."),
				Name:    strings.Join(parts[i:], "."),
			}
		}
	}
	last := len(parts) - 1
	return TypeName{
		Package: strings.Join(parts[:last], "."),
		Name:    parts[last],
	}
}

// SimpleNames returns the simple names of the type and its enclosing types,
// outermost first.
func (n TypeName) SimpleNames() []string {
	if n.Name == "" {
		return nil
	}
	return strings.Split(n.Name, ".")
}

// SimpleName returns the innermost simple name.
func (n TypeName) SimpleName() string {
	if i := strings.LastIndex(n.Name, "."); i >= 0 {
		return n.Name[i+1:]
	}
	return n.Name
}

// Owner returns the declaring type of a type variable, or n itself.
func (n TypeName) Owner() TypeName {
	return TypeName{Package: n.Package, Name: n.Name}
}

// WithTypeVariable returns the name of the type parameter v declared by n.
func (n TypeName) WithTypeVariable(v string) TypeName {
	return TypeName{Package: n.Package, Name: n.Name, TypeVariable: v}
}

// IsTypeVariable reports whether n names a type parameter.
func (n TypeName) IsTypeVariable() bool {
	return n.TypeVariable != ""
}

// IsZero returns true if the name is empty.
func (n TypeName) IsZero() bool {
	return n.Package == "" && n.Name == "" && n.TypeVariable == ""
}

// String returns the qualified name, with "::T" appended for type variables.
func (n TypeName) String() string {
	s := n.Name
	if n.Package != "" {
		s = n.Package + "." + n.Name
	}
	if n.TypeVariable != "" {
		s += "::" + n.TypeVariable
	}
	return s
}

// Less orders names by their string form.
func (n TypeName) Less(o TypeName) bool {
	return n.String() < o.String()
}
