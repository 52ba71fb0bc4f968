package source

import (
	"slices"
	"strings"

	"github.com/broady/apischema/schema"
)

// Conventions names the well-known types of a host language.
type Conventions struct {
	// TopObject names the unparameterized root types (Object, Any, any).
	// They are rejected as ambiguous.
	TopObject []schema.TypeName

	// Optional is the wrapper type collapsed into its single argument.
	Optional schema.TypeName

	// Void names the types that denote "no value".
	Void []schema.TypeName

	// Boolean names the types whose accessors use the "is" prefix.
	Boolean []schema.TypeName

	// Fetcher is the generic type of fetcher constants.
	Fetcher schema.TypeName

	// BaseExceptions are structural super types never added to a definition.
	BaseExceptions []schema.TypeName

	// BuiltinPackage reports whether types of the package are provided by
	// the platform and never get a type definition.
	BuiltinPackage func(pkg string) bool
}

// JVMConventions returns the conventions of Java and Kotlin sources.
func JVMConventions() *Conventions {
	return &Conventions{
		TopObject: []schema.TypeName{
			schema.ParseTypeName("java.lang.Object"),
			schema.ParseTypeName("kotlin.Any"),
		},
		Optional: schema.ParseTypeName("java.util.Optional"),
		Void: []schema.TypeName{
			schema.ParseTypeName("kotlin.Unit"),
			schema.ParseTypeName("java.lang.Void"),
			schema.ParseTypeName("void"),
		},
		Boolean: []schema.TypeName{
			schema.ParseTypeName("kotlin.Boolean"),
			schema.ParseTypeName("java.lang.Boolean"),
			schema.ParseTypeName("boolean"),
		},
		Fetcher: schema.ParseTypeName("org.babyfish.jimmer.sql.fetcher.Fetcher"),
		BaseExceptions: []schema.TypeName{
			schema.ParseTypeName("org.babyfish.jimmer.error.CodeBasedException"),
			schema.ParseTypeName("org.babyfish.jimmer.error.CodeBasedRuntimeException"),
		},
		BuiltinPackage: PackagePrefixes("java", "javax", "kotlin"),
	}
}

// GoAPIPackage is the import path of the Go-side vocabulary package.
const GoAPIPackage = "github.com/broady/apischema/api"

// GoConventions returns the conventions of Go sources.
// Slices and maps are named "[]" and "map" in the universe scope.
func GoConventions() *Conventions {
	return &Conventions{
		TopObject: []schema.TypeName{{Name: "any"}},
		Optional:  schema.NewTypeName(GoAPIPackage, "Optional"),
		Boolean:   []schema.TypeName{{Name: "bool"}},
		Fetcher:   schema.NewTypeName(GoAPIPackage, "Fetcher"),
		// Go sources have one base error type; JVM sources have a checked
		// and a runtime variant.
		BaseExceptions: []schema.TypeName{
			schema.NewTypeName(GoAPIPackage, "CodeError"),
		},
		BuiltinPackage: StandardLibrary,
	}
}

// StandardLibrary reports whether pkg is empty (the universe scope) or a
// standard library import path, whose first element has no dot.
func StandardLibrary(pkg string) bool {
	if pkg == "" {
		return true
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

// PackagePrefixes returns a BuiltinPackage func matching the empty package
// and every package equal to or nested below one of the prefixes.
func PackagePrefixes(prefixes ...string) func(pkg string) bool {
	return func(pkg string) bool {
		if pkg == "" {
			return true
		}
		for _, p := range prefixes {
			if pkg == p || strings.HasPrefix(pkg, p+".") || strings.HasPrefix(pkg, p+"/") {
				return true
			}
		}
		return false
	}
}

// IsTopObject reports whether n is an unparameterized root type.
func (c *Conventions) IsTopObject(n schema.TypeName) bool {
	return slices.Contains(c.TopObject, n)
}

// IsOptional reports whether n is the optional wrapper.
func (c *Conventions) IsOptional(n schema.TypeName) bool {
	return !c.Optional.IsZero() && n == c.Optional
}

// IsVoid reports whether n denotes no value.
func (c *Conventions) IsVoid(n schema.TypeName) bool {
	return slices.Contains(c.Void, n)
}

// IsBoolean reports whether n is a boolean type.
func (c *Conventions) IsBoolean(n schema.TypeName) bool {
	return slices.Contains(c.Boolean, n)
}

// IsFetcher reports whether n is the fetcher type.
func (c *Conventions) IsFetcher(n schema.TypeName) bool {
	return n == c.Fetcher
}

// IsBaseException reports whether n is one of the structural base exceptions.
func (c *Conventions) IsBaseException(n schema.TypeName) bool {
	return slices.Contains(c.BaseExceptions, n)
}

// IsBuiltin reports whether n never gets a type definition:
// type variables and types of builtin packages.
func (c *Conventions) IsBuiltin(n schema.TypeName) bool {
	if n.IsTypeVariable() {
		return true
	}
	if c.BuiltinPackage == nil {
		return n.Package == ""
	}
	return c.BuiltinPackage(n.Package)
}
