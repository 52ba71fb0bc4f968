package source

import "github.com/broady/apischema/schema"

// Canonical marker names. Adapters map their native annotations or
// directives onto these names.
//
// Arguments read by the extractor:
//
//	Api                 value: groups
//	FetchBy             value: fetcher constant, ownerType: type
//	DefaultFetcherOwner value: type
//	ClientException     code: string, subTypes: types
//	Throws              value: types
const (
	MarkerAPI                 = "Api"
	MarkerAPIIgnore           = "ApiIgnore"
	MarkerFetchBy             = "FetchBy"
	MarkerDefaultFetcherOwner = "DefaultFetcherOwner"
	MarkerClientException     = "ClientException"
	MarkerJSONValue           = "JsonValue"
	MarkerThrows              = "Throws"
	MarkerImmutable           = "Immutable"
	MarkerEntity              = "Entity"
	MarkerMappedSuperclass    = "MappedSuperclass"
	MarkerEmbeddable          = "Embeddable"
	MarkerRestController      = "RestController"
)

// HTTPOperationMarkers are recognized as API operations in implicit mode.
var HTTPOperationMarkers = []string{
	"RequestMapping",
	"GetMapping",
	"PostMapping",
	"PutMapping",
	"DeleteMapping",
	"PatchMapping",
}

// DataMarkers classify a type definition as data rather than a plain object.
var DataMarkers = []string{
	MarkerImmutable,
	MarkerEntity,
	MarkerMappedSuperclass,
	MarkerEmbeddable,
}

// Marker is a declarative annotation with named arguments.
// Every argument value is a list; scalar arguments have one element.
type Marker struct {
	Name string
	Args map[string][]string
}

// Value returns the first value of the argument.
func (m *Marker) Value(arg string) (string, bool) {
	if m == nil || len(m.Args[arg]) == 0 {
		return "", false
	}
	return m.Args[arg][0], true
}

// Values returns all values of the argument.
func (m *Marker) Values(arg string) []string {
	if m == nil {
		return nil
	}
	return m.Args[arg]
}

// Type returns the argument parsed as a type name.
func (m *Marker) Type(arg string) (schema.TypeName, bool) {
	v, ok := m.Value(arg)
	if !ok || v == "" {
		return schema.TypeName{}, false
	}
	return schema.ParseTypeName(v), true
}

// Types returns all values of the argument parsed as type names.
func (m *Marker) Types(arg string) []schema.TypeName {
	values := m.Values(arg)
	names := make([]schema.TypeName, 0, len(values))
	for _, v := range values {
		if v != "" {
			names = append(names, schema.ParseTypeName(v))
		}
	}
	return names
}

// Markers is the list of markers attached to an element.
type Markers []*Marker

// Get returns the marker with the given name, or nil.
func (ms Markers) Get(name string) *Marker {
	for _, m := range ms {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Has reports whether a marker with the given name is present.
func (ms Markers) Has(name string) bool {
	return ms.Get(name) != nil
}

// Any reports whether any of the named markers is present.
func (ms Markers) Any(names ...string) bool {
	for _, n := range names {
		if ms.Has(n) {
			return true
		}
	}
	return false
}
