package source

import (
	"testing"

	"github.com/broady/apischema/schema"
)

func TestMarkerArguments(t *testing.T) {
	m := &Marker{
		Name: MarkerClientException,
		Args: map[string][]string{
			"code":     {"NOT_FOUND"},
			"subTypes": {"com.example.A", "", "com.example.B"},
		},
	}

	if v, ok := m.Value("code"); !ok || v != "NOT_FOUND" {
		t.Errorf("Value(code) = %q, %v", v, ok)
	}
	if _, ok := m.Value("missing"); ok {
		t.Error("Value(missing) should not be found")
	}
	if got := m.Types("subTypes"); len(got) != 2 || got[1] != schema.ParseTypeName("com.example.B") {
		t.Errorf("Types(subTypes) = %v", got)
	}
	if _, ok := m.Type("missing"); ok {
		t.Error("Type(missing) should not be found")
	}

	var nilMarker *Marker
	if _, ok := nilMarker.Value("code"); ok {
		t.Error("nil marker should have no values")
	}
}

func TestMarkers(t *testing.T) {
	ms := Markers{{Name: MarkerAPI}, {Name: MarkerEntity}}
	if !ms.Has(MarkerAPI) || ms.Has(MarkerAPIIgnore) {
		t.Error("Has mismatch")
	}
	if !ms.Any(DataMarkers...) {
		t.Error("Any(DataMarkers) should match Entity")
	}
	if ms.Get(MarkerThrows) != nil {
		t.Error("Get(Throws) should be nil")
	}
}

func TestJVMConventions(t *testing.T) {
	c := JVMConventions()

	tests := []struct {
		name string
		fn   func(schema.TypeName) bool
		in   string
		want bool
	}{
		{"top object", c.IsTopObject, "java.lang.Object", true},
		{"kotlin any", c.IsTopObject, "kotlin.Any", true},
		{"optional", c.IsOptional, "java.util.Optional", true},
		{"unit", c.IsVoid, "kotlin.Unit", true},
		{"boolean", c.IsBoolean, "kotlin.Boolean", true},
		{"fetcher", c.IsFetcher, "org.babyfish.jimmer.sql.fetcher.Fetcher", true},
		{"base exception", c.IsBaseException, "org.babyfish.jimmer.error.CodeBasedException", true},
		{"runtime base exception", c.IsBaseException, "org.babyfish.jimmer.error.CodeBasedRuntimeException", true},
		{"builtin kotlin", c.IsBuiltin, "kotlin.collections.List", true},
		{"builtin java", c.IsBuiltin, "java.time.LocalDate", true},
		{"user type", c.IsBuiltin, "com.example.TreeNode", false},
		{"prefix is not a package", c.IsBuiltin, "javalin.Context", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(schema.ParseTypeName(tt.in)); got != tt.want {
				t.Errorf("%s(%s) = %v, want %v", tt.name, tt.in, got, tt.want)
			}
		})
	}

	if !c.IsBuiltin(schema.ParseTypeName("com.example.Page").WithTypeVariable("E")) {
		t.Error("type variables are builtin")
	}
}

func TestGoConventions(t *testing.T) {
	c := GoConventions()

	if !c.IsTopObject(schema.ParseTypeName("any")) {
		t.Error("any should be the top object")
	}
	if !c.IsOptional(schema.NewTypeName(GoAPIPackage, "Optional")) {
		t.Error("api.Optional should be the optional wrapper")
	}
	if !c.IsBaseException(schema.ParseTypeName(GoAPIPackage+".CodeError")) || len(c.BaseExceptions) != 1 {
		t.Errorf("BaseExceptions = %v, want only api.CodeError", c.BaseExceptions)
	}
	if !c.IsBoolean(schema.ParseTypeName("bool")) {
		t.Error("bool should be boolean")
	}
	if c.IsVoid(schema.ParseTypeName("void")) {
		t.Error("Go has no void type name")
	}

	for pkg, want := range map[string]bool{
		"":                        true,
		"time":                    true,
		"net/http":                true,
		"github.com/foo/bar":      false,
		"example.com/shop/models": false,
	} {
		if got := StandardLibrary(pkg); got != want {
			t.Errorf("StandardLibrary(%q) = %v, want %v", pkg, got, want)
		}
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Decl: "com.example.A"}, "com.example.A"},
		{Location{File: "a.go"}, "a.go"},
		{Location{File: "a.go", Line: 3}, "a.go:3"},
		{Location{File: "a.go", Line: 3, Column: 7}, "a.go:3:7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
