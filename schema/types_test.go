package schema

import "testing"

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in      string
		pkg     string
		name    string
		simple  string
		wantStr string
	}{
		{in: "java.util.Optional", pkg: "java.util", name: "Optional", simple: "Optional"},
		{in: "java.util.Map.Entry", pkg: "java.util", name: "Map.Entry", simple: "Entry"},
		{in: "kotlin.Long", pkg: "kotlin", name: "Long", simple: "Long"},
		{in: "github.com/foo/bar.User", pkg: "github.com/foo/bar", name: "User", simple: "User"},
		{in: "gopkg.in/yaml.v3.Node", pkg: "gopkg.in/yaml.v3", name: "Node", simple: "Node"},
		{in: "github.com/foo/bar.user", pkg: "github.com/foo/bar", name: "user", simple: "user"},
		{in: "example.com/Shop.BookService", pkg: "example.com/Shop", name: "BookService", simple: "BookService"},
		{in: "example.com/Shop/Orders.v2.Order", pkg: "example.com/Shop/Orders.v2", name: "Order", simple: "Order"},
		{in: "int64", pkg: "", name: "int64", simple: "int64"},
		{in: "TreeNode", pkg: "", name: "TreeNode", simple: "TreeNode"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n := ParseTypeName(tt.in)
			if n.Package != tt.pkg {
				t.Errorf("Package = %q, want %q", n.Package, tt.pkg)
			}
			if n.Name != tt.name {
				t.Errorf("Name = %q, want %q", n.Name, tt.name)
			}
			if n.SimpleName() != tt.simple {
				t.Errorf("SimpleName() = %q, want %q", n.SimpleName(), tt.simple)
			}
			if n.String() != tt.in {
				t.Errorf("String() = %q, want %q", n.String(), tt.in)
			}
		})
	}
}

func TestTypeNameComparable(t *testing.T) {
	a := NewTypeName("com.example", "Outer", "Inner")
	b := ParseTypeName("com.example.Outer.Inner")
	if a != b {
		t.Errorf("NewTypeName = %#v, ParseTypeName = %#v", a, b)
	}

	g := NewTypeName("example.com/Shop", "BookService")
	if got := ParseTypeName(g.String()); got != g {
		t.Errorf("ParseTypeName(%q) = %#v, want %#v", g, got, g)
	}

	seen := map[TypeName]bool{a: true}
	if !seen[b] {
		t.Error("equal names should hash to the same map key")
	}

	if got := a.SimpleNames(); len(got) != 2 || got[0] != "Outer" || got[1] != "Inner" {
		t.Errorf("SimpleNames() = %v", got)
	}
}

func TestTypeVariable(t *testing.T) {
	owner := NewTypeName("com.example", "Page")
	v := owner.WithTypeVariable("E")

	if !v.IsTypeVariable() {
		t.Fatal("expected type variable")
	}
	if v.Owner() != owner {
		t.Errorf("Owner() = %v, want %v", v.Owner(), owner)
	}
	if v.String() != "com.example.Page::E" {
		t.Errorf("String() = %q", v.String())
	}
	if owner.IsTypeVariable() {
		t.Error("owner should not be a type variable")
	}
}

func TestTypeNameIsZero(t *testing.T) {
	if !(TypeName{}).IsZero() {
		t.Error("zero value should be zero")
	}
	if ParseTypeName("int").IsZero() {
		t.Error("builtin name should not be zero")
	}
}
