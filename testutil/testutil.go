// Package testutil provides fixtures and assertions shared by the tests of
// several packages. Models are built from YAML manifests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source/memsrc"
)

// Model parses a manifest or fails the test.
func Model(t testing.TB, manifest string) *memsrc.Model {
	t.Helper()
	m, err := memsrc.Parse([]byte(manifest), "api.yaml")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return m
}

// WriteManifest writes a manifest into a new temp directory and returns
// its path.
func WriteManifest(t testing.TB, manifest string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

// AssertTypeRef checks the rendered form of ref, such as
// "kotlin.collections.List<com.example.Book?>".
func AssertTypeRef(t testing.TB, ref *schema.TypeRef, want string) {
	t.Helper()
	if got := ref.String(); got != want {
		t.Errorf("type = %q, want %q", got, want)
	}
}

// DefinitionNames returns the simple names of the schema's definitions in
// order.
func DefinitionNames(s *schema.Schema) []string {
	names := make([]string, 0, len(s.Definitions))
	for _, d := range s.Definitions {
		names = append(names, d.TypeName.SimpleName())
	}
	return names
}

// ServiceNames returns the simple names of the schema's services in order.
func ServiceNames(s *schema.Schema) []string {
	names := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		names = append(names, svc.TypeName.SimpleName())
	}
	return names
}
