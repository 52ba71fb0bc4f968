package input

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/broady/apischema/testutil"
)

func TestConfig(t *testing.T) {
	f := &Flags{
		Services: []string{"com.example.B"},
		Exclude:  []string{"com.example.internal."},
		Option: map[string]string{
			"apischema.services":    "com.example.A",
			"apischema.implicitApi": "true",
			"apischema.artifact":    "api.json",
		},
	}
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if !cfg.ImplicitAPI || cfg.Artifact != "api.json" {
		t.Errorf("Config() = %+v", cfg)
	}
	if want := []string{"com.example.A", "com.example.B"}; !slices.Equal(cfg.IncludeServices, want) {
		t.Errorf("IncludeServices = %v, want %v", cfg.IncludeServices, want)
	}
	if !slices.Equal(cfg.Excludes, []string{"com.example.internal."}) {
		t.Errorf("Excludes = %v", cfg.Excludes)
	}

	f.Option["apischema.artifact"] = "/abs.json"
	if _, err := f.Config(); err == nil {
		t.Error("Config() should reject an absolute artifact")
	}
}

func TestGenerator(t *testing.T) {
	path := testutil.WriteManifest(t, "package: com.example\ndeclarations:\n  - name: Shop\n    markers: [Api]\n")

	f := &Flags{Inputs: []string{path}}
	g, in, err := f.Generator(context.Background(), slog.Default())
	if err != nil {
		t.Fatalf("Generator() error = %v", err)
	}
	if in.Manifest != path {
		t.Errorf("input = %+v", in)
	}
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Schema.Services) != 1 {
		t.Errorf("services = %+v", res.Schema.Services)
	}

	f.Inputs = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	if _, _, err := f.Generator(context.Background(), slog.Default()); err == nil {
		t.Error("Generator() with a missing manifest should fail")
	}
}
