// Package discover decides where a command-line run reads declarations from.
//
// An argument ending in .yaml or .yml names a manifest. Anything else is a
// Go package pattern with go command semantics:
//   - "." for the current directory
//   - "./..." for every package below it
//   - an import path like "github.com/acme/shop/api"
package discover

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/broady/apischema/source"
	"github.com/broady/apischema/source/gosrc"
	"github.com/broady/apischema/source/memsrc"
	"golang.org/x/tools/go/packages"
)

// Kind is the kind of input.
type Kind int

const (
	KindPackages Kind = iota // Go package patterns
	KindManifest             // YAML manifest
)

func (k Kind) String() string {
	switch k {
	case KindPackages:
		return "packages"
	case KindManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// Input is a classified set of command-line arguments.
type Input struct {
	Kind     Kind
	Patterns []string // KindPackages
	Manifest string   // KindManifest

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Classify sorts args into one Input. A manifest cannot be mixed with
// package patterns or other manifests.
func Classify(args []string, dir string) (*Input, error) {
	if len(args) == 0 {
		return nil, errors.New("no input specified")
	}
	var manifests []string
	for _, arg := range args {
		if isManifest(arg) {
			manifests = append(manifests, arg)
		}
	}
	switch {
	case len(manifests) == 0:
		return &Input{Kind: KindPackages, Patterns: args, Dir: dir}, nil
	case len(args) == 1:
		return &Input{Kind: KindManifest, Manifest: args[0], Dir: dir}, nil
	default:
		return nil, fmt.Errorf("manifest %s cannot be combined with other inputs", manifests[0])
	}
}

func isManifest(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".yaml" || ext == ".yml"
}

func (in *Input) manifestPath() string {
	if filepath.IsAbs(in.Manifest) || in.Dir == "" {
		return in.Manifest
	}
	return filepath.Join(in.Dir, in.Manifest)
}

// Load builds the source model of the input.
func (in *Input) Load(ctx context.Context) (source.Model, error) {
	switch in.Kind {
	case KindManifest:
		return memsrc.Load(in.manifestPath())
	case KindPackages:
		return gosrc.Load(ctx, in.Dir, in.Patterns...)
	default:
		return nil, fmt.Errorf("unknown input kind %v", in.Kind)
	}
}

// OutputDir returns the default output directory: the module root of the
// first package pattern, or the directory holding the manifest.
func (in *Input) OutputDir(ctx context.Context) (string, error) {
	if in.Kind == KindManifest {
		return filepath.Dir(in.manifestPath()), nil
	}
	mod, err := FindModule(ctx, in.Patterns[0], in.Dir)
	if err != nil {
		return "", err
	}
	return mod.Dir, nil
}

// Module describes the module holding a package.
type Module struct {
	Path        string
	Dir         string // directory containing go.mod
	PackagePath string
}

// FindModule returns the module of the first package matching pattern.
func FindModule(ctx context.Context, pattern, dir string) (*Module, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedModule,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}
	if pkg.Module == nil {
		return nil, fmt.Errorf("package %s is not in a module", pkg.PkgPath)
	}
	return &Module{
		Path:        pkg.Module.Path,
		Dir:         pkg.Module.Dir,
		PackagePath: pkg.PkgPath,
	}, nil
}
