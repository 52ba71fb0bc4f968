// Package apischema extracts a client API schema from annotated sources.
//
// A source model (Go packages loaded by source/gosrc, or a manifest loaded
// by source/memsrc) is swept for API services. Every operation, parameter
// and reachable type is resolved and validated, and the finished graph is
// written as one JSON artifact.
//
//	res, err := apischema.From(model).
//	    ImplicitAPI().
//	    Exclude("github.com/acme/shop/internal").
//	    ToDir(ctx, "./build")
package apischema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/apischema/extract"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/sink"
	"github.com/broady/apischema/source"
)

// Generator provides a fluent API over one extraction run.
// Create with From and configure with method chaining.
type Generator struct {
	model  source.Model
	cfg    Config
	logger *slog.Logger
}

// From returns a Generator reading model.
func From(model source.Model) *Generator {
	return &Generator{model: model}
}

// WithConfig replaces the whole configuration.
func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	return g
}

// ImplicitAPI accepts web controllers and HTTP operations without
// explicit API markers.
func (g *Generator) ImplicitAPI() *Generator {
	g.cfg.ImplicitAPI = true
	return g
}

// IncludeServices adds service types processed whether or not they are marked.
func (g *Generator) IncludeServices(names ...string) *Generator {
	g.cfg.IncludeServices = append(g.cfg.IncludeServices, names...)
	return g
}

// Include restricts the sweep to declarations under the given prefixes.
func (g *Generator) Include(prefixes ...string) *Generator {
	g.cfg.Includes = append(g.cfg.Includes, prefixes...)
	return g
}

// Exclude removes declarations under the given prefixes from the sweep.
func (g *Generator) Exclude(prefixes ...string) *Generator {
	g.cfg.Excludes = append(g.cfg.Excludes, prefixes...)
	return g
}

// Artifact sets the relative output path of the schema.
func (g *Generator) Artifact(path string) *Generator {
	g.cfg.Artifact = path
	return g
}

// Logger sets the logger. If unset, slog.Default() is used.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.logger = l
	return g
}

// Result is the outcome of a run.
type Result struct {
	Schema *schema.Schema

	// Artifact is the path the schema was written to, or empty when
	// the run did not write.
	Artifact string
}

// Generate extracts and validates the schema without writing it.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	opts := g.cfg.options()
	opts.Logger = g.logger

	s, err := extract.Extract(ctx, g.model, opts)
	if err != nil {
		return nil, err
	}
	if errs := s.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("schema validation: %w", errors.Join(errs...))
	}
	return &Result{Schema: s}, nil
}

// ToSink generates the schema and writes it to out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*Result, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	w := &sink.SchemaWriter{Sink: out, Artifact: g.cfg.Artifact, Logger: g.logger}
	if err := w.Write(ctx, res.Schema); err != nil {
		return nil, err
	}
	res.Artifact = w.Artifact
	if res.Artifact == "" {
		res.Artifact = sink.DefaultArtifact
	}
	return res, nil
}

// ToDir generates the schema and writes it below dir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*Result, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	return g.ToSink(ctx, sink.NewFilesystemSink(dir))
}
