// Package input holds the flags shared by the gen and check commands.
package input

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/apischema"
	"github.com/broady/apischema/internal/discover"
)

// Flags selects the sources and configures extraction.
type Flags struct {
	Inputs []string `arg:"" optional:"" help:"Go package patterns or one YAML manifest." default:"."`

	ImplicitAPI bool              `help:"Accept web controllers and HTTP operations without API markers." name:"implicit-api"`
	Services    []string          `help:"Service types processed whether or not they are marked." sep:","`
	Include     []string          `help:"Only sweep declarations under these qualified-name prefixes." sep:","`
	Exclude     []string          `help:"Skip declarations under these qualified-name prefixes." sep:","`
	Option      map[string]string `help:"Processor option, e.g. apischema.implicitApi=true." short:"O"`
}

// Config merges processor options and flags. Flags add to options.
func (f *Flags) Config() (*apischema.Config, error) {
	cfg, err := apischema.ConfigFromOptions(f.Option)
	if err != nil {
		return nil, err
	}
	cfg.ImplicitAPI = cfg.ImplicitAPI || f.ImplicitAPI
	cfg.IncludeServices = append(cfg.IncludeServices, f.Services...)
	cfg.Includes = append(cfg.Includes, f.Include...)
	cfg.Excludes = append(cfg.Excludes, f.Exclude...)
	return cfg, nil
}

// Generator loads the inputs and returns a configured generator.
func (f *Flags) Generator(ctx context.Context, logger *slog.Logger) (*apischema.Generator, *discover.Input, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, nil, err
	}
	in, err := discover.Classify(f.Inputs, "")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loading sources", "kind", in.Kind, "inputs", f.Inputs)
	model, err := in.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", in.Kind, err)
	}
	return apischema.From(model).WithConfig(*cfg).Logger(logger), in, nil
}
