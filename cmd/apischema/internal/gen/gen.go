package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/broady/apischema/cmd/apischema/internal/input"
)

type Cmd struct {
	input.Flags

	Out      string `help:"Output directory (default: module root, or the manifest directory)." short:"o"`
	Artifact string `help:"Artifact path below the output directory (default: META-INF/apischema/client.json)."`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	g, in, err := c.Generator(ctx, logger)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		if out, err = in.OutputDir(ctx); err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
	}
	if out, err = filepath.Abs(out); err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if c.Artifact != "" {
		g.Artifact(c.Artifact)
	}
	res, err := g.ToDir(ctx, out)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", filepath.Join(out, filepath.FromSlash(res.Artifact)))
	return nil
}
