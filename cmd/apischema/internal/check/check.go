package check

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/apischema/cmd/apischema/internal/input"
)

type Cmd struct {
	input.Flags
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	g, _, err := c.Generator(ctx, logger)
	if err != nil {
		return err
	}
	res, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	operations := 0
	for _, svc := range res.Schema.Services {
		operations += len(svc.Operations)
	}
	fmt.Printf("✓ %d services, %d operations, %d types\n",
		len(res.Schema.Services), operations, len(res.Schema.Definitions))
	fmt.Println("✓ All types resolvable")
	return nil
}
