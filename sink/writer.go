package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/apischema/schema"
)

// DefaultArtifact is the path of the schema artifact when none is configured.
const DefaultArtifact = "META-INF/apischema/client.json"

// SchemaWriter persists a finished schema as one JSON artifact.
type SchemaWriter struct {
	Sink OutputSink

	// Artifact is the output path. Empty means DefaultArtifact.
	Artifact string

	// Logger receives one line per written artifact.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Write encodes s and writes it to the artifact path.
func (w *SchemaWriter) Write(ctx context.Context, s *schema.Schema) error {
	path := w.Artifact
	if path == "" {
		path = DefaultArtifact
	}
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	if err := w.Sink.WriteFile(ctx, path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("schema written", "artifact", path, "bytes", len(data))
	return nil
}
