package sink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/broady/apischema/schema"
)

func TestSchemaWriter(t *testing.T) {
	s := &schema.Schema{}
	s.AddService(&schema.Service{TypeName: schema.ParseTypeName("com.example.BookService")})

	tests := []struct {
		name     string
		artifact string
		want     string
	}{
		{"default", "", DefaultArtifact},
		{"configured", "schema/api.json", "schema/api.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemorySink()
			w := &SchemaWriter{Sink: mem, Artifact: tt.artifact}
			if err := w.Write(context.Background(), s); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			data := mem.Get(tt.want)
			if data == nil {
				t.Fatalf("nothing written to %s: %v", tt.want, mem.Files())
			}
			decoded, err := schema.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if decoded.FindService(schema.ParseTypeName("com.example.BookService")) == nil {
				t.Errorf("decoded schema = %+v", decoded)
			}
		})
	}
}

type failingSink struct{}

func (failingSink) WriteFile(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestSchemaWriterError(t *testing.T) {
	w := &SchemaWriter{Sink: failingSink{}}
	err := w.Write(context.Background(), &schema.Schema{})
	if err == nil || !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), DefaultArtifact) {
		t.Errorf("Write() error = %v", err)
	}
}
