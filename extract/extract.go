// Package extract builds a schema.Schema from a source.Model.
//
// One call to Extract is one depth-first pass over the model's declarations:
// services and their operations are collected, every type they reach is
// resolved and defined, and the first rule violation aborts the pass with a
// *SchemaError. No partial schema is returned.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/broady/apischema/internal/scope"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// Options configures an extraction pass.
type Options struct {
	// ImplicitAPI accepts web controllers and HTTP operations without
	// explicit API markers.
	ImplicitAPI bool

	// IncludeServices names additional service types processed after the
	// sweep, whether or not they are marked.
	IncludeServices []string

	// Includes and Excludes are qualified-name prefixes filtering the sweep.
	// An empty Includes accepts every declaration.
	Includes []string
	Excludes []string

	// Logger receives progress at debug level and a summary at info level.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Extract runs one extraction pass over model.
func Extract(ctx context.Context, model source.Model, opts Options) (*schema.Schema, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &session{
		ctx:      ctx,
		model:    model,
		conv:     model.Conventions(),
		opts:     opts,
		log:      logger,
		out:      &schema.Schema{},
		defined:  make(map[schema.TypeName]bool),
		services: make(map[schema.TypeName]bool),
		ignored:  make(map[*schema.Parameter]bool),
	}
	s.stack = scope.New(s.out, s.attach)

	if err := s.run(); err != nil {
		return nil, err
	}

	ops := 0
	for _, svc := range s.out.Services {
		ops += len(svc.Operations)
	}
	logger.Info("schema extracted",
		"services", len(s.out.Services),
		"operations", ops,
		"definitions", len(s.out.Definitions))
	return s.out, nil
}

// session is the state of one pass. It is discarded afterwards.
type session struct {
	ctx   context.Context
	model source.Model
	conv  *source.Conventions
	opts  Options
	log   *slog.Logger

	out   *schema.Schema
	stack *scope.Stack

	// defined holds types whose definition is complete or in progress.
	defined  map[schema.TypeName]bool
	services map[schema.TypeName]bool
	ignored  map[*schema.Parameter]bool

	// undefined is set while an ignored parameter is resolved; the types
	// it reaches get no definitions.
	undefined bool
}

// attach registers a finished node into its parent.
func (s *session) attach(parent, child any) bool {
	switch c := child.(type) {
	case *schema.TypeRef:
		switch p := parent.(type) {
		case *schema.TypeRef:
			p.AddArgument(c)
		case *schema.Parameter:
			p.Type = c
		case *schema.Operation:
			p.ReturnType = c
		case *schema.Property:
			p.Type = c
		case *schema.TypeDefinition:
			p.AddSuperType(c)
		default:
			return false
		}
		return true

	case *schema.Parameter:
		op, ok := parent.(*schema.Operation)
		if ok {
			if s.ignored[c] {
				op.AddIgnoredParameter(c)
			} else {
				op.AddParameter(c)
			}
		}
		return ok

	case *schema.Operation:
		svc, ok := parent.(*schema.Service)
		if ok {
			svc.AddOperation(c)
		}
		return ok

	case *schema.Property:
		def, ok := parent.(*schema.TypeDefinition)
		if ok {
			def.AddProp(c)
		}
		return ok

	case *schema.EnumConstant:
		def, ok := parent.(*schema.TypeDefinition)
		if ok {
			def.AddEnumConstant(c)
		}
		return ok

	case *schema.Service:
		root, ok := parent.(*schema.Schema)
		if ok {
			root.AddService(c)
		}
		return ok

	case *schema.TypeDefinition:
		root, ok := parent.(*schema.Schema)
		if ok {
			root.AddDefinition(c)
		}
		return ok
	}
	return false
}

var (
	callKinds = []func(any) bool{
		scope.Kind[*schema.Operation](),
		scope.Kind[*schema.Parameter](),
	}
	definitionKind = scope.Kind[*schema.TypeDefinition]()
)

// fail returns an error located at the nearest open operation or
// parameter, or at the innermost open scope outside of operations.
func (s *session) fail(reason Reason, format string, args ...any) error {
	return s.failAt(nil, reason, format, args...)
}

// failAt returns an error located at at, or where fail locates it when at
// is nil. The secondary location is the nearest open type definition, or
// else the innermost open scope, whichever first differs from the primary.
func (s *session) failAt(at source.Element, reason Reason, format string, args ...any) error {
	err := &SchemaError{
		Message:     fmt.Sprintf(format, args...),
		Reason:      reason,
		definitions: len(s.stack.Trace(definitionKind)),
	}
	if at == nil {
		at = s.stack.Nearest(callKinds...)
	}
	if at == nil {
		at = s.stack.Nearest()
	}
	if at != nil {
		err.Primary = at.Location()
	}
	for _, e := range []source.Element{s.stack.Nearest(definitionKind), s.stack.Nearest()} {
		if e == nil {
			continue
		}
		if loc := e.Location(); loc != err.Primary {
			err.Secondary = loc
			break
		}
	}
	return err
}

func (s *session) run() error {
	for _, decl := range s.model.Declarations() {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if !s.included(decl.Name) || !s.isService(decl) {
			continue
		}
		if err := s.service(decl); err != nil {
			return err
		}
	}

	for _, name := range s.opts.IncludeServices {
		tn := schema.ParseTypeName(name)
		if s.services[tn] {
			continue
		}
		decl := s.model.Lookup(tn)
		if decl == nil {
			return &SchemaError{
				Message: fmt.Sprintf("included service %s is not declared", name),
				Reason:  ReasonInvalid,
			}
		}
		if err := s.service(decl); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) included(name schema.TypeName) bool {
	qualified := name.String()
	for _, prefix := range s.opts.Excludes {
		if strings.HasPrefix(qualified, prefix) {
			return false
		}
	}
	if len(s.opts.Includes) == 0 {
		return true
	}
	for _, prefix := range s.opts.Includes {
		if strings.HasPrefix(qualified, prefix) {
			return true
		}
	}
	return false
}
