package extract

import (
	"slices"
	"strings"

	"github.com/broady/apischema/internal/scope"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

func (s *session) isService(decl *source.Declaration) bool {
	if decl.Markers.Has(source.MarkerAPIIgnore) {
		return false
	}
	return decl.Markers.Has(source.MarkerAPI) ||
		(s.opts.ImplicitAPI && decl.Markers.Has(source.MarkerRestController))
}

func (s *session) isOperation(f *source.Function) bool {
	if !f.Public || f.Markers.Has(source.MarkerAPIIgnore) {
		return false
	}
	return f.Markers.Has(source.MarkerAPI) ||
		(s.opts.ImplicitAPI && f.Markers.Any(source.HTTPOperationMarkers...))
}

// groups returns the groups of an Api marker; nil means every group.
func groups(m *source.Marker) []string {
	values := m.Values("value")
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}

func (s *session) service(decl *source.Declaration) error {
	s.services[decl.Name] = true
	if decl.Inner {
		return s.failAt(decl, ReasonInvalid, "API service %s cannot be an inner type", decl.Name)
	}
	if len(decl.TypeParams) > 0 {
		return s.failAt(decl, ReasonInvalid, "API service %s cannot declare type parameters", decl.Name)
	}

	svc := &schema.Service{
		TypeName: decl.Name,
		Doc:      schema.ParseDoc(decl.Doc),
	}
	if m := decl.Markers.Get(source.MarkerAPI); m != nil {
		svc.Groups = groups(m)
	}

	err := scope.Within(s.stack, svc, decl, func(svc *schema.Service) error {
		for _, f := range decl.Functions {
			if !s.isOperation(f) {
				continue
			}
			if err := s.operation(svc, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("service extracted", "service", decl.Name, "operations", len(svc.Operations))
	return nil
}

func (s *session) operation(svc *schema.Service, f *source.Function) error {
	if len(f.TypeParams) > 0 {
		return s.failAt(f, ReasonInvalid, "API operation %s cannot declare type parameters", f.Name)
	}

	op := &schema.Operation{
		Name: f.Name,
		Doc:  schema.ParseDoc(f.Doc),
	}
	if m := f.Markers.Get(source.MarkerAPI); m != nil {
		op.Groups = groups(m)
	}
	if illegal := schema.IllegalGroups(svc.Groups, op.Groups); len(illegal) > 0 {
		return s.failAt(f, ReasonInvalid,
			"API operation %s declares the illegal groups [%s]; the groups of service %s are [%s]",
			f.Name, strings.Join(illegal, ", "), svc.TypeName, strings.Join(svc.Groups, ", "))
	}

	return scope.Within(s.stack, op, f, func(op *schema.Operation) error {
		for i, p := range f.Params {
			if err := s.parameter(i, p); err != nil {
				return err
			}
		}
		if f.Result != nil && !s.conv.IsVoid(f.Result.Name) {
			if err := s.resolveType(f.Result); err != nil {
				return err
			}
		}
		leaves, err := s.exceptions(f)
		if err != nil {
			return err
		}
		op.ExceptionTypeNames = leaves
		s.log.Debug("operation extracted", "service", svc.TypeName, "operation", f.Name)
		return nil
	})
}

// parameter records the parameter at its declared index. Ignored
// parameters are resolved like the others, but the types they reach are
// not defined.
func (s *session) parameter(index int, p *source.Parameter) error {
	param := &schema.Parameter{
		Name:                  p.Name,
		OriginalIndex:         index,
		DefaultValueSpecified: p.HasDefault,
	}
	ignored := p.Markers.Has(source.MarkerAPIIgnore)
	if ignored {
		s.ignored[param] = true
	}
	return scope.Within(s.stack, param, p, func(*schema.Parameter) error {
		s.undefined = ignored
		defer func() { s.undefined = false }()
		return s.resolveType(p.Type)
	})
}
