package extract

import (
	"slices"
	"strings"

	"github.com/broady/apischema/internal/scope"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// resolveType resolves use into a reference attached to the enclosing node.
func (s *session) resolveType(use *source.TypeUse) error {
	return scope.Within(s.stack, &schema.TypeRef{}, use, func(ref *schema.TypeRef) error {
		return s.fillRef(ref, use, nil)
	})
}

// fillRef resolves use into ref. chain holds the JSON value types being
// substituted on the way to use.
func (s *session) fillRef(ref *schema.TypeRef, use *source.TypeUse, chain []schema.TypeName) error {
	ref.TypeName = use.Name
	ref.Nullable = use.Nullable

	if m := use.Markers.Get(source.MarkerFetchBy); m != nil {
		if err := s.fetchBy(ref, use, m); err != nil {
			return err
		}
	}

	if use.Name.IsTypeVariable() {
		return nil
	}
	if s.conv.IsTopObject(use.Name) {
		return s.fail(ReasonAmbiguous, "%s is not an unambiguous type", use)
	}

	if provider := s.jsonValue(use.Name); provider != nil {
		if slices.Contains(chain, use.Name) {
			return s.fail(ReasonRecursion, "dead recursion in JSON value types: %s", chainString(append(chain, use.Name)))
		}
		sub := &schema.TypeRef{}
		sc := s.stack.EnterDetached(sub, provider.Result)
		if err := s.fillRef(sub, provider.Result, append(slices.Clip(chain), use.Name)); err != nil {
			sc.Discard()
			return err
		}
		if err := sc.Exit(); err != nil {
			return err
		}
		ref.ReplaceBy(sub, ref.Nullable || sub.Nullable)
		return nil
	}

	for _, arg := range use.Args {
		if arg.Variance == source.Star || arg.Variance == source.Contravariant || arg.Type == nil {
			return s.fail(ReasonAmbiguous, "%s is not an unambiguous type: the argument %s has %s variance", use, arg, arg.Variance)
		}
		err := scope.Within(s.stack, &schema.TypeRef{}, arg.Type, func(a *schema.TypeRef) error {
			return s.fillRef(a, arg.Type, chain)
		})
		if err != nil {
			return err
		}
	}

	if s.conv.IsOptional(ref.TypeName) {
		if len(ref.Arguments) != 1 {
			return s.fail(ReasonInvalid, "%s must have exactly one argument", use)
		}
		ref.ReplaceBy(ref.Arguments[0], true)
		return nil
	}

	if !s.undefined && !s.conv.IsBuiltin(ref.TypeName) {
		return s.defineType(ref.TypeName)
	}
	return nil
}

func chainString(chain []schema.TypeName) string {
	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.String()
	}
	return strings.Join(names, " -> ")
}

// jsonValue returns the JSON value provider of the named type: a
// function marked JsonValue without parameters and with a result.
func (s *session) jsonValue(name schema.TypeName) *source.Function {
	decl := s.model.Lookup(name)
	if decl == nil {
		return nil
	}
	for _, f := range decl.Functions {
		if f.Markers.Has(source.MarkerJSONValue) && len(f.Params) == 0 &&
			f.Result != nil && !s.conv.IsVoid(f.Result.Name) {
			return f
		}
	}
	return nil
}

// fetchBy checks a fetcher override and records it on ref.
func (s *session) fetchBy(ref *schema.TypeRef, use *source.TypeUse, m *source.Marker) error {
	entity := s.model.Lookup(use.Name)
	if entity == nil || !entity.Markers.Has(source.MarkerEntity) {
		return s.fail(ReasonInvalid, "the fetcher override of %s is illegal: %s is not an entity", use, use.Name)
	}
	constant, _ := m.Value("value")
	if constant == "" {
		return s.fail(ReasonInvalid, "the fetcher override of %s does not name a fetcher constant", use)
	}

	owner, err := s.fetcherOwner(m)
	if err != nil {
		return err
	}
	if owner.Companion == nil {
		return s.fail(ReasonInvalid, "the fetcher owner %s has no companion holder for the fetcher constant %s", owner.Name, constant)
	}
	field := owner.Companion.Property(constant)
	if field == nil {
		return s.fail(ReasonInvalid, "the fetcher constant %s is not declared by the fetcher owner %s", constant, owner.Name)
	}

	t := field.Type
	if t == nil || !s.conv.IsFetcher(t.Name) {
		return s.fail(ReasonInvalid, "the fetcher constant %s of %s must be a %s, but it is %v", constant, owner.Name, s.conv.Fetcher, t)
	}
	if len(t.Args) != 1 || t.Args[0].Variance != source.Invariant || t.Args[0].Type == nil {
		return s.fail(ReasonInvalid, "the fetcher constant %s of %s must be %s<%s>, but it is %s", constant, owner.Name, s.conv.Fetcher, use.Name, t)
	}
	if actual := t.Args[0].Type.Name; actual != use.Name {
		return s.fail(ReasonInvalid, "the fetcher constant %s of %s fetches %s, expected %s", constant, owner.Name, actual, use.Name)
	}

	ref.FetchBy = constant
	ref.FetcherOwner = owner.Name
	ref.FetcherDoc = schema.ParseDoc(field.Doc)
	return nil
}

// fetcherOwner returns the declaration holding the fetcher constant: the
// explicit owner type, the default owner of the enclosing service or type,
// or the enclosing service or type itself.
func (s *session) fetcherOwner(m *source.Marker) (*source.Declaration, error) {
	name, ok := m.Type("ownerType")
	if !ok || s.conv.IsVoid(name) {
		enclosing, _ := s.stack.Nearest(
			scope.Kind[*schema.Service](),
			scope.Kind[*schema.TypeDefinition](),
		).(*source.Declaration)
		if enclosing == nil {
			return nil, s.fail(ReasonInvalid, "the fetcher owner cannot be determined")
		}
		name = enclosing.Name
		if def, ok := enclosing.Markers.Get(source.MarkerDefaultFetcherOwner).Type("value"); ok && !s.conv.IsVoid(def) {
			name = def
		}
	}
	owner := s.model.Lookup(name)
	if owner == nil {
		return nil, s.fail(ReasonInvalid, "the fetcher owner %s is not declared", name)
	}
	return owner, nil
}
