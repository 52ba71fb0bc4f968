package extract

import (
	"errors"

	"github.com/broady/apischema/internal/scope"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// reservedExceptionProps are carried by every client exception and never
// become properties of its definition.
var reservedExceptionProps = []string{"code", "fields"}

// defineType adds the definition of a declared type once per pass.
// Types the model does not declare are left undefined.
func (s *session) defineType(name schema.TypeName) error {
	if s.defined[name] {
		return nil
	}
	decl := s.model.Lookup(name)
	if decl == nil {
		return nil
	}
	s.defined[name] = true

	def := &schema.TypeDefinition{
		TypeName:  name,
		Doc:       schema.ParseDoc(decl.Doc),
		APIIgnore: decl.Markers.Has(source.MarkerAPIIgnore),
	}
	switch {
	case decl.Kind == source.KindEnum:
		def.Kind = schema.KindEnum
	case decl.Markers.Any(source.DataMarkers...):
		def.Kind = schema.KindData
	default:
		def.Kind = schema.KindObject
	}

	err := scope.Within(s.stack, def, decl, func(def *schema.TypeDefinition) error {
		if def.Kind == schema.KindEnum {
			return s.enumConstants(decl)
		}
		return s.members(def, decl)
	})
	if err != nil {
		return err
	}
	s.log.Debug("type defined", "type", name, "kind", def.Kind)
	return nil
}

func (s *session) enumConstants(decl *source.Declaration) error {
	for _, c := range decl.EnumConstants {
		ec := &schema.EnumConstant{Name: c.Name, Doc: schema.ParseDoc(c.Doc)}
		if err := scope.Within(s.stack, ec, c, func(*schema.EnumConstant) error { return nil }); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) members(def *schema.TypeDefinition, decl *source.Declaration) error {
	exception := decl.Markers.Has(source.MarkerClientException)
	reserved := func(name string) bool {
		return exception && (name == reservedExceptionProps[0] || name == reservedExceptionProps[1])
	}

	for _, p := range decl.Properties {
		if !p.Public || p.Markers.Has(source.MarkerAPIIgnore) || reserved(p.Name) {
			continue
		}
		use := p.Type
		if use == nil {
			continue
		}
		if def.Kind == schema.KindData && p.Converted != nil {
			use = s.converted(p)
		}
		if s.ambiguous(use) {
			s.log.Debug("ambiguous property skipped", "type", decl.Name, "property", p.Name, "propertyType", use)
			continue
		}
		err := s.property(p.Name, p.Doc, use, p)
		if s.ownAmbiguity(err) {
			s.log.Debug("ambiguous property skipped", "type", decl.Name, "property", p.Name, "propertyType", use)
			continue
		}
		if err != nil {
			return err
		}
	}

	for _, f := range decl.Functions {
		if !f.Public || f.Constructor || len(f.Params) > 0 || len(f.TypeParams) > 0 ||
			f.Result == nil || s.conv.IsVoid(f.Result.Name) ||
			f.Markers.Any(source.MarkerAPIIgnore, source.MarkerJSONValue) {
			continue
		}
		name := propName(f.Name, s.conv.IsBoolean(f.Result.Name))
		if name == "" || reserved(name) {
			continue
		}
		if err := s.property(name, f.Doc, f.Result, f); err != nil {
			return err
		}
	}

	if decl.Kind != source.KindClass && decl.Kind != source.KindInterface {
		return nil
	}
	for _, st := range decl.SuperTypes {
		if s.conv.IsBuiltin(st.Name) || s.conv.IsBaseException(st.Name) {
			continue
		}
		sup := s.model.Lookup(st.Name)
		if sup == nil || sup.Markers.Has(source.MarkerAPIIgnore) {
			continue
		}
		if err := s.resolveType(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) property(name, doc string, use *source.TypeUse, origin source.Element) error {
	prop := &schema.Property{Name: name, Doc: schema.ParseDoc(doc)}
	return scope.Within(s.stack, prop, origin, func(*schema.Property) error {
		return s.resolveType(use)
	})
}

// converted returns the property type after its converter: a star target
// is a nullable top object, a contravariant target a top object.
func (s *session) converted(p *source.Property) *source.TypeUse {
	c := p.Converted
	switch {
	case c.Variance == source.Star || c.Type == nil:
		return &source.TypeUse{Name: s.topObject(), Nullable: true, Pos: p.Pos}
	case c.Variance == source.Contravariant:
		return &source.TypeUse{Name: s.topObject(), Pos: p.Pos}
	}
	t := *c.Type
	t.Nullable = t.Nullable || (p.Type != nil && p.Type.Nullable)
	if t.Pos.IsZero() {
		t.Pos = p.Pos
	}
	return &t
}

func (s *session) topObject() schema.TypeName {
	if len(s.conv.TopObject) > 0 {
		return s.conv.TopObject[0]
	}
	return schema.TypeName{Name: "any"}
}

// ownAmbiguity reports whether err is an ambiguity raised while the
// current definition was the innermost one, such as a JSON value
// substitute of a field type. Failures of nested definitions do not count.
func (s *session) ownAmbiguity(err error) bool {
	var se *SchemaError
	return errors.As(err, &se) && se.Reason == ReasonAmbiguous &&
		se.definitions == len(s.stack.Trace(definitionKind))
}

// ambiguous reports whether use is a top object or has a star or
// contravariant argument anywhere.
func (s *session) ambiguous(use *source.TypeUse) bool {
	if s.conv.IsTopObject(use.Name) {
		return true
	}
	for _, arg := range use.Args {
		if arg.Variance == source.Star || arg.Variance == source.Contravariant || arg.Type == nil {
			return true
		}
		if s.ambiguous(arg.Type) {
			return true
		}
	}
	return false
}
