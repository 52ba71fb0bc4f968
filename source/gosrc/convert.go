package gosrc

import (
	"cmp"
	"fmt"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// declaration converts a named type.
func (b *builder) declaration(tn *types.TypeName) (*source.Declaration, error) {
	name := typeName(tn)
	d := &source.Declaration{
		Name:   name,
		Kind:   source.KindClass,
		Pos:    b.location(tn, name),
		Public: tn.Exported(),
	}

	directives, err := b.directives(tn)
	if err != nil {
		return nil, err
	}
	d.Doc = b.docText(tn)
	if d.Markers, err = b.typeMarkers(tn.Pkg(), directives); err != nil {
		return nil, err
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return d, nil
	}
	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			d.TypeParams = append(d.TypeParams, tps.At(i).Obj().Name())
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		if err := b.structMembers(d, u); err != nil {
			return nil, err
		}
	case *types.Interface:
		d.Kind = source.KindInterface
		for i := range u.NumEmbeddeds() {
			if st := b.superType(u.EmbeddedType(i), d); st != nil {
				d.SuperTypes = append(d.SuperTypes, st)
			}
		}
		for i := range u.NumExplicitMethods() {
			if err := b.addFunction(d, u.ExplicitMethod(i)); err != nil {
				return nil, err
			}
		}
	case *types.Basic:
		d.EnumConstants = b.enumConstants(tn, named)
		if len(d.EnumConstants) > 0 {
			d.Kind = source.KindEnum
		}
	}

	if d.Kind != source.KindInterface {
		for i := range named.NumMethods() {
			if err := b.addFunction(d, named.Method(i)); err != nil {
				return nil, err
			}
		}
	}

	if tn.Pkg() != nil && b.roots[tn.Pkg()] {
		d.Companion = b.companion(tn.Pkg())
	}
	return d, nil
}

func (b *builder) structMembers(d *source.Declaration, st *types.Struct) error {
	for i := range st.NumFields() {
		field := st.Field(i)
		jsonName, _, _ := strings.Cut(reflect.StructTag(st.Tag(i)).Get("json"), ",")
		if jsonName == "-" {
			continue
		}

		// Embedded fields without a JSON name are inherited.
		if field.Embedded() && jsonName == "" {
			if sup := b.superType(field.Type(), d); sup != nil {
				d.SuperTypes = append(d.SuperTypes, sup)
			}
			continue
		}

		name := field.Name()
		if jsonName != "" {
			name = jsonName
		}
		p := &source.Property{
			Name:   name,
			Pos:    b.location(field, d.Name),
			Doc:    b.docText(field),
			Public: field.Exported(),
			Type:   b.typeUse(field.Type(), d.Name, b.location(field, d.Name)),
		}
		if err := b.applyFieldDirectives(p, field, d.Name); err != nil {
			return err
		}
		d.Properties = append(d.Properties, p)
	}
	return nil
}

// superType converts an embedded type, dereferencing pointers.
// Only named types are super types.
func (b *builder) superType(t types.Type, d *source.Declaration) *source.TypeUse {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if _, ok := types.Unalias(t).(*types.Named); !ok {
		return nil
	}
	return b.typeUse(t, d.Name, d.Pos)
}

// enumConstants returns the package constants of the named type in source
// order.
func (b *builder) enumConstants(tn *types.TypeName, named *types.Named) []*source.EnumConstant {
	if tn.Pkg() == nil {
		return nil
	}
	var consts []*types.Const
	scope := tn.Pkg().Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(x, y *types.Const) int {
		return cmp.Compare(x.Pos(), y.Pos())
	})

	var out []*source.EnumConstant
	for _, c := range consts {
		out = append(out, &source.EnumConstant{
			Name: c.Name(),
			Pos:  b.location(c, typeName(tn)),
			Doc:  b.docText(c),
		})
	}
	return out
}

// companion returns the holder of the exported package-level variables.
func (b *builder) companion(pkg *types.Package) *source.Declaration {
	if c, ok := b.companions[pkg]; ok {
		return c
	}
	name := schema.NewTypeName(pkg.Path(), "package")
	c := &source.Declaration{
		Name:   name,
		Kind:   source.KindObject,
		Pos:    source.Location{Decl: pkg.Path()},
		Public: true,
	}
	scope := pkg.Scope()
	for _, n := range scope.Names() {
		v, ok := scope.Lookup(n).(*types.Var)
		if !ok || !v.Exported() {
			continue
		}
		c.Properties = append(c.Properties, &source.Property{
			Name:   v.Name(),
			Pos:    b.location(v, name),
			Doc:    b.docText(v),
			Public: true,
			Type:   b.typeUse(v.Type(), name, b.location(v, name)),
		})
	}
	b.companions[pkg] = c
	return c
}

// addFunction converts a method. Methods with more than one result besides
// a trailing error have no schema form and are left out.
func (b *builder) addFunction(d *source.Declaration, fn *types.Func) error {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	pos := b.location(fn, d.Name)
	f := &source.Function{
		Name:   fn.Name(),
		Pos:    pos,
		Doc:    b.docText(fn),
		Public: fn.Exported(),
	}
	if tps := sig.TypeParams(); tps != nil {
		for i := range tps.Len() {
			f.TypeParams = append(f.TypeParams, tps.At(i).Obj().Name())
		}
	}

	params := sig.Params()
	for i := range params.Len() {
		v := params.At(i)
		p := &source.Parameter{
			Name: v.Name(),
			Pos:  b.location(v, d.Name),
			Type: b.typeUse(v.Type(), d.Name, b.location(v, d.Name)),
		}
		if p.Name == "" || p.Name == "_" {
			p.Name = fmt.Sprintf("arg%d", i)
		}
		if isContext(v.Type()) {
			p.Markers = append(p.Markers, &source.Marker{Name: source.MarkerAPIIgnore})
		}
		f.Params = append(f.Params, p)
	}

	results := sig.Results()
	n := results.Len()
	if n > 0 && isError(results.At(n-1).Type()) {
		n--
	}
	switch n {
	case 0:
	case 1:
		f.Result = b.typeUse(results.At(0).Type(), d.Name, pos)
	default:
		return nil
	}

	if err := b.applyFuncDirectives(f, fn); err != nil {
		return err
	}
	d.Functions = append(d.Functions, f)
	return nil
}

// typeUse converts a type occurrence. Type parameters are named after
// owner, the type declaring them.
func (b *builder) typeUse(t types.Type, owner schema.TypeName, pos source.Location) *source.TypeUse {
	use := &source.TypeUse{Pos: pos}
	switch typ := types.Unalias(t).(type) {
	case *types.Pointer:
		use = b.typeUse(typ.Elem(), owner, pos)
		use.Nullable = true

	case *types.Basic:
		use.Name = schema.TypeName{Name: types.Typ[typ.Kind()].Name()}

	case *types.Named:
		use.Name = typeName(typ.Obj())
		if args := typ.TypeArgs(); args != nil {
			for i := range args.Len() {
				use.Args = append(use.Args, b.argument(args.At(i), owner, pos))
			}
		}

	case *types.Slice:
		use.Name = schema.TypeName{Name: "[]"}
		use.Args = []source.TypeArgument{b.argument(typ.Elem(), owner, pos)}

	case *types.Array:
		use.Name = schema.TypeName{Name: "[]"}
		use.Args = []source.TypeArgument{b.argument(typ.Elem(), owner, pos)}

	case *types.Map:
		use.Name = schema.TypeName{Name: "map"}
		use.Args = []source.TypeArgument{
			b.argument(typ.Key(), owner, pos),
			b.argument(typ.Elem(), owner, pos),
		}

	case *types.Interface:
		use.Name = schema.TypeName{Name: "any"}

	case *types.TypeParam:
		use.Name = owner.WithTypeVariable(typ.Obj().Name())

	default:
		use.Name = schema.TypeName{Name: typ.String()}
	}
	return use
}

func (b *builder) argument(t types.Type, owner schema.TypeName, pos source.Location) source.TypeArgument {
	return source.TypeArgument{Variance: source.Invariant, Type: b.typeUse(t, owner, pos)}
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
