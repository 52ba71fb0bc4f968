package gosrc

import (
	"fmt"
	"go/types"
	"slices"
	"strings"

	"github.com/broady/apischema/internal/directive"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// Directives without arguments that map onto a marker.
var (
	typeFlags = map[string]string{
		directive.Ignore:           source.MarkerAPIIgnore,
		directive.Controller:       source.MarkerRestController,
		directive.Immutable:        source.MarkerImmutable,
		directive.Entity:           source.MarkerEntity,
		directive.MappedSuperclass: source.MarkerMappedSuperclass,
		directive.Embeddable:       source.MarkerEmbeddable,
	}
	funcFlags = map[string]string{
		directive.JSONValue: source.MarkerJSONValue,
		directive.Request:   "RequestMapping",
		directive.Get:       "GetMapping",
		directive.Post:      "PostMapping",
		directive.Put:       "PutMapping",
		directive.Delete:    "DeleteMapping",
		directive.Patch:     "PatchMapping",
	}
)

func (b *builder) directives(obj types.Object) ([]*directive.Directive, error) {
	return directive.Scan(b.fset, b.docs[obj])
}

func (b *builder) docText(obj types.Object) string {
	if cg := b.docs[obj]; cg != nil {
		return strings.TrimSpace(cg.Text())
	}
	return ""
}

func marker(name string, args map[string][]string) *source.Marker {
	return &source.Marker{Name: name, Args: args}
}

func misplaced(d *directive.Directive, where string) error {
	return fmt.Errorf("%s: %s%s is not allowed on %s", d.Pos, directive.Prefix, d.Name, where)
}

func (b *builder) typeMarkers(pkg *types.Package, directives []*directive.Directive) (source.Markers, error) {
	var ms source.Markers
	for _, d := range directives {
		if name, ok := typeFlags[d.Name]; ok {
			ms = append(ms, marker(name, nil))
			continue
		}
		switch d.Name {
		case directive.Service:
			ms = append(ms, marker(source.MarkerAPI, groups(d)))
		case directive.FetcherOwner:
			if len(d.Values) != 1 {
				return nil, fmt.Errorf("%s: %s%s needs one type", d.Pos, directive.Prefix, d.Name)
			}
			ms = append(ms, marker(source.MarkerDefaultFetcherOwner, map[string][]string{
				"value": {b.qualify(pkg, d.Values[0])},
			}))
		case directive.Exception:
			args := make(map[string][]string)
			if code, ok := d.Arg("code"); ok {
				args["code"] = []string{code}
			}
			if subs, ok := d.Args["subtypes"]; ok {
				args["subTypes"] = b.qualifyAll(pkg, subs)
			}
			ms = append(ms, marker(source.MarkerClientException, args))
		default:
			return nil, misplaced(d, "a type")
		}
	}
	return ms, nil
}

func (b *builder) applyFuncDirectives(f *source.Function, fn *types.Func) error {
	directives, err := b.directives(fn)
	if err != nil {
		return err
	}
	pkg := fn.Pkg()
	for _, d := range directives {
		if name, ok := funcFlags[d.Name]; ok {
			f.Markers = append(f.Markers, marker(name, nil))
			continue
		}
		switch d.Name {
		case directive.Operation:
			f.Markers = append(f.Markers, marker(source.MarkerAPI, groups(d)))

		case directive.Ignore:
			if len(d.Values) == 0 {
				f.Markers = append(f.Markers, marker(source.MarkerAPIIgnore, nil))
				continue
			}
			for _, name := range d.Values {
				p, err := param(f, d, name)
				if err != nil {
					return err
				}
				p.Markers = append(p.Markers, marker(source.MarkerAPIIgnore, nil))
			}

		case directive.Default:
			for _, name := range d.Values {
				p, err := param(f, d, name)
				if err != nil {
					return err
				}
				p.HasDefault = true
			}

		case directive.Throws:
			f.Markers = append(f.Markers, marker(source.MarkerThrows, map[string][]string{
				"value": b.qualifyAll(pkg, d.Values),
			}))

		case directive.FetchBy:
			if len(d.Values) != 2 {
				return fmt.Errorf("%s: %s%s needs a target and a constant", d.Pos, directive.Prefix, d.Name)
			}
			target := f.Result
			if d.Values[0] != "return" {
				p, err := param(f, d, d.Values[0])
				if err != nil {
					return err
				}
				target = p.Type
			}
			if target == nil {
				return fmt.Errorf("%s: %s has no result", d.Pos, f.Name)
			}
			target.Markers = append(target.Markers, b.fetchBy(pkg, d, d.Values[1]))

		default:
			return misplaced(d, "a method")
		}
	}
	return nil
}

func (b *builder) applyFieldDirectives(p *source.Property, field *types.Var, owner schema.TypeName) error {
	directives, err := b.directives(field)
	if err != nil {
		return err
	}
	pkg := field.Pkg()
	for _, d := range directives {
		switch d.Name {
		case directive.Ignore:
			p.Markers = append(p.Markers, marker(source.MarkerAPIIgnore, nil))

		case directive.FetchBy:
			if len(d.Values) != 1 {
				return fmt.Errorf("%s: %s%s needs a constant", d.Pos, directive.Prefix, d.Name)
			}
			p.Type.Markers = append(p.Type.Markers, b.fetchBy(pkg, d, d.Values[0]))

		case directive.Converter:
			arg, err := b.converter(pkg, d, owner)
			if err != nil {
				return err
			}
			p.Converted = arg

		default:
			return misplaced(d, "a field")
		}
	}
	return nil
}

func (b *builder) fetchBy(pkg *types.Package, d *directive.Directive, constant string) *source.Marker {
	args := map[string][]string{"value": {constant}}
	if owner, ok := d.Arg("owner"); ok {
		args["ownerType"] = []string{b.qualify(pkg, owner)}
	}
	return marker(source.MarkerFetchBy, args)
}

func (b *builder) converter(pkg *types.Package, d *directive.Directive, owner schema.TypeName) (*source.TypeArgument, error) {
	values := d.Values
	arg := &source.TypeArgument{Variance: source.Invariant}
	if len(values) == 2 {
		switch values[0] {
		case "in":
			arg.Variance = source.Contravariant
		case "out":
			arg.Variance = source.Covariant
		default:
			return nil, fmt.Errorf("%s: unknown variance %q", d.Pos, values[0])
		}
		values = values[1:]
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s: %s%s needs one type", d.Pos, directive.Prefix, d.Name)
	}
	if values[0] == "*" {
		return &source.TypeArgument{Variance: source.Star}, nil
	}
	arg.Type = &source.TypeUse{
		Name: schema.ParseTypeName(b.qualify(pkg, values[0])),
		Pos:  source.Location{File: d.Pos.Filename, Line: d.Pos.Line, Column: d.Pos.Column, Decl: owner.String()},
	}
	return arg, nil
}

func param(f *source.Function, d *directive.Directive, name string) (*source.Parameter, error) {
	i := slices.IndexFunc(f.Params, func(p *source.Parameter) bool { return p.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("%s: %s%s: %s has no parameter %q", d.Pos, directive.Prefix, d.Name, f.Name, name)
	}
	return f.Params[i], nil
}

// groups returns the Api marker arguments. No values means all groups.
func groups(d *directive.Directive) map[string][]string {
	if len(d.Values) == 0 {
		return nil
	}
	return map[string][]string{"value": d.Values}
}

// qualify resolves a type name written in a directive of pkg.
// Universe names (string, int64) stay unqualified.
func (b *builder) qualify(pkg *types.Package, name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	if alias, rest, ok := strings.Cut(name, "."); ok {
		if alias == pkg.Name() {
			return pkg.Path() + "." + rest
		}
		for _, imp := range pkg.Imports() {
			if imp.Name() == alias {
				return imp.Path() + "." + rest
			}
		}
		return name
	}
	if types.Universe.Lookup(name) != nil {
		return name
	}
	return pkg.Path() + "." + name
}

func (b *builder) qualifyAll(pkg *types.Package, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = b.qualify(pkg, n)
	}
	return out
}
