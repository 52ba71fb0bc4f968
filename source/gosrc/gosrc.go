// Package gosrc implements source.Model over Go packages.
//
// Packages are loaded and type-checked with golang.org/x/tools/go/packages.
// Every named type of the loaded packages becomes a declaration; types of
// other packages are converted on demand, without docs or markers.
//
// Markers are //api: directives in doc comments:
//
//	On types:
//	  //api:service [group,...]     API service
//	  //api:controller              web controller (implicit API mode)
//	  //api:ignore                  excluded from the API
//	  //api:fetcherowner Type       default owner of fetcher constants
//	  //api:exception code=CODE     leaf client error
//	  //api:exception subtypes=A,B  client error family
//	  //api:immutable, //api:entity, //api:mappedsuperclass, //api:embeddable
//
//	On methods:
//	  //api:operation [group,...]   API operation
//	  //api:get, //api:post, ...    HTTP operation (implicit API mode)
//	  //api:ignore [param,...]      excludes the method, or the parameters
//	  //api:default param,...       parameters with a server-side default
//	  //api:fetchby param|return CONST [owner=Type]
//	  //api:throws Type,...         errors the operation may return
//	  //api:jsonvalue               the method provides the JSON value of the type
//
//	On struct fields:
//	  //api:ignore
//	  //api:converter [in|out] Type|*
//	  //api:fetchby CONST [owner=Type]
//
// Type names in directives are resolved relative to the declaring package;
// "pkg.Type" refers to an imported package by name, and full import paths
// ("example.com/shop/model.Book") are accepted everywhere.
//
// Go mapping: pointers are nullable, embedded structs and interfaces are
// super types, constants of a named basic type make it an enum, the last
// error result is dropped and context.Context parameters are ignored.
// Exported package-level variables form the companion holder of every type
// in the package; declare fetchers there.
package gosrc

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"

	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// Model is a source.Model over loaded Go packages.
type Model struct {
	b      *builder
	conv   *source.Conventions
	decls  []*source.Declaration
	byName map[schema.TypeName]*source.Declaration
}

var _ source.Model = (*Model)(nil)

// Load loads the packages matching patterns, relative to dir.
//
// The patterns follow go command semantics:
//   - "." for current directory
//   - "./..." for current directory and subdirectories
//   - Import path like "github.com/foo/bar"
func Load(ctx context.Context, dir string, patterns ...string) (*Model, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %v", patterns)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}

	b := newBuilder(pkgs)
	m := &Model{
		b:      b,
		conv:   source.GoConventions(),
		byName: make(map[schema.TypeName]*source.Declaration),
	}

	for _, pkg := range pkgs {
		var objs []*types.TypeName
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			if tn, ok := scope.Lookup(name).(*types.TypeName); ok && !tn.IsAlias() {
				objs = append(objs, tn)
			}
		}
		slices.SortFunc(objs, func(x, y *types.TypeName) int {
			px, py := b.fset.Position(x.Pos()), b.fset.Position(y.Pos())
			return cmp.Or(cmp.Compare(px.Filename, py.Filename), cmp.Compare(px.Offset, py.Offset))
		})

		for _, tn := range objs {
			d, err := b.declaration(tn)
			if err != nil {
				return nil, err
			}
			m.decls = append(m.decls, d)
			m.byName[d.Name] = d
		}
	}
	return m, nil
}

// Declarations implements source.Model.
func (m *Model) Declarations() []*source.Declaration {
	return m.decls
}

// Lookup implements source.Model.
func (m *Model) Lookup(name schema.TypeName) *source.Declaration {
	if d, ok := m.byName[name]; ok {
		return d
	}
	pkg := m.b.imports[name.Package]
	if pkg == nil || name.IsTypeVariable() {
		return nil
	}
	tn, ok := pkg.Scope().Lookup(name.Name).(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil
	}
	d, err := m.b.declaration(tn)
	if err != nil {
		// Dependencies carry no directives.
		return nil
	}
	m.byName[name] = d
	return d
}

// Conventions implements source.Model.
func (m *Model) Conventions() *source.Conventions {
	return m.conv
}

// builder converts go/types objects into declarations.
type builder struct {
	fset       *token.FileSet
	roots      map[*types.Package]bool
	docs       map[types.Object]*ast.CommentGroup
	imports    map[string]*types.Package
	companions map[*types.Package]*source.Declaration
}

func newBuilder(pkgs []*packages.Package) *builder {
	b := &builder{
		roots:      make(map[*types.Package]bool),
		docs:       make(map[types.Object]*ast.CommentGroup),
		imports:    make(map[string]*types.Package),
		companions: make(map[*types.Package]*source.Declaration),
	}
	for _, pkg := range pkgs {
		b.fset = pkg.Fset
		b.roots[pkg.Types] = true
		b.addImports(pkg.Types)
		for _, file := range pkg.Syntax {
			b.indexDocs(pkg.TypesInfo, file)
		}
	}
	return b
}

// addImports records pkg and everything it imports, transitively.
func (b *builder) addImports(pkg *types.Package) {
	if _, seen := b.imports[pkg.Path()]; seen {
		return
	}
	b.imports[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		b.addImports(imp)
	}
}

// indexDocs maps declared objects to their doc comments.
func (b *builder) indexDocs(info *types.Info, file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			b.setDoc(info, d.Name, d.Doc)

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					b.setDoc(info, s.Name, specDoc(d, s.Doc))
					switch t := s.Type.(type) {
					case *ast.StructType:
						b.indexFields(info, t.Fields)
					case *ast.InterfaceType:
						b.indexFields(info, t.Methods)
					}
				case *ast.ValueSpec:
					for _, n := range s.Names {
						b.setDoc(info, n, specDoc(d, s.Doc))
					}
				}
			}
		}
	}
}

func (b *builder) indexFields(info *types.Info, fields *ast.FieldList) {
	if fields == nil {
		return
	}
	for _, f := range fields.List {
		for _, n := range f.Names {
			b.setDoc(info, n, f.Doc)
		}
	}
}

func (b *builder) setDoc(info *types.Info, ident *ast.Ident, doc *ast.CommentGroup) {
	if doc == nil {
		return
	}
	if obj := info.Defs[ident]; obj != nil {
		b.docs[obj] = doc
	}
}

// specDoc returns the spec's own doc, or the declaration doc when the
// declaration has a single spec.
func specDoc(d *ast.GenDecl, doc *ast.CommentGroup) *ast.CommentGroup {
	if doc == nil && len(d.Specs) == 1 {
		return d.Doc
	}
	return doc
}

func (b *builder) location(obj types.Object, decl schema.TypeName) source.Location {
	loc := source.Location{Decl: decl.String()}
	if b.fset != nil && obj.Pos().IsValid() {
		p := b.fset.Position(obj.Pos())
		loc.File, loc.Line, loc.Column = p.Filename, p.Line, p.Column
	}
	return loc
}

func typeName(obj types.Object) schema.TypeName {
	if obj.Pkg() == nil {
		return schema.TypeName{Name: obj.Name()}
	}
	return schema.NewTypeName(obj.Pkg().Path(), obj.Name())
}
