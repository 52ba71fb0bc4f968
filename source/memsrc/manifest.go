package memsrc

import (
	"fmt"
	"go/token"
	"os"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/broady/apischema/internal/directive"
	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// A manifest lists declarations of one package:
//
//	package: com.example
//	declarations:
//	  - name: TreeService
//	    markers: [Api]
//	    functions:
//	      - name: getTree
//	        markers: [Api]
//	        params:
//	          - {name: id, type: kotlin.Long}
//	        result: TreeNode
//	  - name: TreeNode
//	    markers: [Immutable]
//	    properties:
//	      - {name: children, type: "kotlin.collections.List<TreeNode>"}
//
// Markers are written "Name value,... key=value,...". Positional values
// become the "value" argument. Simple type names are qualified with the
// manifest package when the manifest declares them.
type manifest struct {
	Package      string     `yaml:"package"`
	Conventions  string     `yaml:"conventions"`
	Declarations []declSpec `yaml:"declarations"`
}

type declSpec struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Doc        string      `yaml:"doc"`
	Markers    []string    `yaml:"markers"`
	Private    bool        `yaml:"private"`
	Inner      bool        `yaml:"inner"`
	TypeParams []string    `yaml:"typeParams"`
	SuperTypes []string    `yaml:"superTypes"`
	Functions  []funcSpec  `yaml:"functions"`
	Properties []propSpec  `yaml:"properties"`
	Constants  []constSpec `yaml:"constants"`
	Companion  *declSpec   `yaml:"companion"`

	line int
}

func (d *declSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain declSpec
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = node.Line
	return nil
}

type funcSpec struct {
	Name          string      `yaml:"name"`
	Doc           string      `yaml:"doc"`
	Markers       []string    `yaml:"markers"`
	Private       bool        `yaml:"private"`
	Constructor   bool        `yaml:"constructor"`
	TypeParams    []string    `yaml:"typeParams"`
	Params        []paramSpec `yaml:"params"`
	Result        string      `yaml:"result"`
	ResultMarkers []string    `yaml:"resultMarkers"`

	line int
}

func (f *funcSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain funcSpec
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line = node.Line
	return nil
}

type paramSpec struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Markers     []string `yaml:"markers"`
	TypeMarkers []string `yaml:"typeMarkers"`
	Default     bool     `yaml:"default"`

	line int
}

func (p *paramSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain paramSpec
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.line = node.Line
	return nil
}

type propSpec struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Doc         string   `yaml:"doc"`
	Markers     []string `yaml:"markers"`
	TypeMarkers []string `yaml:"typeMarkers"`
	Private     bool     `yaml:"private"`
	Converted   string   `yaml:"converted"`

	line int
}

func (p *propSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain propSpec
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.line = node.Line
	return nil
}

// constSpec is written as a plain name or as a mapping with a doc.
type constSpec struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc"`

	line int
}

func (c *constSpec) UnmarshalYAML(node *yaml.Node) error {
	c.line = node.Line
	if node.Kind == yaml.ScalarNode {
		c.Name = node.Value
		return nil
	}
	type plain constSpec
	return node.Decode((*plain)(c))
}

// typeArgs lists the marker arguments that hold type names.
var typeArgs = map[string][]string{
	source.MarkerThrows:              {"value"},
	source.MarkerClientException:     {"subTypes"},
	source.MarkerFetchBy:             {"ownerType"},
	source.MarkerDefaultFetcherOwner: {"value"},
}

// Load reads a manifest file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a manifest. filename is used in locations and errors.
func Parse(data []byte, filename string) (*Model, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filename, err)
	}

	var conv *source.Conventions
	switch m.Conventions {
	case "", "jvm":
		conv = source.JVMConventions()
	case "go":
		conv = source.GoConventions()
	default:
		return nil, fmt.Errorf("parse manifest %s: unknown conventions %q", filename, m.Conventions)
	}

	b := &builder{
		file:  filename,
		pkg:   m.Package,
		known: make(map[string]schema.TypeName),
	}
	for _, ds := range m.Declarations {
		if ds.Name == "" {
			return nil, fmt.Errorf("%s:%d: declaration without a name", filename, ds.line)
		}
		b.known[ds.Name] = b.declName(ds.Name)
	}

	model := New(conv)
	for i := range m.Declarations {
		d, err := b.declaration(&m.Declarations[i], schema.TypeName{})
		if err != nil {
			return nil, err
		}
		model.Add(d)
	}
	return model, nil
}

type builder struct {
	file  string
	pkg   string
	known map[string]schema.TypeName
}

// declName qualifies a declared name. Names that already carry a package
// ("com.example.A", "example.com/x.A") are parsed as is.
func (b *builder) declName(name string) schema.TypeName {
	first, _, dotted := strings.Cut(name, ".")
	if strings.Contains(name, "/") || (dotted && startsLower(first)) {
		return schema.ParseTypeName(name)
	}
	return schema.TypeName{Package: b.pkg, Name: name}
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

func (b *builder) typeName(name string) schema.TypeName {
	if n, ok := b.known[name]; ok {
		return n
	}
	return qualified(name)
}

// resolver qualifies names, mapping type parameters to type variables
// of owner.
func (b *builder) resolver(owner schema.TypeName, typeParams ...[]string) resolveFunc {
	return func(name string) schema.TypeName {
		for _, tps := range typeParams {
			if slices.Contains(tps, name) {
				return owner.WithTypeVariable(name)
			}
		}
		return b.typeName(name)
	}
}

func (b *builder) location(line int, decl schema.TypeName) source.Location {
	return source.Location{File: b.file, Line: line, Decl: decl.String()}
}

func (b *builder) declaration(ds *declSpec, owner schema.TypeName) (*source.Declaration, error) {
	name := b.declName(ds.Name)
	if !owner.IsZero() {
		n := ds.Name
		if n == "" {
			n = "Companion"
		}
		name = schema.TypeName{Package: owner.Package, Name: owner.Name + "." + n}
	}
	pos := b.location(ds.line, name)

	d := &source.Declaration{
		Name:       name,
		Pos:        pos,
		Doc:        ds.Doc,
		Public:     !ds.Private,
		Inner:      ds.Inner,
		TypeParams: ds.TypeParams,
	}

	switch ds.Kind {
	case "", "class":
		d.Kind = source.KindClass
	case "interface":
		d.Kind = source.KindInterface
	case "enum":
		d.Kind = source.KindEnum
	case "object":
		d.Kind = source.KindObject
	default:
		return nil, fmt.Errorf("%s: unknown kind %q", pos, ds.Kind)
	}
	if !owner.IsZero() {
		d.Kind = source.KindObject
	}

	var err error
	if d.Markers, err = b.markers(ds.Markers, ds.line); err != nil {
		return nil, err
	}

	resolve := b.resolver(name, ds.TypeParams)
	for _, st := range ds.SuperTypes {
		t, err := parseType(st, resolve, pos)
		if err != nil {
			return nil, fmt.Errorf("%s: super type: %w", pos, err)
		}
		d.SuperTypes = append(d.SuperTypes, t)
	}

	for i := range ds.Functions {
		f, err := b.function(&ds.Functions[i], name, ds.TypeParams)
		if err != nil {
			return nil, err
		}
		d.Functions = append(d.Functions, f)
	}

	for i := range ds.Properties {
		p, err := b.property(&ds.Properties[i], name, resolve)
		if err != nil {
			return nil, err
		}
		d.Properties = append(d.Properties, p)
	}

	for _, cs := range ds.Constants {
		d.EnumConstants = append(d.EnumConstants, &source.EnumConstant{
			Name: cs.Name,
			Pos:  b.location(cs.line, name),
			Doc:  cs.Doc,
		})
	}

	if ds.Companion != nil {
		if d.Companion, err = b.declaration(ds.Companion, name); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (b *builder) function(fs *funcSpec, owner schema.TypeName, ownerParams []string) (*source.Function, error) {
	pos := b.location(fs.line, owner)
	f := &source.Function{
		Name:        fs.Name,
		Pos:         pos,
		Doc:         fs.Doc,
		Public:      !fs.Private,
		Constructor: fs.Constructor,
		TypeParams:  fs.TypeParams,
	}

	var err error
	if f.Markers, err = b.markers(fs.Markers, fs.line); err != nil {
		return nil, err
	}

	resolve := b.resolver(owner, fs.TypeParams, ownerParams)
	for _, ps := range fs.Params {
		ppos := b.location(ps.line, owner)
		p := &source.Parameter{
			Name:       ps.Name,
			Pos:        ppos,
			HasDefault: ps.Default,
		}
		if p.Markers, err = b.markers(ps.Markers, ps.line); err != nil {
			return nil, err
		}
		if p.Type, err = b.typeUse(ps.Type, ps.TypeMarkers, resolve, ppos); err != nil {
			return nil, fmt.Errorf("%s: parameter %s: %w", ppos, ps.Name, err)
		}
		f.Params = append(f.Params, p)
	}

	if fs.Result != "" {
		if f.Result, err = b.typeUse(fs.Result, fs.ResultMarkers, resolve, pos); err != nil {
			return nil, fmt.Errorf("%s: function %s: %w", pos, fs.Name, err)
		}
	}
	return f, nil
}

func (b *builder) property(ps *propSpec, owner schema.TypeName, resolve resolveFunc) (*source.Property, error) {
	pos := b.location(ps.line, owner)
	p := &source.Property{
		Name:   ps.Name,
		Pos:    pos,
		Doc:    ps.Doc,
		Public: !ps.Private,
	}

	var err error
	if p.Markers, err = b.markers(ps.Markers, ps.line); err != nil {
		return nil, err
	}
	if p.Type, err = b.typeUse(ps.Type, ps.TypeMarkers, resolve, pos); err != nil {
		return nil, fmt.Errorf("%s: property %s: %w", pos, ps.Name, err)
	}
	if ps.Converted != "" {
		if p.Converted, err = parseArgument(ps.Converted, resolve, pos); err != nil {
			return nil, fmt.Errorf("%s: property %s: converter: %w", pos, ps.Name, err)
		}
	}
	return p, nil
}

func (b *builder) typeUse(expr string, markers []string, resolve resolveFunc, pos source.Location) (*source.TypeUse, error) {
	if expr == "" {
		return nil, fmt.Errorf("missing type")
	}
	t, err := parseType(expr, resolve, pos)
	if err != nil {
		return nil, err
	}
	if t.Markers, err = b.markers(markers, pos.Line); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *builder) markers(texts []string, line int) (source.Markers, error) {
	var ms source.Markers
	for _, text := range texts {
		m, err := b.marker(text, line)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func (b *builder) marker(text string, line int) (*source.Marker, error) {
	d, err := directive.ParseLine(text, token.Position{Filename: b.file, Line: line})
	if err != nil {
		return nil, err
	}
	m := &source.Marker{Name: d.Name, Args: d.Args}
	if len(d.Values) > 0 {
		if m.Args == nil {
			m.Args = make(map[string][]string)
		}
		m.Args["value"] = append(m.Args["value"], d.Values...)
	}
	for _, arg := range typeArgs[m.Name] {
		for i, v := range m.Args[arg] {
			m.Args[arg][i] = b.typeName(v).String()
		}
	}
	return m, nil
}
