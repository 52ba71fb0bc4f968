// Package directive parses apischema directives from Go comments.
//
// Directives are line comments in the form:
//
//	//api:name [value[,value...]...] [key=value[,value...]...]
//
// Values are bare words or Go-quoted strings. For example:
//
//	//api:service public,admin
//	//api:fetchby return DETAIL owner=example.com/shop.BookService
//	//api:exception code="NOT_FOUND"
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix starts every directive comment.
const Prefix = "//api:"

// Directive names.
const (
	Service          = "service"
	Operation        = "operation"
	Ignore           = "ignore"
	FetchBy          = "fetchby"
	FetcherOwner     = "fetcherowner"
	Exception        = "exception"
	JSONValue        = "jsonvalue"
	Throws           = "throws"
	Default          = "default"
	Converter        = "converter"
	Immutable        = "immutable"
	Entity           = "entity"
	MappedSuperclass = "mappedsuperclass"
	Embeddable       = "embeddable"
	Controller       = "controller"
	Request          = "request"
	Get              = "get"
	Post             = "post"
	Put              = "put"
	Delete           = "delete"
	Patch            = "patch"
)

var names = []string{
	Service, Operation, Ignore, FetchBy, FetcherOwner, Exception, JSONValue,
	Throws, Default, Converter, Immutable, Entity, MappedSuperclass,
	Embeddable, Controller, Request, Get, Post, Put, Delete, Patch,
}

// Directive is one parsed directive line.
type Directive struct {
	Name   string
	Values []string            // positional values, in order
	Args   map[string][]string // key=value arguments
	Pos    token.Position
}

// Arg returns the first value of a named argument.
func (d *Directive) Arg(key string) (string, bool) {
	if len(d.Args[key]) == 0 {
		return "", false
	}
	return d.Args[key][0], true
}

// Value returns the i-th positional value, or "".
func (d *Directive) Value(i int) string {
	if i < len(d.Values) {
		return d.Values[i]
	}
	return ""
}

func (d *Directive) String() string {
	var sb strings.Builder
	sb.WriteString(Prefix)
	sb.WriteString(d.Name)
	for _, v := range d.Values {
		sb.WriteByte(' ')
		sb.WriteString(v)
	}
	keys := make([]string, 0, len(d.Args))
	for k := range d.Args {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%s", k, strings.Join(d.Args[k], ","))
	}
	return sb.String()
}

type directiveAST struct {
	Name string    `parser:"@Ident"`
	Args []*argAST `parser:"@@*"`
}

type argAST struct {
	Head  []string  `parser:"@(Ident | String) (',' @(Ident | String))*"`
	Value *valueAST `parser:"@@?"`
}

type valueAST struct {
	Items []string `parser:"'=' (@(Ident | String) (',' @(Ident | String))*)?"`
}

var grammar = participle.MustBuild[directiveAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Punct", Pattern: `[=,]`},
		{Name: "Ident", Pattern: `[^\s=,"]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// IsDirective reports whether a comment line is an apischema directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, Prefix)
}

// Parse parses one directive comment line, including its "//api:" prefix.
// pos is used for error messages and recorded in the result.
func Parse(text string, pos token.Position) (*Directive, error) {
	if !IsDirective(text) {
		return nil, fmt.Errorf("%s: not a directive: %q", pos, text)
	}
	d, err := ParseLine(strings.TrimPrefix(text, Prefix), pos)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, d.Name) {
		return nil, fmt.Errorf("%s: unknown directive %s%s", pos, Prefix, d.Name)
	}
	return d, nil
}

// ParseLine parses the text of a directive without its prefix.
// Any name is accepted.
func ParseLine(line string, pos token.Position) (*Directive, error) {
	parsed, err := grammar.ParseString(pos.Filename, line)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid directive %q: %w", pos, line, err)
	}

	d := &Directive{Name: parsed.Name, Pos: pos}
	for _, arg := range parsed.Args {
		if arg.Value == nil {
			d.Values = append(d.Values, arg.Head...)
			continue
		}
		if len(arg.Head) != 1 {
			return nil, fmt.Errorf("%s: invalid argument key %q in %s", pos, strings.Join(arg.Head, ","), parsed.Name)
		}
		if d.Args == nil {
			d.Args = make(map[string][]string)
		}
		key := arg.Head[0]
		if _, dup := d.Args[key]; dup {
			return nil, fmt.Errorf("%s: duplicate argument %q in %s", pos, key, parsed.Name)
		}
		d.Args[key] = append([]string{}, arg.Value.Items...)
	}
	return d, nil
}

// Scan parses every directive line of a comment group, in order.
// A nil group yields no directives.
func Scan(fset *token.FileSet, cg *ast.CommentGroup) ([]*Directive, error) {
	if cg == nil {
		return nil, nil
	}
	var directives []*Directive
	for _, c := range cg.List {
		if !IsDirective(c.Text) {
			continue
		}
		d, err := Parse(c.Text, fset.Position(c.Pos()))
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// Find returns the first directive with the given name, or nil.
func Find(directives []*Directive, name string) *Directive {
	for _, d := range directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}
