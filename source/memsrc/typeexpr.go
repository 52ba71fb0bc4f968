package memsrc

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

// Type expressions look like Kotlin type uses:
//
//	kotlin.collections.Map<kotlin.String, out com.example.Node?>?
//	java.util.List<*>
//	Comparator<in T>

type typeAST struct {
	Name     string        `parser:"@Name"`
	Args     []*typeArgAST `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Nullable bool          `parser:"@'?'?"`
}

type typeArgAST struct {
	Star  bool      `parser:"  @'*'"`
	Bound *boundAST `parser:"| @@"`
}

type boundAST struct {
	Variance string   `parser:"@('in' | 'out')?"`
	Type     *typeAST `parser:"@@"`
}

var typeGrammar = participle.MustBuild[typeAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Name", Pattern: `[\w$][\w$./:-]*`},
		{Name: "Punct", Pattern: `[<>,?*]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// resolveFunc qualifies a name written in a type expression.
type resolveFunc func(name string) schema.TypeName

// qualified resolves every name with schema.ParseTypeName.
func qualified(name string) schema.TypeName {
	if pkg, v, ok := strings.Cut(name, "::"); ok {
		return schema.ParseTypeName(pkg).WithTypeVariable(v)
	}
	return schema.ParseTypeName(name)
}

// Type parses a type expression with fully qualified names.
// Type variables are written Owner::T.
func Type(expr string) (*source.TypeUse, error) {
	return parseType(expr, qualified, source.Location{})
}

// MustType is like Type but panics on error.
func MustType(expr string) *source.TypeUse {
	t, err := Type(expr)
	if err != nil {
		panic(err)
	}
	return t
}

func parseType(expr string, resolve resolveFunc, pos source.Location) (*source.TypeUse, error) {
	parsed, err := typeGrammar.ParseString(pos.File, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", expr, err)
	}
	return parsed.toUse(resolve, pos), nil
}

func (t *typeAST) toUse(resolve resolveFunc, pos source.Location) *source.TypeUse {
	use := &source.TypeUse{
		Name:     resolve(t.Name),
		Nullable: t.Nullable,
		Pos:      pos,
	}
	for _, a := range t.Args {
		if a.Star {
			use.Args = append(use.Args, source.TypeArgument{Variance: source.Star})
			continue
		}
		arg := source.TypeArgument{Type: a.Bound.Type.toUse(resolve, pos)}
		switch a.Bound.Variance {
		case "in":
			arg.Variance = source.Contravariant
		case "out":
			arg.Variance = source.Covariant
		}
		use.Args = append(use.Args, arg)
	}
	return use
}

// parseArgument parses a converter target: "*", "in T", "out T" or "T".
func parseArgument(expr string, resolve resolveFunc, pos source.Location) (*source.TypeArgument, error) {
	expr = strings.TrimSpace(expr)
	if expr == "*" {
		return &source.TypeArgument{Variance: source.Star}, nil
	}
	arg := &source.TypeArgument{}
	if rest, ok := strings.CutPrefix(expr, "in "); ok {
		arg.Variance, expr = source.Contravariant, rest
	} else if rest, ok := strings.CutPrefix(expr, "out "); ok {
		arg.Variance, expr = source.Covariant, rest
	}
	t, err := parseType(expr, resolve, pos)
	if err != nil {
		return nil, err
	}
	arg.Type = t
	return arg, nil
}
