package memsrc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/apischema/schema"
	"github.com/broady/apischema/source"
)

const bookManifest = `package: com.example
declarations:
  - name: BookService
    doc: Books.
    markers: ["Api public,admin", "DefaultFetcherOwner BookService"]
    functions:
      - name: findBook
        markers: ["Api admin", "Throws NotFound"]
        params:
          - name: id
            type: kotlin.Long
          - name: request
            type: javax.servlet.http.HttpServletRequest
            markers: [ApiIgnore]
        result: Book?
        resultMarkers: ["FetchBy DETAIL"]
      - name: page
        typeParams: [E]
        result: "Page<out E>"
    companion:
      properties:
        - name: DETAIL
          type: "org.babyfish.jimmer.sql.fetcher.Fetcher<Book>"
          doc: Full detail.
  - name: Book
    markers: [Entity]
    properties:
      - {name: id, type: kotlin.Long}
      - {name: tags, type: "kotlin.collections.List<*>", converted: "in kotlin.String"}
  - name: Page
    typeParams: [E]
    properties:
      - {name: rows, type: "kotlin.collections.List<E>"}
  - name: Color
    kind: enum
    constants:
      - RED
      - {name: GREEN, doc: Go.}
  - name: NotFound
    markers: ["ClientException code=NOT_FOUND"]
`

func TestParseManifest(t *testing.T) {
	m, err := Parse([]byte(bookManifest), "books.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := len(m.Declarations()); got != 5 {
		t.Fatalf("got %d declarations, want 5", got)
	}
	if m.Conventions().Fetcher.Name != "Fetcher" {
		t.Errorf("default conventions should be JVM, got %+v", m.Conventions().Fetcher)
	}

	svc := m.Lookup(schema.NewTypeName("com.example", "BookService"))
	if svc == nil {
		t.Fatal("BookService not found")
	}
	if svc.Pos.File != "books.yaml" || svc.Pos.Line != 3 {
		t.Errorf("Pos = %v, want books.yaml:3", svc.Pos)
	}
	if got := svc.Markers.Get(source.MarkerAPI).Values("value"); strings.Join(got, ",") != "public,admin" {
		t.Errorf("Api groups = %q", got)
	}
	if owner, _ := svc.Markers.Get(source.MarkerDefaultFetcherOwner).Type("value"); owner.String() != "com.example.BookService" {
		t.Errorf("DefaultFetcherOwner = %v", owner)
	}

	find := svc.Functions[0]
	if len(find.Params) != 2 || !find.Params[1].Markers.Has(source.MarkerAPIIgnore) {
		t.Errorf("params = %+v", find.Params)
	}
	if got := find.Result.String(); got != "com.example.Book?" {
		t.Errorf("result = %q", got)
	}
	if v, _ := find.Result.Markers.Get(source.MarkerFetchBy).Value("value"); v != "DETAIL" {
		t.Errorf("FetchBy = %q", v)
	}
	if throws := find.Markers.Get(source.MarkerThrows).Types("value"); len(throws) != 1 || throws[0].String() != "com.example.NotFound" {
		t.Errorf("Throws = %v", throws)
	}

	page := svc.Functions[1]
	arg := page.Result.Args[0]
	if arg.Variance != source.Covariant || arg.Type.Name != schema.NewTypeName("com.example", "BookService").WithTypeVariable("E") {
		t.Errorf("page result arg = %v %v", arg.Variance, arg.Type.Name)
	}

	companion := svc.Companion
	if companion == nil || companion.Name.Name != "BookService.Companion" || companion.Kind != source.KindObject {
		t.Fatalf("companion = %+v", companion)
	}
	if m.Lookup(companion.Name) != companion {
		t.Error("companion should be found by name")
	}
	detail := companion.Property("DETAIL")
	if detail == nil || detail.Doc != "Full detail." || detail.Type.String() != "org.babyfish.jimmer.sql.fetcher.Fetcher<com.example.Book>" {
		t.Errorf("DETAIL = %+v", detail)
	}

	book := m.Lookup(schema.NewTypeName("com.example", "Book"))
	tags := book.Property("tags")
	if tags.Type.Args[0].Variance != source.Star {
		t.Errorf("tags arg = %v", tags.Type.Args[0])
	}
	if tags.Converted == nil || tags.Converted.Variance != source.Contravariant || tags.Converted.Type.Name.String() != "kotlin.String" {
		t.Errorf("tags converter = %+v", tags.Converted)
	}

	pageDecl := m.Lookup(schema.NewTypeName("com.example", "Page"))
	if rows := pageDecl.Property("rows").Type.Args[0].Type.Name; rows.TypeVariable != "E" || rows.Name != "Page" {
		t.Errorf("rows arg = %v", rows)
	}

	color := m.Lookup(schema.NewTypeName("com.example", "Color"))
	if color.Kind != source.KindEnum || len(color.EnumConstants) != 2 || color.EnumConstants[1].Doc != "Go." {
		t.Errorf("Color = %+v", color)
	}

	nf := m.Lookup(schema.NewTypeName("com.example", "NotFound"))
	if code, _ := nf.Markers.Get(source.MarkerClientException).Value("code"); code != "NOT_FOUND" {
		t.Errorf("code = %q", code)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "declarations: [", "parse manifest"},
		{"conventions", "conventions: cobol", `unknown conventions "cobol"`},
		{"no name", "declarations:\n  - kind: class", "declaration without a name"},
		{"kind", "declarations:\n  - {name: A, kind: struct}", `unknown kind "struct"`},
		{"type", "declarations:\n  - name: A\n    properties:\n      - {name: a, type: \"List<\"}", "property a"},
		{"missing type", "declarations:\n  - name: A\n    properties:\n      - {name: a}", "missing type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "m.yaml")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	content := "package: example.com/shop\nconventions: go\ndeclarations:\n  - name: Shop\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d := m.Lookup(schema.TypeName{Package: "example.com/shop", Name: "Shop"})
	if d == nil || d.Pos.File != path {
		t.Fatalf("Shop = %+v", d)
	}
	if !m.Conventions().IsBoolean(schema.ParseTypeName("bool")) {
		t.Error("go conventions expected")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"kotlin.String", "kotlin.String"},
		{"kotlin.String?", "kotlin.String?"},
		{"java.util.Map<kotlin.String, out com.example.Node?>", "java.util.Map<kotlin.String, out com.example.Node?>"},
		{"java.util.List<*>?", "java.util.List<*>?"},
		{"java.util.Comparator<in com.example.Box::T>", "java.util.Comparator<in com.example.Box::T>"},
		{"example.com/shop.Page<int64>", "example.com/shop.Page<int64>"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Type(tt.expr)
			if err != nil {
				t.Fatalf("Type() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Type() = %q, want %q", got.String(), tt.want)
			}
		})
	}

	if _, err := Type("List<"); err == nil {
		t.Error("Type() should reject an unterminated argument list")
	}
}

func TestAddAndLookup(t *testing.T) {
	name := schema.NewTypeName("com.example", "A")
	m := New(nil).Add(&source.Declaration{Name: name, Kind: source.KindClass})

	if m.Lookup(name) == nil {
		t.Error("A should be found")
	}
	if m.Lookup(schema.NewTypeName("com.example", "B")) != nil {
		t.Error("B should not be found")
	}
	if m.Conventions() == nil {
		t.Error("conventions default to JVM")
	}
}
