package scope

import (
	"strings"
	"testing"

	"github.com/broady/apischema/source"
)

type root struct{ lists []*list }
type list struct{ items []*item }
type item struct{ name string }

func attach(parent, child any) bool {
	switch c := child.(type) {
	case *list:
		if p, ok := parent.(*root); ok {
			p.lists = append(p.lists, c)
			return true
		}
	case *item:
		if p, ok := parent.(*list); ok {
			p.items = append(p.items, c)
			return true
		}
	}
	return false
}

type elem string

func (e elem) Location() source.Location { return source.Location{Decl: string(e)} }

func TestEnterExitAttachesToParent(t *testing.T) {
	r := &root{}
	s := New(r, attach)

	l := &list{}
	ls := s.Enter(l, elem("list"))
	for _, name := range []string{"a", "b"} {
		is := s.Enter(&item{name: name}, nil)
		if err := is.Exit(); err != nil {
			t.Fatalf("Exit() error = %v", err)
		}
	}
	if err := ls.Exit(); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}

	if len(r.lists) != 1 || len(r.lists[0].items) != 2 || r.lists[0].items[1].name != "b" {
		t.Errorf("unexpected tree: %+v", r)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestExitSkipsNonAcceptingFrames(t *testing.T) {
	r := &root{}
	s := New(r, attach)

	is := s.Enter(&item{name: "x"}, nil)
	inner := s.Enter(&list{}, nil)
	if err := inner.Exit(); err != nil {
		t.Fatalf("list should reach the root through the item frame: %v", err)
	}
	if len(r.lists) != 1 {
		t.Errorf("root lists = %d, want 1", len(r.lists))
	}

	err := is.Exit()
	if err == nil || !strings.Contains(err.Error(), "*scope.item") {
		t.Errorf("Exit() error = %v, want no-parent error", err)
	}
}

func TestDetachedAndDiscard(t *testing.T) {
	r := &root{}
	s := New(r, attach)

	d := s.EnterDetached(&list{}, nil)
	if err := d.Exit(); err != nil {
		t.Fatal(err)
	}
	s.Enter(&list{}, nil).Discard()

	if len(r.lists) != 0 {
		t.Errorf("detached or discarded nodes were attached: %d", len(r.lists))
	}
}

func TestExitOutOfOrderPanics(t *testing.T) {
	s := New(&root{}, attach)
	outer := s.Enter(&list{}, nil)
	s.Enter(&item{}, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_ = outer.Exit()
}

func TestCurrentAndNearest(t *testing.T) {
	s := New(&root{}, attach)

	if _, ok := Current[*list](s); ok {
		t.Error("no list should be open")
	}

	outer := &list{}
	s.Enter(outer, elem("outer"))
	s.Enter(&item{name: "unlocated"}, nil)

	got, ok := Current[*list](s)
	if !ok || got != outer {
		t.Errorf("Current[*list]() = %v, %v", got, ok)
	}
	if it, _ := Current[*item](s); it.name != "unlocated" {
		t.Errorf("Current[*item]() = %v", it)
	}

	if src := s.Nearest(); src == nil || src.Location().Decl != "outer" {
		t.Errorf("Nearest() = %v, want outer", src)
	}
	if src := s.Nearest(Kind[*item]()); src != nil {
		t.Errorf("Nearest(item) = %v, want nil for unlocated item", src)
	}
	if src := s.Nearest(Kind[*item](), Kind[*list]()); src == nil || src.Location().Decl != "outer" {
		t.Errorf("Nearest(item, list) = %v", src)
	}
}

func TestTrace(t *testing.T) {
	s := New(&root{}, attach)
	s.Enter(&list{}, elem("outer"))
	s.Enter(&item{}, elem("item"))
	s.Enter(&list{}, elem("inner"))

	var got []string
	for _, e := range s.Trace(Kind[*list]()) {
		got = append(got, e.Location().Decl)
	}
	if strings.Join(got, ",") != "inner,outer" {
		t.Errorf("Trace(list) = %v", got)
	}
	if n := len(s.Trace()); n != 3 {
		t.Errorf("Trace() has %d entries, want 3", n)
	}
}

func TestWithin(t *testing.T) {
	r := &root{}
	s := New(r, attach)

	err := Within(s, &list{}, nil, func(l *list) error {
		return Within(s, &item{name: "a"}, nil, func(*item) error { return nil })
	})
	if err != nil {
		t.Fatal(err)
	}

	failure := Within(s, &list{}, nil, func(*list) error {
		return errTest
	})
	if failure != errTest {
		t.Errorf("Within() error = %v", failure)
	}
	if len(r.lists) != 1 || s.Depth() != 0 {
		t.Errorf("lists = %d, depth = %d", len(r.lists), s.Depth())
	}
}

type testError struct{}

func (testError) Error() string { return "test" }

var errTest error = testError{}
