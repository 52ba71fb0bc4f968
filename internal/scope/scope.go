// Package scope implements the construction stack used while a schema graph
// is built in one depth-first pass.
//
// Every open Scope owns one in-progress node. When a scope exits, its node is
// handed to the nearest enclosing node that accepts it, as decided by the
// stack's AttachFunc. Scopes nest strictly; a Stack is not safe for
// concurrent use.
package scope

import (
	"fmt"
	"slices"

	"github.com/broady/apischema/source"
)

// AttachFunc attaches child to parent and reports whether parent accepts it.
type AttachFunc func(parent, child any) bool

// Stack is a LIFO stack of open scopes.
type Stack struct {
	frames []*Scope
	attach AttachFunc
}

// Scope is one open, in-progress node.
type Scope struct {
	stack    *Stack
	depth    int
	node     any
	source   source.Element
	detached bool
}

// New returns a stack whose bottom frame holds root.
// Root is never popped and receives every node no other frame accepts.
func New(root any, attach AttachFunc) *Stack {
	s := &Stack{attach: attach}
	s.push(root, nil, false)
	return s
}

// Enter pushes node. The node is attached to an enclosing node on Exit.
func (s *Stack) Enter(node any, src source.Element) *Scope {
	return s.push(node, src, false)
}

// EnterDetached pushes node. The node is not attached on Exit; the caller
// takes it from the scope.
func (s *Stack) EnterDetached(node any, src source.Element) *Scope {
	return s.push(node, src, true)
}

func (s *Stack) push(node any, src source.Element, detached bool) *Scope {
	sc := &Scope{
		stack:    s,
		depth:    len(s.frames),
		node:     node,
		source:   src,
		detached: detached,
	}
	s.frames = append(s.frames, sc)
	return sc
}

// Depth returns the number of open scopes, excluding the root.
func (s *Stack) Depth() int {
	return len(s.frames) - 1
}

// Node returns the node owned by the scope.
func (sc *Scope) Node() any {
	return sc.node
}

// Source returns the element the scope was opened for, or nil.
func (sc *Scope) Source() source.Element {
	return sc.source
}

// Exit pops the scope and attaches its node to the nearest enclosing node
// that accepts it. Exiting a scope that is not on top of the stack panics.
func (sc *Scope) Exit() error {
	sc.pop()
	if sc.detached {
		return nil
	}
	s := sc.stack
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.attach(s.frames[i].node, sc.node) {
			return nil
		}
	}
	return fmt.Errorf("scope: no enclosing node accepts %T", sc.node)
}

// Discard pops the scope without attaching its node.
func (sc *Scope) Discard() {
	sc.pop()
}

func (sc *Scope) pop() {
	s := sc.stack
	top := len(s.frames) - 1
	if sc.depth == 0 || sc.depth != top || s.frames[top] != sc {
		panic(fmt.Sprintf("scope: exit of %T out of order", sc.node))
	}
	s.frames[top] = nil
	s.frames = s.frames[:top]
}

// Within runs fill inside a new scope for node. The scope exits when fill
// succeeds and is discarded when it fails.
func Within[T any](s *Stack, node T, src source.Element, fill func(T) error) error {
	sc := s.Enter(node, src)
	if err := fill(node); err != nil {
		sc.Discard()
		return err
	}
	return sc.Exit()
}

// Current returns the nearest open node of type T.
func Current[T any](s *Stack) (T, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if n, ok := s.frames[i].node.(T); ok {
			return n, true
		}
	}
	var zero T
	return zero, false
}

// Kind returns a predicate matching nodes of type T.
func Kind[T any]() func(node any) bool {
	return func(node any) bool {
		_, ok := node.(T)
		return ok
	}
}

// Nearest returns the source of the nearest scope whose node matches any
// of the predicates and that has a source. With no predicates, any scope
// with a source matches. Returns nil when none does.
func (s *Stack) Nearest(kinds ...func(node any) bool) source.Element {
	if trace := s.Trace(kinds...); len(trace) > 0 {
		return trace[0]
	}
	return nil
}

// Trace returns the sources of every matching scope, nearest first.
// Matching follows Nearest.
func (s *Stack) Trace(kinds ...func(node any) bool) []source.Element {
	var trace []source.Element
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.source == nil {
			continue
		}
		if len(kinds) == 0 || slices.ContainsFunc(kinds, func(match func(any) bool) bool { return match(f.node) }) {
			trace = append(trace, f.source)
		}
	}
	return trace
}
