package schema

import "strings"

// TypeRef is a resolved occurrence of a type.
type TypeRef struct {
	TypeName  TypeName   `json:"typeName"`
	Nullable  bool       `json:"nullable,omitempty"`
	Arguments []*TypeRef `json:"arguments,omitempty"`

	// FetchBy names the fetcher constant that shapes an entity reference.
	// FetcherOwner and FetcherDoc are set together with it.
	FetchBy      string   `json:"fetchBy,omitempty"`
	FetcherOwner TypeName `json:"fetcherOwner,omitzero"`
	FetcherDoc   *Doc     `json:"fetcherDoc,omitempty"`
}

// AddArgument appends a generic argument.
func (r *TypeRef) AddArgument(arg *TypeRef) {
	r.Arguments = append(r.Arguments, arg)
}

// ReplaceBy makes r a copy of target with the given nullability.
func (r *TypeRef) ReplaceBy(target *TypeRef, nullable bool) {
	r.TypeName = target.TypeName
	r.Arguments = target.Arguments
	r.FetchBy = target.FetchBy
	r.FetcherOwner = target.FetcherOwner
	r.FetcherDoc = target.FetcherDoc
	r.Nullable = nullable
}

// String renders r as Name<Arg, ...> with a trailing "?" when nullable.
func (r *TypeRef) String() string {
	if r == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(r.TypeName.String())
	if len(r.Arguments) > 0 {
		sb.WriteByte('<')
		for i, arg := range r.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte('>')
	}
	if r.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}
