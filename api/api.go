// Package api holds the types Go services use to describe their client API.
//
// Service and data declarations are marked with //api: directives; see
// package gosrc for the directive reference. The types here carry meaning
// that directives cannot: optional values, fetcher shapes and coded errors.
package api

import (
	"encoding/json"
	"fmt"
)

// Optional is a value that may be absent. It is encoded as the value, or
// null when absent, and appears in the schema as a nullable T.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns a present optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an absent optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Fetcher names a partial-loading shape of entity E. Fetchers are declared
// as package-level variables and referenced with //api:fetchby.
//
//	var BookDetail = api.NewFetcher[Book]("BookDetail", "id", "title", "authors")
type Fetcher[E any] struct {
	Name   string
	Fields []string
}

// NewFetcher returns a fetcher selecting the given fields.
func NewFetcher[E any](name string, fields ...string) Fetcher[E] {
	return Fetcher[E]{Name: name, Fields: fields}
}

// CodeError is the base of client-visible errors. Types embedding it and
// marked with //api:exception code=... are leaf error codes.
type CodeError struct {
	Code   string         `json:"code"`
	Fields map[string]any `json:"fields,omitempty"`
}

// NewCodeError returns an error with the given code and fields.
func NewCodeError(code string, fields map[string]any) *CodeError {
	return &CodeError{Code: code, Fields: fields}
}

func (e *CodeError) Error() string {
	if len(e.Fields) == 0 {
		return e.Code
	}
	return fmt.Sprintf("%s %v", e.Code, e.Fields)
}
