package services

import "fmt"

// Status classifies how a multi-page read ended.
type Status int

const (
	StatusOK      Status = iota // every page was read
	StatusPartial               // some pages were read before an error
	StatusFatal                 // nothing could be read
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result carries the items of a multi-page read together with how it ended.
//
// Err is nil only when Status is [StatusOK].
type Result[T any] struct {
	Items  []T
	Status Status
	Err    error
}

// OKResult wraps a complete read.
func OKResult[T any](items []T) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Status: StatusOK}
}

// PartialResult wraps the items gathered before err.
func PartialResult[T any](items []T, err error) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Status: StatusPartial, Err: err}
}

// FatalResult wraps a read that produced nothing.
func FatalResult[T any](err error) Result[T] {
	return Result[T]{Items: []T{}, Status: StatusFatal, Err: err}
}

func (r Result[T]) OK() bool      { return r.Status == StatusOK }
func (r Result[T]) Partial() bool { return r.Status == StatusPartial }
func (r Result[T]) Fatal() bool   { return r.Status == StatusFatal }
