// Package rpc maps named remote calls onto the pipeline and serves them over
// websocket and plain HTTP.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/lightviz/internal/pipeline"
)

var ErrUnknownMethod = errors.New("rpc: unknown method")

// Args are the positional JSON arguments of a call.
type Args []json.RawMessage

// Handler serves one method. A nil result means the method returns nothing.
type Handler func(args Args) (any, error)

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

func (r *Registry) Get(name string) (Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return h, nil
}

// List returns the registered method names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a Args) decode(i int, v any) error {
	if i >= len(a) {
		return fmt.Errorf("%w: missing argument %d", pipeline.ErrInvalidArgument, i)
	}
	if err := json.Unmarshal(a[i], v); err != nil {
		return fmt.Errorf("%w: argument %d: %v", pipeline.ErrInvalidArgument, i, err)
	}
	return nil
}

func (a Args) String(i int) (string, error) {
	var s string
	err := a.decode(i, &s)
	return s, err
}

func (a Args) Bool(i int) (bool, error) {
	var b bool
	err := a.decode(i, &b)
	return b, err
}

func (a Args) Float(i int) (float64, error) {
	var f float64
	err := a.decode(i, &f)
	return f, err
}

// Int accepts an integer or a numeric string, since clients send axis
// indexes either way.
func (a Args) Int(i int) (int, error) {
	var n int
	if err := a.decode(i, &n); err == nil {
		return n, nil
	}
	var s json.Number
	if err := a.decode(i, &s); err != nil {
		return 0, err
	}
	v, err := s.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: argument %d: %v", pipeline.ErrInvalidArgument, i, err)
	}
	return int(v), nil
}

func (a Args) Floats(i int) ([]float64, error) {
	var f []float64
	err := a.decode(i, &f)
	if f == nil {
		f = []float64{}
	}
	return f, err
}

func (a Args) Vec3(i int) ([3]float64, error) {
	var v [3]float64
	for axis := range v {
		f, err := a.Float(i + axis)
		if err != nil {
			return v, err
		}
		v[axis] = f
	}
	return v, nil
}

func (a Args) Flags3(i int) ([3]bool, error) {
	var v [3]bool
	for axis := range v {
		b, err := a.Bool(i + axis)
		if err != nil {
			return v, err
		}
		v[axis] = b
	}
	return v, nil
}
