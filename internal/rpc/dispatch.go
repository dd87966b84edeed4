package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/san-kum/lightviz/internal/pipeline"
)

// Error codes reported to clients.
const (
	CodeNotFound        = "not_found"
	CodeInvalidArgument = "invalid_argument"
	CodeNoDataset       = "no_active_dataset"
	CodeInternal        = "internal"
)

type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Args   Args            `json:"args"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// CallError wraps a handler failure with the method that produced it.
type CallError struct {
	Method  string
	Wrapped error
}

func (e *CallError) Error() string {
	return e.Method + ": " + e.Wrapped.Error()
}

func (e *CallError) Unwrap() error {
	return e.Wrapped
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrNotFound), errors.Is(err, ErrUnknownMethod):
		return CodeNotFound
	case errors.Is(err, pipeline.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, pipeline.ErrNoActiveDataset):
		return CodeNoDataset
	}
	return CodeInternal
}

// Dispatcher runs calls one at a time. The pipeline and the engine's scene
// graph do not support concurrent mutation, so every call holds the lock
// for its whole duration.
type Dispatcher struct {
	mu  sync.Mutex
	reg *Registry
	log *slog.Logger
}

func NewDispatcher(reg *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{reg: reg, log: logger}
}

func (d *Dispatcher) call(method string, args Args) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.reg.Get(method)
	if err != nil {
		return nil, &CallError{Method: method, Wrapped: err}
	}
	result, err := h(args)
	if err != nil {
		return nil, &CallError{Method: method, Wrapped: err}
	}
	return result, nil
}

// Call runs one request and builds the response envelope for it.
func (d *Dispatcher) Call(req Request) Response {
	resp := Response{ID: req.ID}
	result, err := d.call(req.Method, req.Args)
	if err != nil {
		resp.Error = &ErrorBody{Code: errorCode(err), Message: err.Error()}
		d.log.Warn("rpc call failed", "method", req.Method, "err", err)
		return resp
	}
	resp.Result = result
	d.log.Debug("rpc call", "method", req.Method)
	return resp
}

// Invoke runs method with Go values as arguments. Failures are returned as
// *CallError.
func (d *Dispatcher) Invoke(method string, args ...any) (any, error) {
	raw := make(Args, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return d.call(method, raw)
}

// Methods lists the registered method names.
func (d *Dispatcher) Methods() []string { return d.reg.List() }
