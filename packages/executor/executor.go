package executor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdul-hamid-achik/reqx/packages/dispatch"
	"github.com/abdul-hamid-achik/reqx/packages/session"
)

// Session performs the network transfer for one request. session.Client
// is the default implementation.
type Session interface {
	Perform(ctx context.Context, req *session.Request) (*session.Response, error)
}

// Decoder converts response bytes into the value pointed to by v. The
// decode package ships the standard implementations.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Executor wires a Session, a Decoder, and a delivery Dispatcher into a
// per-call pipeline. It holds no per-call state: concurrent Execute calls
// are independent.
type Executor struct {
	session    Session
	decoder    Decoder
	dispatcher dispatch.Dispatcher
}

type Option func(*Executor)

// WithDispatcher pins outcome delivery to the given dispatcher. Default
// is dispatch.Immediate, which resolves on the pipeline goroutine.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(ex *Executor) {
		ex.dispatcher = d
	}
}

func New(s Session, d Decoder, opts ...Option) *Executor {
	ex := &Executor{
		session:    s,
		decoder:    d,
		dispatcher: dispatch.Immediate{},
	}
	for _, opt := range opts {
		opt(ex)
	}
	return ex
}

// Execute runs one request through transfer → validate → decode and
// returns an Outcome that resolves with the decoded T or a ClientError.
// Exactly one terminal value is delivered, on the executor's dispatcher,
// no matter which goroutine the transfer completed on.
//
// This is a package-level function because Go methods cannot take type
// parameters.
func Execute[T any](ctx context.Context, ex *Executor, req *session.Request) *Outcome[T] {
	outcome := newOutcome[T]()

	go func() {
		value, err := run[T](ctx, ex, req)
		if err != nil {
			err = Classify(err)
		}
		ex.dispatcher.Dispatch(func() {
			outcome.resolve(value, err)
		})
	}()

	return outcome
}

// ExecuteSync is Execute followed by Wait on the same context.
func ExecuteSync[T any](ctx context.Context, ex *Executor, req *session.Request) (T, error) {
	return Execute[T](ctx, ex, req).Wait(ctx)
}

func run[T any](ctx context.Context, ex *Executor, req *session.Request) (T, error) {
	var zero T

	resp, err := ex.session.Perform(ctx, req)
	if err != nil {
		return zero, err
	}

	if err := validate(req, resp); err != nil {
		return zero, err
	}

	var value T
	if err := ex.decoder.Decode(resp.Body, &value); err != nil {
		return zero, &DecodingError{Cause: err}
	}

	return value, nil
}

// validate checks the response metadata before any decoding happens.
func validate(req *session.Request, resp *session.Response) error {
	if resp == nil || resp.StatusCode <= 0 {
		return &InvalidResponseError{
			StatusCode:  -1,
			URL:         req.URL,
			Description: "Invalid response type",
		}
	}

	if !resp.IsSuccess() {
		return &InvalidResponseError{
			StatusCode:  resp.StatusCode,
			URL:         req.URL,
			Description: reasonPhrase(resp),
			Headers:     resp.Headers,
		}
	}

	return nil
}

func reasonPhrase(resp *session.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}
