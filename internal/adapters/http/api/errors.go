package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/devakmmm/LeetInsight/internal/app"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream error")
	ErrBackpressure = errors.New("backpressure")
	ErrInternal     = errors.New("internal error")
)

// OpError ties an error to the handler operation that produced it and the
// kind that decides the response status.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap attaches op to err and classifies it.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Kind: kindOf(err), Err: err}
}

// WrapKind attaches op and an explicit kind to err.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// kindOf classifies errors coming out of the service layer.
func kindOf(err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return ErrBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoSnapshots):
		return ErrNotFound
	case errors.Is(err, service.ErrUpstream):
		return ErrUpstream
	case errors.Is(err, service.ErrBusy):
		return ErrBackpressure
	default:
		return ErrInternal
	}
}

// statusOf maps an error to its HTTP status, response code and client-facing
// message.
func statusOf(err error) (int, string, string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "bad_request", verr.Error()
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request", causeText(err)
	case errors.Is(err, service.ErrNoSnapshots):
		return http.StatusNotFound, "not_found", service.ErrNoSnapshots.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", service.ErrNotFound.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found", causeText(err)
	case errors.Is(err, ErrUpstream), errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, "upstream_error", causeText(err)
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBusy):
		return http.StatusTooManyRequests, "backpressure", service.ErrBusy.Error()
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable", service.ErrNotStarted.Error()
	default:
		return http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError)
	}
}

// causeText is the message of the innermost cause, without operation names.
func causeText(err error) string {
	var op *OpError
	if errors.As(err, &op) {
		if op.Err != nil {
			return op.Err.Error()
		}
		return op.Kind.Error()
	}
	return err.Error()
}
