package faults

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when a completion produced no content
	// where content is mandatory.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrPollTimeout is returned when a job poll loop exhausts its deadline
	// before observing a terminal status.
	ErrPollTimeout = errors.New("job polling deadline exceeded")

	// ErrTurnInProgress is returned when a second streaming turn is triggered
	// for a session whose previous turn has not finished.
	ErrTurnInProgress = errors.New("a turn is already in progress for this session")
)

// UpstreamError wraps a transport or provider level failure from an external
// service (embedding, completion, or job API).
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s error: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func Upstream(service string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Service: service, Err: err}
}

// ParseError wraps a response that was expected to be well-formed JSON but
// failed to parse.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func Parse(what string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{What: what, Err: err}
}

// IsUpstream reports whether err is or wraps an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsParse reports whether err is or wraps a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
