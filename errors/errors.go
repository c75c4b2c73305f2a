package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generation lifecycle
var (
	// ErrEmptyPrompt indicates the prompt was empty after trimming
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrUnexpectedResponseShape indicates the response envelope lacked
	// candidates, content, parts or text
	ErrUnexpectedResponseShape = errors.New("unexpected API response structure")

	// ErrMalformedPayload indicates the structured output text could not be
	// decoded into a generation result
	ErrMalformedPayload = errors.New("malformed structured output")

	// ErrRetriesExhausted indicates the pipeline gave up after its last retry
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrBusy indicates a generation is already in flight
	ErrBusy = errors.New("generation already in progress")
)

// TransportError reports a failed HTTP exchange: either the request never
// completed (StatusCode is 0) or the endpoint answered with a non-2xx status.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API transport error: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("API error: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("API error: %s", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is the terminal failure of a pipeline run.
// It matches ErrRetriesExhausted and unwraps to the last attempt's cause.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("failed to fetch after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}
