package llm

import (
	"errors"
	"fmt"
)

// ErrUnavailable covers transport failures, timeouts and non-2xx responses.
type ErrUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrUnavailable) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm unavailable (status=%d): %v", e.StatusCode, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("llm unavailable: %v", e.Err)
	}
	return "llm unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the content is unusable.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

func IsUnavailable(err error) bool {
	var ue *ErrUnavailable
	return errors.As(err, &ue)
}

func IsInvalidResponse(err error) bool {
	var ie *ErrInvalidResponse
	return errors.As(err, &ie)
}
