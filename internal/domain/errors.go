package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindInvalidURL        ErrorKind = "invalid_url"
	KindAcquisitionFailed ErrorKind = "acquisition_failed"
	KindModelRequest      ErrorKind = "model_request_error"

	// KindRateLimited is raised by the web layer before a run starts.
	KindRateLimited ErrorKind = "rate_limited"
)

// Error tags a pipeline failure with the stage that produced it.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}

	return ""
}
