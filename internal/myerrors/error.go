package myerrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidBreed       = errors.New("invalid cat breed")
	ErrInvalidTargetCount = errors.New("invalid target count")
	ErrTargetLocked       = errors.New("target is locked")
	ErrMissionAssigned    = errors.New("mission assigned")
)

// RequestError is a client error. Message goes back to the caller, Err is
// the sentinel used to pick the status code.
type RequestError struct {
	Message string
	Err     error
}

func (r *RequestError) Error() string {
	return r.Message
}

func (r *RequestError) Unwrap() error {
	return r.Err
}

func NotFound(entity string, id int64) error {
	return &RequestError{
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Err:     ErrNotFound,
	}
}

func InvalidBreed(breed string) error {
	return &RequestError{
		Message: fmt.Sprintf("invalid cat breed %q", breed),
		Err:     ErrInvalidBreed,
	}
}

func InvalidTargetCount(count, min, max int) error {
	return &RequestError{
		Message: fmt.Sprintf("mission must have between %d and %d targets, got %d", min, max, count),
		Err:     ErrInvalidTargetCount,
	}
}

func TargetLocked(id int64) error {
	return &RequestError{
		Message: fmt.Sprintf("target %d is locked", id),
		Err:     ErrTargetLocked,
	}
}

func MissionAssigned(id int64) error {
	return &RequestError{
		Message: fmt.Sprintf("mission %d is assigned to a cat and cannot be deleted", id),
		Err:     ErrMissionAssigned,
	}
}
