package errors

import (
	"fmt"
)

var ErrNotFound = fmt.Errorf("not found")
var ErrInvalidArguments = fmt.Errorf("invalid arguments")
var ErrInvalidStructure = fmt.Errorf("invalid structure")
var ErrWriteFailed = fmt.Errorf("write failed")
var ErrTypeMismatch = fmt.Errorf("type mismatch")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewInvalidArgumentsError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidArguments,
	}
}

func NewInvalidStructureError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidStructure,
	}
}

func NewWriteFailedError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrWriteFailed,
	}
}

func NewTypeMismatchError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrTypeMismatch,
	}
}
