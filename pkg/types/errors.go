package types

import "errors"

// Error kinds. Every *Error matches exactly one of these with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrInvalidImageData = errors.New("invalid image data")
)

// Error is a classified slicing failure. Message is stable and user visible.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the error's kind
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument builds an ErrInvalidArgument error
func InvalidArgument(msg string) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: msg}
}

// NotFound builds an ErrNotFound error wrapping cause
func NotFound(msg string, cause error) *Error {
	return &Error{Kind: ErrNotFound, Message: msg, Err: cause}
}

// UnsupportedType builds an ErrUnsupportedType error
func UnsupportedType(msg string) *Error {
	return &Error{Kind: ErrUnsupportedType, Message: msg}
}

// InvalidImageData builds an ErrInvalidImageData error wrapping cause
func InvalidImageData(cause error) *Error {
	return &Error{Kind: ErrInvalidImageData, Message: "Invalid image data", Err: cause}
}
