package export

import (
	"fmt"
)

type ErrorKind string

const (
	KindNoDestination ErrorKind = "no_destination"
	KindNoSource      ErrorKind = "no_source"
	KindNoFrames      ErrorKind = "no_frames"
	KindMissingCodec  ErrorKind = "missing_codec"
	KindInvalidTarget ErrorKind = "invalid_target"
	KindEncode        ErrorKind = "encode"
)

// Error is a first-class export failure. Nothing is written when one is
// returned.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("export: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can use the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoDestination = &Error{Kind: KindNoDestination, Message: "no destination chosen"}
	ErrNoSource      = &Error{Kind: KindNoSource, Message: "no source image loaded"}
	ErrNoFrames      = &Error{Kind: KindNoFrames, Message: "No sprites found for GIF export"}
	ErrMissingCodec  = &Error{Kind: KindMissingCodec, Message: "GIF encoder is not available"}
	ErrInvalidTarget = &Error{Kind: KindInvalidTarget, Message: "target is not a group"}
)

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
