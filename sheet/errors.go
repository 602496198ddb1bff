package sheet

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("sheet: unsupported image format")
	ErrEmptyImage        = errors.New("sheet: image has no pixels")
	ErrMissingCodec      = errors.New("sheet: animation encoder unavailable")
)

// DecodeError reports a source image that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sheet: decode: %v", e.Err)
	}
	return fmt.Sprintf("sheet: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure serializing pixels to a file format.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("sheet: encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
