package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a job failure for the batch report.
type ErrorKind string

const (
	// KindConfig marks an invalid pipeline or CLI specification. It is the
	// only fatal kind: it aborts the run before any file is touched.
	KindConfig ErrorKind = "config"

	// KindDecode marks an input that could not be decoded.
	KindDecode ErrorKind = "decode"

	// KindInvalidDimension marks a resize that resolved to a zero dimension.
	KindInvalidDimension ErrorKind = "invalid_dimension"

	// KindEncoding marks an encoder failure.
	KindEncoding ErrorKind = "encoding"

	// KindIO marks a filesystem read/write/rename failure.
	KindIO ErrorKind = "io"
)

// ConfigError reports an invalid pipeline or CLI specification.
type ConfigError struct {
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Msg, e.Cause)
	}
	return "invalid configuration: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// ConfigErrorf builds a ConfigError from a format string.
func ConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// DecodeError reports a failure to decode an input file.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// InvalidDimensionError reports a resize expression that resolved to a
// zero width or height for a particular source image.
type InvalidDimensionError struct {
	Expr   string
	Width  int
	Height int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("resize %q resolved to invalid dimensions %dx%d", e.Expr, e.Width, e.Height)
}

// EncodingError reports an encoder failure for a particular codec.
type EncodingError struct {
	Codec string
	Cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s encoding failed: %v", e.Codec, e.Cause)
}

func (e *EncodingError) Unwrap() error { return e.Cause }

// KindOf maps an error to its report kind. Anything that is not part of
// the pipeline taxonomy is treated as an I/O failure.
func KindOf(err error) ErrorKind {
	var (
		configErr *ConfigError
		decodeErr *DecodeError
		dimErr    *InvalidDimensionError
		encErr    *EncodingError
	)

	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &dimErr):
		return KindInvalidDimension
	case errors.As(err, &encErr):
		return KindEncoding
	default:
		return KindIO
	}
}
