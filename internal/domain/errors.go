package domain

import (
	"fmt"
)

// AppError carries the outward-facing error contract: a short error name,
// a human-readable detail string, and the HTTP status to respond with.
// The wrapped Err is for server-side logs only and never reaches the client.
type AppError struct {
	Code       string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Detail:     e.Detail,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithDetail returns a copy carrying a request-specific detail string.
func (e *AppError) WithDetail(detail string) *AppError {
	return &AppError{
		Code:       e.Code,
		Detail:     detail,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

func (e *AppError) WithDetailf(format string, args ...any) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "Internal error",
		Detail:     "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrInvalidInput = &AppError{
		Code:       "Invalid input",
		Detail:     "Malformed or empty request payload",
		StatusCode: 400,
	}

	ErrUnsupportedFormat = &AppError{
		Code:       "Unsupported format",
		Detail:     "Image format not supported (expected JPEG, PNG, GIF or WEBP)",
		StatusCode: 400,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "No face detected",
		Detail:     "No face detected in image",
		StatusCode: 400,
	}

	ErrMultipleFaces = &AppError{
		Code:       "Multiple faces detected",
		Detail:     "Multiple faces detected. Only one face allowed.",
		StatusCode: 400,
	}

	ErrDimensionMismatch = &AppError{
		Code:       "Dimension mismatch",
		Detail:     "Embedding has wrong dimensionality",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "Unauthorized",
		Detail:     "Missing API key",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "Forbidden",
		Detail:     "Invalid API key",
		StatusCode: 403,
	}

	ErrRateLimited = &AppError{
		Code:       "Rate limit exceeded",
		Detail:     "Too many requests, please try again later",
		StatusCode: 429,
	}

	ErrPayloadTooLarge = &AppError{
		Code:       "Request too large",
		Detail:     "Request body exceeds the configured size limit",
		StatusCode: 413,
	}
)
