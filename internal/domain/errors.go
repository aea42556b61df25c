package domain

import (
	"errors"
)

// Fetch outcome sentinels
var (
	// Policy rejections (reported as skips)
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("content exceeds maximum size")
	ErrDuplicateImage  = errors.New("duplicate image detected")

	// Failures
	ErrInvalidURL = errors.New("invalid url")
	ErrConnection = errors.New("unable to connect")
	ErrTimeout    = errors.New("request timed out")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrFilesystem = errors.New("filesystem error")
)

// SkipReason names why content was refused by policy.
type SkipReason string

const (
	SkipUnsupportedType SkipReason = "UnsupportedType"
	SkipTooLarge        SkipReason = "TooLarge"
	SkipDuplicateImage  SkipReason = "DuplicateImage"
)

// sentinel returns the error matched by errors.Is for the reason.
func (r SkipReason) sentinel() error {
	switch r {
	case SkipUnsupportedType:
		return ErrUnsupportedType
	case SkipTooLarge:
		return ErrTooLarge
	case SkipDuplicateImage:
		return ErrDuplicateImage
	default:
		return nil
	}
}

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	KindInvalidURL      ErrorKind = "InvalidURL"
	KindConnectionError ErrorKind = "ConnectionError"
	KindTimeout         ErrorKind = "Timeout"
	KindHTTPError       ErrorKind = "HttpError"
	KindFilesystemError ErrorKind = "FilesystemError"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindConnectionError:
		return ErrConnection
	case KindTimeout:
		return ErrTimeout
	case KindHTTPError:
		return ErrHTTPStatus
	case KindFilesystemError:
		return ErrFilesystem
	default:
		return nil
	}
}

// PolicyError represents a policy rejection. It is an expected decision,
// not a fault, and processing continues with the next URL.
type PolicyError struct {
	Reason SkipReason
	Detail string
}

// Error returns the error message
func (e *PolicyError) Error() string {
	msg := "policy rejection"
	if s := e.Reason.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	return msg
}

// Is matches the sentinel belonging to the reason.
func (e *PolicyError) Is(target error) bool {
	return target != nil && target == e.Reason.sentinel()
}

// NewPolicyError creates a new policy rejection
func NewPolicyError(reason SkipReason, detail string) *PolicyError {
	return &PolicyError{Reason: reason, Detail: detail}
}

// IsPolicyRejection returns true if err carries a PolicyError
func IsPolicyRejection(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}

// FetchError represents a failed fetch of a single URL.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// Error returns the error message
func (e *FetchError) Error() string {
	msg := string(e.Kind)
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the kind.
func (e *FetchError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// NewFetchError creates a new fetch failure
func NewFetchError(kind ErrorKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}
