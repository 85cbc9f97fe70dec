package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can pick a status code
type ErrorKind int

const (
	// KindInternal covers anything the service did not classify
	KindInternal ErrorKind = iota
	// KindBadRequest means the caller sent missing or unusable input, or a write was rejected by storage
	KindBadRequest
	// KindNotFound means no record matched the lookup
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// ErrArticleNotFound is wrapped by every NotFound error
var ErrArticleNotFound = errors.New("article not found")

// Error is a classified service failure. Message is safe to return to the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or KindInternal
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

func badRequest(err error) *Error {
	return &Error{Kind: KindBadRequest, Message: err.Error(), Err: err}
}

func notFound(format string, args ...any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrArticleNotFound,
	}
}
