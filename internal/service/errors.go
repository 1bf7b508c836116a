package service

import (
	"errors"
	"fmt"

	"github.com/heliomed/nearbycare/internal/geocode"
	"github.com/heliomed/nearbycare/internal/upstream"
)

// ErrorKind classifies a failed search
type ErrorKind string

const (
	KindInvalidRequest   ErrorKind = "invalid_request"
	KindGeocodeNotFound  ErrorKind = "geocode_not_found"
	KindGeocodeUpstream  ErrorKind = "geocode_upstream"
	KindMapQueryUpstream ErrorKind = "map_query_upstream"
	KindUpstream         ErrorKind = "upstream"
)

// IsClientError reports whether the kind is caused by the caller's input
func (k ErrorKind) IsClientError() bool {
	return k == KindInvalidRequest || k == KindGeocodeNotFound
}

// Error is returned by the service for every failed search
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidRequest(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a service error, or KindUpstream for anything else
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUpstream
}

// classify maps an error from a collaborator onto the service taxonomy
func classify(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, geocode.ErrNotFound) {
		return &Error{Kind: KindGeocodeNotFound, Message: err.Error(), Err: err}
	}

	var ue *upstream.Error
	if errors.As(err, &ue) {
		kind := KindMapQueryUpstream
		if ue.Op == geocode.Op {
			kind = KindGeocodeUpstream
		}
		return &Error{Kind: kind, Message: fmt.Sprintf("%T: %v", ue, ue), Err: err}
	}

	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("%T: %v", err, err), Err: err}
}
