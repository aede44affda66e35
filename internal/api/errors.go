package api

import (
	"errors"
	"fmt"
	"net/http"

	"mosdac/internal/i18n"
)

// Kind buckets transport failures into the categories the UI reacts to.
type Kind int

const (
	// KindNetwork is a connection-level failure: refused, DNS, timeout.
	KindNetwork Kind = iota + 1
	// KindUnauthorized is a 401; token absent, invalid or expired.
	KindUnauthorized
	// KindNotFound is a 404; usually a base URL / endpoint mismatch.
	KindNotFound
	// KindServer is any other non-2xx response.
	KindServer
)

// Error is the classified form of a failed request. Detail carries the
// backend's human-readable "detail" field when the response had one.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("api: %v", e.Err)
	case e.Detail != "":
		return fmt.Sprintf("api: status=%d detail=%s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("api: status=%d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func classifyStatus(status int, detail string) *Error {
	e := &Error{Status: status, Detail: detail}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindServer
	}
	return e
}

// UserMessage converts any error from this package into a user-facing
// message. A server-supplied detail is preferred verbatim over the generic
// text; raw transport errors are never surfaced.
func UserMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return i18n.T("err.server")
	}
	switch apiErr.Kind {
	case KindNetwork:
		return i18n.T("err.network")
	case KindUnauthorized:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return i18n.T("err.unauthorized")
	case KindNotFound:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return i18n.T("err.not_found")
	default:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return i18n.T("err.server")
	}
}

// IsUnauthorized reports whether err is a classified 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}
