package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by Client.Search when the service reports that no
// product matches the query. It is a result, not a failure.
var ErrNotFound = errors.New("catalog: no matching products")

// FetchError describes a failed full-catalog load.
type FetchError struct {
	Status  int    // HTTP status, 0 if the request never got a response
	Message string // "message" field of the error body, if any
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch catalog: HTTP %d: %s", e.Status, e.Reason())
	}
	return fmt.Sprintf("fetch catalog: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Reason is the short text shown to the user: the service's own message,
// else the HTTP status text, else the transport error.
func (e *FetchError) Reason() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Status != 0:
		return http.StatusText(e.Status)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

// SearchError describes a failed search other than "no matches".
type SearchError struct {
	Query  string
	Status int
	Err    error
}

func (e *SearchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("search %q: HTTP %d", e.Query, e.Status)
	}
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
