// Package payload builds the requests the listing hands to its network
// collaborators and interprets their replies. Nothing here performs I/O.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNothingToSubmit is returned when a destructive request would carry no
// files or changes. Callers must not send such a request.
var ErrNothingToSubmit = errors.New("nothing to submit")

// ErrInvalidTarget is returned for a move that does not name exactly one
// destination.
var ErrInvalidTarget = errors.New("move needs exactly one target")

// Request is a prepared HTTP request. Path is relative to the backend origin
// unless it is an absolute URL.
type Request struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   any    `json:"body,omitempty"`
}

// Encode returns the JSON body, or nil when the request has none.
func (r Request) Encode() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s body: %w", r.Method, r.Path, err)
	}
	return data, nil
}

func (r Request) String() string {
	return r.Method + " " + r.Path
}
