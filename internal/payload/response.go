package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
)

// ExternalServiceError reports a non-2xx or unreadable reply from AniList,
// TMDB or the backend.
type ExternalServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unexpected status"
	}
	msg := fmt.Sprintf("service returned %d %s", e.Status, text)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// DecodeResponse checks status and decodes body into v. A nil v only checks
// the status.
func DecodeResponse(status int, body []byte, v any) error {
	if status < 200 || status > 299 {
		return &ExternalServiceError{Status: status, Message: serverMessage(body)}
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ExternalServiceError{Status: status, Message: "malformed response", Err: err}
	}
	return nil
}

// serverMessage digs a human readable message out of an error body.
func serverMessage(body []byte) string {
	var shape struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return ""
	}
	if len(shape.Error) > 0 {
		var s string
		if json.Unmarshal(shape.Error, &s) == nil && s != "" {
			return s
		}
	}
	if shape.Message != "" {
		return shape.Message
	}
	if len(shape.Errors) > 0 {
		return shape.Errors[0].Message
	}
	return ""
}

// IsStatus reports whether err is an ExternalServiceError with status.
func IsStatus(err error, status int) bool {
	var svc *ExternalServiceError
	return errors.As(err, &svc) && svc.Status == status
}

// OperationResult is the reply to rename, move and delete submissions.
// EntryID is set by a move into a newly created or existing entry.
type OperationResult struct {
	Success int  `json:"success"`
	Failed  int  `json:"failed"`
	EntryID *int `json:"entry_id,omitempty"`
}

// Partial reports whether some files failed while others succeeded.
func (r OperationResult) Partial() bool {
	return r.Success > 0 && r.Failed > 0
}

func (r OperationResult) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Success, r.Failed)
}

// DecodeOperationResult decodes a submission reply.
func DecodeOperationResult(status int, body []byte) (*OperationResult, error) {
	var result OperationResult
	if err := DecodeResponse(status, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadFilename extracts the file name from a Content-Disposition header
// value. Directory components are stripped.
func DownloadFilename(contentDisposition string) (string, error) {
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return "", fmt.Errorf("failed to parse content disposition: %w", err)
	}
	name := params["filename"]
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("content disposition %q has no filename", contentDisposition)
	}
	return name, nil
}
