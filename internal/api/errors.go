package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedFormat indicates an export format the server does not offer.
	ErrUnsupportedFormat = errors.New("api: unsupported export format")
	// ErrUnsupportedType indicates an export data type the server does not offer.
	ErrUnsupportedType = errors.New("api: unsupported export type")
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string // server's "error" field, if it sent one
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: unexpected status %d", e.Op, e.StatusCode)
}

// newStatusError builds a StatusError, pulling the message out of a
// {"error": "..."} body when the server sent one.
func newStatusError(op string, resp *http.Response) *StatusError {
	se := &StatusError{Op: op, StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return se
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		se.Message = payload.Error
	} else if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		se.Message = strings.TrimSpace(string(body))
	}
	return se
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
