package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TransportError means the request never completed: DNS failure, refused
// connection, timeout, cancelled context. Always recoverable locally.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("qsearch API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError means the backend was reached but answered with a failure
// status. Body carries the response text for user-facing detail.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("qsearch API error: %d %s", e.Status, e.Body)
}

// Detail extracts a human-readable reason from a backend failure body.
// FastAPI-style errors carry {"detail": "..."}; anything else falls back
// to the provided generic message.
func Detail(err error, generic string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if d := detailField(reqErr.Body); d != "" {
			return d
		}
		return generic
	}
	var transErr *TransportError
	if errors.As(err, &transErr) {
		return "Network error, please try again"
	}
	return generic
}

func detailField(body string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return payload.Detail
}
