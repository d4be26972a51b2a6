package api

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxErrorBodyBytes caps how much of a failed response body is retained
// on an HTTPError. Enough for any human-readable message.
const maxErrorBodyBytes = 4096

// HTTPError is a structured non-2xx response from the backend or the
// direct-upload endpoint. Body and ContentType are kept so the caller
// can decide whether the message is worth showing to the user verbatim.
type HTTPError struct {
	StatusCode  int
	Body        []byte
	ContentType string
	Err         error
}

func (e *HTTPError) Error() string {
	if text, ok := e.PlainText(); ok {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, text)
	}

	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// PlainText returns the response body when it is human-readable plain
// text: a text/plain content type with a non-empty, valid UTF-8 body
// free of control characters. Callers surface such bodies inline and
// fall back to a generic description otherwise.
func (e *HTTPError) PlainText() (string, bool) {
	mime := e.ContentType
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	if !strings.EqualFold(strings.TrimSpace(mime), "text/plain") {
		return "", false
	}

	body := strings.TrimSpace(string(e.Body))
	if body == "" || !utf8.ValidString(body) {
		return "", false
	}

	for _, r := range body {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return "", false
		}
	}

	return body, true
}
