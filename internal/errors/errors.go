package errors

import "errors"

// Credential errors. Absent means no key has ever been stored and the
// caller should prompt for one; denied means a key exists but could not
// be read, which should lock the calling surface instead.
var (
	ErrCredentialAbsent = errors.New("no credential stored")
	ErrCredentialDenied = errors.New("credential access denied")
)

// Remote/transport errors.
var (
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrNoResponse        = errors.New("no response received")
)

// Store errors.
var (
	ErrNotFound = errors.New("record not found")
)
