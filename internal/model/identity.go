package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Identity tags a record as either a local draft or a server-acknowledged
// record. Exactly one of Local or Remote is set. The zero value is invalid
// and rejected by Valid.
//
// Identity is a comparable value type so records carrying one can be used
// as diff set elements directly.
type Identity struct {
	// Local is a client-generated token for records the backend has not
	// acknowledged yet. Empty for remote records.
	Local string

	// Remote is the server-assigned id. Zero for drafts.
	Remote int64
}

// NewLocal returns a fresh draft identity.
func NewLocal() Identity {
	return Identity{Local: uuid.NewString()}
}

// NewRemote returns an identity for a server-assigned id.
func NewRemote(id int64) Identity {
	return Identity{Remote: id}
}

// Draft reports whether the identity belongs to a record the backend has
// not acknowledged.
func (id Identity) Draft() bool {
	return id.Local != ""
}

// Valid reports whether exactly one side of the identity is set.
func (id Identity) Valid() bool {
	return (id.Local != "") != (id.Remote != 0)
}

// String returns a stable representation usable as a store key. Remote
// ids are zero-padded so lexicographic bbolt ordering matches numeric
// ordering within the remote keyspace.
func (id Identity) String() string {
	if id.Draft() {
		return "l:" + id.Local
	}

	return fmt.Sprintf("r:%019d", id.Remote)
}

// ParseIdentity reverses String. Used when walking store buckets.
func ParseIdentity(s string) (Identity, error) {
	switch {
	case strings.HasPrefix(s, "l:"):
		token := s[2:]
		if token == "" {
			return Identity{}, fmt.Errorf("empty local identity token")
		}

		return Identity{Local: token}, nil

	case strings.HasPrefix(s, "r:"):
		n, err := strconv.ParseInt(s[2:], 10, 64)
		if err != nil {
			return Identity{}, fmt.Errorf("parsing remote identity %q: %w", s, err)
		}

		return Identity{Remote: n}, nil
	}

	return Identity{}, fmt.Errorf("unrecognized identity %q", s)
}
