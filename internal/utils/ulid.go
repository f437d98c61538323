package utils

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a 128-bit, time-ordered identifier rendered in Crockford
// base32 — used for booking references and v2 request ids, both of which
// need to be globally unique, lexicographically sortable by creation time,
// and safe to quote back to a caller.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
