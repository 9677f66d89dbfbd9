// Package ident derives stable entity identifiers from submission content
// and time, so resubmitting the identical payload in the same instant does
// not mint a second identity.
package ident

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

// New returns a 24-hex-digit identifier: seconds since epoch followed by a
// 64-bit content hash.
func New(payload []byte, at time.Time) string {
	buf := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(at.UnixNano()))
	copy(buf[8:], payload)
	return fmt.Sprintf("%08x%016x", uint32(at.Unix()), xxh3.Hash(buf))
}
