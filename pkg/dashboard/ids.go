package dashboard

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc generates instance ids.
type IDFunc func() string

// UUIDs generates random UUIDv4 ids. It is the default.
func UUIDs() string { return uuid.NewString() }

// SequentialIDs returns an IDFunc producing prefix1, prefix2, ...
// Useful for tests and reproducible exports.
func SequentialIDs(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, n.Add(1))
	}
}
