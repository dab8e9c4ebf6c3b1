package badger

import (
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent"
	runLogPrefix      = "runlog"
)

// makeVectorEntryKey generates a key for a vector index entry by ID.
func makeVectorEntryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorEntryPrefix, id))
}

// makeRunLogKey generates a composite key for a run log record.
// Format: prefix:timestamp:requestID. The timestamp layout sorts
// lexicographically in chronological order, and the whole key is printable
// so it doubles as the log location returned to callers.
func makeRunLogKey(timestamp time.Time, requestID string) string {
	return fmt.Sprintf("%s:%s:%s", runLogPrefix, timestamp.UTC().Format("20060102_150405.000000"), requestID)
}
