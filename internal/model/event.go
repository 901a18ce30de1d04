package model

import (
	"fmt"
	"time"
)

// UnknownType labels events whose payload carries no usable "type" field.
const UnknownType = "UNKNOWN"

// timestampLayout renders local wall-clock time with millisecond precision.
// Formatting truncates sub-millisecond digits rather than rounding.
const timestampLayout = "2006-01-02 15:04:05.000"

// Event is the logical view of one ingested log event: the two display
// fields plus the compact re-serialization of the original payload.
type Event struct {
	Timestamp int64  // epoch milliseconds, 0 when the field is absent
	Type      string // category label, UnknownType when the field is absent
	Raw       []byte // compact JSON, client key order preserved
}

// Line renders the event as one self-contained log-file line:
// [<timestamp>] [<type>] <json>. The trailing newline is owned by the writer.
func (e Event) Line() string {
	return fmt.Sprintf("[%s] [%s] %s", DisplayTimestamp(e.Timestamp), e.Type, e.Raw)
}

// DisplayTimestamp converts epoch milliseconds to local wall-clock time.
// A missing timestamp field parses as 0 and renders the epoch instant.
func DisplayTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format(timestampLayout)
}
