package testutil

import (
	"time"
)

func MustTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		panic(err)
	}
	return t
}

// FromUnixMilli mirrors the precision of the Timestamp.set argument.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
