package common

import "time"

// ISO8601Format keeps the nanoseconds with a fixed width, so the formatted
// block times sort in the time order.
const ISO8601Format string = "2006-01-02T15:04:05.000000000Z07:00"

func FormatISO8601(t time.Time) string {
	return t.Format(ISO8601Format)
}

func NowISO8601() string {
	return FormatISO8601(time.Now())
}

// ParseISO8601 also accepts the RFC3339 times without the fixed width
// nanoseconds, like "2019-01-01T00:00:00Z" in the genesis file.
func ParseISO8601(s string) (t time.Time, err error) {
	if t, err = time.Parse(ISO8601Format, s); err == nil {
		return
	}

	var rfcErr error
	if t, rfcErr = time.Parse(time.RFC3339Nano, s); rfcErr != nil {
		return time.Time{}, err
	}

	return t, nil
}
