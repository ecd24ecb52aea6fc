package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order when reading createdAt values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Timestamp is a creation time stored as an ISO-8601 string. Values that don't
// parse are kept verbatim so one odd entry never makes a file unreadable.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp returns t in UTC.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp reads s leniently. Empty input is the zero Timestamp.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t)
		}
	}
	return Timestamp{raw: s}
}

// Normalized returns t in UTC. Raw values are returned unchanged.
func (t Timestamp) Normalized() Timestamp {
	if t.raw != "" {
		return t
	}
	return NewTimestamp(t.Time)
}

// IsZero reports whether neither a time nor a raw value is set.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero() && t.raw == ""
}

// Raw returns the unparsed source text, if the value didn't parse.
func (t Timestamp) Raw() string {
	return t.raw
}

func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts ISO strings, epoch milliseconds and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ParseTimestamp(s)
		return nil
	}
	var ms json.Number
	if err := json.Unmarshal(data, &ms); err == nil {
		if n, err := ms.Int64(); err == nil {
			*t = NewTimestamp(time.UnixMilli(n))
			return nil
		}
	}
	*t = Timestamp{raw: string(data)}
	return nil
}
