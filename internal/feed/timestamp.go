package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding a stored date. Dates
// without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the ISO-8601 forms found in resource store records: full
// RFC 3339, date-time without a zone, and plain dates. Null and "" decode to
// the zero time. It encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// decodeDates converts the decoded wire dates onto a record's fields. A zero
// or missing update date leaves update nil.
func decodeDates(created Timestamp, updated *Timestamp, createDate *time.Time, updateDate **time.Time) {
	*createDate = created.Time
	*updateDate = nil
	if updated != nil && !updated.IsZero() {
		t := updated.Time
		*updateDate = &t
	}
}

// UnmarshalJSON accepts any timestamp form Timestamp understands.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		CreateDate Timestamp  `json:"createDate"`
		UpdateDate *Timestamp `json:"updateDate"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	decodeDates(aux.CreateDate, aux.UpdateDate, &p.CreateDate, &p.UpdateDate)
	return nil
}

// UnmarshalJSON accepts any timestamp form Timestamp understands.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		CreateDate Timestamp  `json:"createDate"`
		UpdateDate *Timestamp `json:"updateDate"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	decodeDates(aux.CreateDate, aux.UpdateDate, &u.CreateDate, &u.UpdateDate)
	return nil
}
