package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// FlexTime is a timestamp accepted from any ISO-8601 compatible text.
type FlexTime struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var fallbackParser = &now.Config{
	WeekStartDay: time.Monday,
	TimeLocation: time.UTC,
	TimeFormats:  now.TimeFormats,
}

// ParseFlexTime parses s as a timestamp. Values without a zone are read as UTC.
func ParseFlexTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := fallbackParser.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}

// UnmarshalJSON accepts a JSON string, or null for the zero time.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// MarshalJSON writes the time as RFC 3339.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time.UTC().Format(time.RFC3339Nano))
}

// UnmarshalParam lets echo bind query parameters into FlexTime.
func (f *FlexTime) UnmarshalParam(param string) error {
	t, err := ParseFlexTime(param)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// Ptr returns nil for a nil receiver and the wrapped time otherwise.
func (f *FlexTime) Ptr() *time.Time {
	if f == nil {
		return nil
	}
	t := f.Time
	return &t
}
