package common

import (
	"encoding/json"
	"fmt"
	"time"

	"ems.com/ems/utils"
)

// DateOnly is a calendar day (yyyy-MM-dd) accepted in JSON bodies and query
// strings.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	// b is a quoted string like `"2025-10-29"`
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalParam(s)
}

// UnmarshalParam implements binding.BindUnmarshaler for form and query binding.
func (d *DateOnly) UnmarshalParam(s string) error {
	if s == "" {
		// handle empty date gracefully
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected yyyy-MM-dd", s)
	}

	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

// String is the yyyy-MM-dd form, empty for the zero date.
func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Format(utils.DateLayout)
}
