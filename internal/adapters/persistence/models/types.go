package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"imc-punching/internal/pkg/timeutil"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Timestamp is the canonical instant type for punch times. Drivers hand
// back either a native time or text depending on the column type, so Scan
// accepts both.
type Timestamp struct{ time.Time }

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = x
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("timestamp: unsupported Scan type %T", v)
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := timeutil.ParseISO(s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

// GormDataType maps the column to the dialect's timestamp type
func (Timestamp) GormDataType() string {
	return string(schema.Time)
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if t.Time.IsZero() {
		return nil, nil
	}
	return t.Time.UTC(), nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		t.Time = time.Time{}
		return nil
	}
	return t.parse(*s)
}

// DateOnly is a calendar date rendered as YYYY-MM-DD
type DateOnly struct{ time.Time }

// ParseDateOnly builds a DateOnly from YYYY-MM-DD
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := timeutil.ParseDate(s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{Time: t}, nil
}

// String returns the YYYY-MM-DD form, or "" for the zero date
func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(timeutil.DateLayout)
}

// Scan implements sql.Scanner
func (d *DateOnly) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		d.Time = time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case []byte:
		return d.parse(string(x))
	case string:
		return d.parse(x)
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("date: unsupported Scan type %T", v)
	}
}

func (d *DateOnly) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(timeutil.DateLayout) {
		s = s[:len(timeutil.DateLayout)]
	}
	t, err := timeutil.ParseDate(s)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer
func (d DateOnly) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDateOnly(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Interval is an elapsed duration with whole-second precision. Postgres
// keeps it in a native interval column and hands back text such as
// "08:00:00"; other engines store plain seconds.
type Interval struct{ time.Duration }

// GormDBDataType keeps the legacy interval column on Postgres
func (Interval) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "interval"
	}
	return "bigint"
}

// GormValue writes seconds through make_interval on Postgres
func (i Interval) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if db.Dialector.Name() == "postgres" {
		return clause.Expr{SQL: "make_interval(secs => ?)", Vars: []interface{}{i.Seconds()}}
	}
	return clause.Expr{SQL: "?", Vars: []interface{}{i.Seconds()}}
}

// Seconds returns the whole-second length
func (i Interval) Seconds() int64 {
	return timeutil.WholeSeconds(i.Duration)
}

// Scan implements sql.Scanner
func (i *Interval) Scan(v any) error {
	switch x := v.(type) {
	case int64:
		i.Duration = time.Duration(x) * time.Second
		return nil
	case int32:
		i.Duration = time.Duration(x) * time.Second
		return nil
	case float64:
		i.Duration = time.Duration(x) * time.Second
		return nil
	case []byte:
		return i.parse(string(x))
	case string:
		return i.parse(x)
	case nil:
		i.Duration = 0
		return nil
	default:
		return fmt.Errorf("interval: unsupported Scan type %T", v)
	}
}

func (i *Interval) parse(s string) error {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		i.Duration = time.Duration(secs) * time.Second
		return nil
	}

	// [N day[s] ]HH:MM:SS[.fff]
	var days int64
	if idx := strings.Index(s, "day"); idx > 0 {
		n, err := strconv.ParseInt(strings.TrimSpace(s[:idx]), 10, 64)
		if err != nil {
			return fmt.Errorf("interval: invalid %q", s)
		}
		days = n
		s = strings.TrimSpace(strings.TrimLeft(s[idx:], "days"))
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return fmt.Errorf("interval: invalid %q", s)
	}
	h, err1 := strconv.ParseInt(parts[0], 10, 64)
	m, err2 := strconv.ParseInt(parts[1], 10, 64)
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("interval: invalid %q", s)
	}

	total := days*86400 + h*3600 + m*60 + int64(sec)
	i.Duration = time.Duration(total) * time.Second
	return nil
}

// Value implements driver.Valuer
func (i Interval) Value() (driver.Value, error) {
	return i.Seconds(), nil
}

func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Seconds())
}

func (i *Interval) UnmarshalJSON(b []byte) error {
	var secs *int64
	if err := json.Unmarshal(b, &secs); err != nil {
		return err
	}
	i.Duration = 0
	if secs != nil {
		i.Duration = time.Duration(*secs) * time.Second
	}
	return nil
}
