// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/invctl/internal/config"
	"github.com/staranto/invctl/internal/record"
)

// DefaultLayout mirrors the en-US locale date-time rendering.
const DefaultLayout = "1/2/2006, 3:04:05 PM"

// InvalidDate is rendered for unparseable input when not Strict.
const InvalidDate = "Invalid Date"

// ErrInvalidDate is returned by a Strict formatter for unparseable input.
var ErrInvalidDate = errors.New("invalid date")

// inputLayouts are tried in order. The collector writes millisecond RFC3339
// with a Z suffix, which the first entry covers.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006",
}

// DateFormatter renders date-time values for display.
type DateFormatter struct {
	// Layout is the Go time layout used for output. Empty means DefaultLayout.
	Layout string
	// Location is the zone values are shown in. Nil means time.Local.
	Location *time.Location
	// Strict makes malformed input an error instead of InvalidDate.
	Strict bool
}

// FormatDate renders value with the default fail-soft formatter. Empty input
// renders as "".
func FormatDate(value string) string {
	s, _ := DateFormatter{}.Format(value)
	return s
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f DateFormatter) layout() string {
	if f.Layout == "" {
		return DefaultLayout
	}
	return f.Layout
}

// Parse parses s using the known input layouts. Layouts without a zone are
// read in the formatter's location.
func (f DateFormatter) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range inputLayouts {
		if t, err := time.ParseInLocation(l, s, f.location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Format renders a date string. It never panics; malformed input gives
// InvalidDate, or ErrInvalidDate when Strict.
func (f DateFormatter) Format(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}

	t, err := f.Parse(value)
	if err != nil {
		if f.Strict {
			return "", err
		}
		log.Debugf("unparseable date %q", value)
		return InvalidDate, nil
	}

	return t.In(f.location()).Format(f.layout()), nil
}

// FormatValue renders a record value as a date. Numbers are taken as epoch
// seconds, or milliseconds when too large to be seconds.
func (f DateFormatter) FormatValue(v record.Value) (string, error) {
	switch v.Kind() {
	case record.KindTime:
		t, _ := v.Time()
		return t.In(f.location()).Format(f.layout()), nil
	case record.KindNumber:
		n, _ := v.Float()
		var t time.Time
		if n > 1e11 {
			t = time.UnixMilli(int64(n))
		} else {
			t = time.Unix(int64(n), 0)
		}
		return t.In(f.location()).Format(f.layout()), nil
	default:
		return f.Format(v.String())
	}
}

// ConfiguredDateFormatter builds a formatter from the date.* config keys. The
// zone comes from date.timezone, then the TZ env variable, then local time.
func ConfiguredDateFormatter() DateFormatter {
	f := DateFormatter{}
	f.Layout, _ = config.GetString("date.layout", "")
	f.Strict, _ = config.GetBool("date.strict", false)

	tz, _ := config.GetString("date.timezone", "")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Error("unknown timezone: " + tz)
		} else {
			f.Location = loc
		}
	}
	return f
}
