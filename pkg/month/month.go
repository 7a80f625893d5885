// Package month defines the canonical YYYY-MM key used to address a tracked
// month.
package month

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the time layout matching a Key.
const Layout = "2006-01"

// ErrInvalidFormat is returned for strings that are not of the form YYYY-MM.
var ErrInvalidFormat = errors.New("month: invalid format, expected YYYY-MM")

var keyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Key is a validated YYYY-MM month identifier. Keys sort chronologically as
// plain strings.
type Key string

// Parse validates raw and returns it as a Key.
func Parse(raw string) (Key, error) {
	if !keyPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
	}
	return Key(raw), nil
}

// MustParse is Parse that panics on error. Intended for tests and constants.
func MustParse(raw string) Key {
	k, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether raw is a well formed key.
func Valid(raw string) bool {
	return keyPattern.MatchString(raw)
}

// Current returns the key for the month containing t.
func Current(t time.Time) Key {
	return Key(t.Format(Layout))
}

func (k Key) String() string {
	return string(k)
}

// Year returns the year of the key, or 0 for a malformed key.
func (k Key) Year() int {
	if len(k) != len(Layout) {
		return 0
	}
	y, _ := strconv.Atoi(string(k[:4]))
	return y
}

// Month returns the calendar month of the key, or 0 for a malformed key.
func (k Key) Month() time.Month {
	if len(k) != len(Layout) {
		return 0
	}
	m, _ := strconv.Atoi(string(k[5:]))
	return time.Month(m)
}

// Time returns midnight UTC on the first day of the month.
func (k Key) Time() time.Time {
	return time.Date(k.Year(), k.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the key of the following month.
func (k Key) Next() Key {
	return Current(k.Time().AddDate(0, 1, 0))
}

// Prev returns the key of the preceding month.
func (k Key) Prev() Key {
	return Current(k.Time().AddDate(0, -1, 0))
}

// DaysIn returns the number of days in the month named by k, following the
// proleptic Gregorian leap year rule. It returns 0 for a malformed key.
func DaysIn(k Key) int {
	m := k.Month()
	switch m {
	case time.February:
		if IsLeap(k.Year()) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	default:
		return 0
	}
}

// IsLeap reports whether year is a leap year: divisible by 4, and not by 100
// unless also by 400.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
