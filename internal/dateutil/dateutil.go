// Package dateutil provides parsing, formatting, and enumeration of calendar
// date keys ("YYYY-MM-DD") and text-encoded date sets.
//
// Everything here is pure and total: malformed input degrades to an empty
// result rather than an error, since date sets come straight from free-form
// user text.
package dateutil

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Layout is the calendar date key format used throughout the application.
const Layout = "2006-01-02"

// keyPattern matches a well-formed calendar date key. Tokens that fail this
// pattern are silently dropped by ParseDateSet.
var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// separators matches any run of whitespace, commas, or newlines between
// tokens in a text-encoded date set.
var separators = regexp.MustCompile(`[\s,]+`)

// FormatDate returns the zero-padded local calendar date key for t.
// No timezone conversion is performed; the key reflects t's own location.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// ParseDate parses a date key into a time.Time at midnight local time.
// Returns ok=false for anything that is not a valid calendar date.
func ParseDate(key string) (time.Time, bool) {
	if !keyPattern.MatchString(key) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EnumerateDates walks day by day from start to end inclusive and returns the
// date keys in order. If either bound fails to parse or start is after end,
// the result is empty. Never returns an error.
func EnumerateDates(start, end string) []string {
	s, ok := ParseDate(start)
	if !ok {
		return nil
	}
	e, ok := ParseDate(end)
	if !ok {
		return nil
	}
	if s.After(e) {
		return nil
	}

	var out []string
	for cur := s; !cur.After(e); cur = cur.AddDate(0, 0, 1) {
		out = append(out, FormatDate(cur))
	}
	return out
}

// ParseDateSet splits text on runs of whitespace/commas/newlines and returns
// the set of well-formed date keys. Duplicates collapse; tokens that do not
// match YYYY-MM-DD are silently dropped.
func ParseDateSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range separators.Split(text, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, ok := ParseDate(tok); !ok {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// FormatDateSet serializes a date set as a sorted, space-joined string.
func FormatDateSet(set map[string]struct{}) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, " ")
}

// ToggleDate parses text into a date set, flips membership of key, and
// re-serializes sorted and space-joined. Toggling the same key twice restores
// the original membership (up to normalization of the text encoding).
func ToggleDate(text, key string) string {
	set := ParseDateSet(text)
	if _, ok := set[key]; ok {
		delete(set, key)
	} else {
		set[key] = struct{}{}
	}
	return FormatDateSet(set)
}

// Weekday returns the short weekday name for a date key, or "" if the key
// does not parse. Used for display payloads alongside common dates.
func Weekday(key string) string {
	t, ok := ParseDate(key)
	if !ok {
		return ""
	}
	return t.Weekday().String()[:3]
}
