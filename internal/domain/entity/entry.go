// Package entity defines the core domain entities and validation errors for the
// Crate of the Week list. It contains the Entry record along with the error
// taxonomy shared by the parser, validator and renderer.
package entity

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used for both input and output (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CanonicalURLPrefix is prepended to a crate id when an entry carries no explicit URL.
const CanonicalURLPrefix = "https://crates.io/crates/"

// AbsentID is displayed in diagnostics for entries that carry no crate id.
const AbsentID = "<none>"

// Entry represents one dated Crate of the Week award.
//
// ID is optional at the type level even though the parser always populates it;
// the renderer skips entries without one.
type Entry struct {
	Date time.Time
	ID   *string
	URL  *string
}

// NewEntry builds an entry for the given calendar date and crate id.
// The date is normalized to UTC midnight so that comparisons ignore time of day.
func NewEntry(date time.Time, id string) Entry {
	return Entry{Date: CalendarDate(date), ID: &id}
}

// WithURL returns a copy of the entry carrying an explicit link target.
func (e Entry) WithURL(url string) Entry {
	e.URL = &url
	return e
}

// DisplayID returns the crate id, or AbsentID when the entry has none.
func (e Entry) DisplayID() string {
	if e.ID == nil {
		return AbsentID
	}
	return *e.ID
}

// LinkURL returns the explicit URL if set, otherwise the crates.io page for the id.
// It returns an empty string for entries without an id.
func (e Entry) LinkURL() string {
	if e.URL != nil {
		return *e.URL
	}
	if e.ID == nil {
		return ""
	}
	return CanonicalURLPrefix + *e.ID
}

// CalendarDate truncates t to its calendar date at UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
// A zero date cannot be displayed and yields ErrInvalidDate.
func FormatDate(t time.Time) (string, error) {
	if t.IsZero() {
		return "", fmt.Errorf("format date: %w", ErrInvalidDate)
	}
	return t.Format(DateLayout), nil
}
