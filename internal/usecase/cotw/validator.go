package cotw

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cotw-list/internal/domain/entity"
)

// DefaultGapThreshold is the spacing at which two consecutive entries suggest a missing week.
const DefaultGapThreshold = 14 * 24 * time.Hour

// DiagnosticKind classifies an ordering anomaly between adjacent entries.
type DiagnosticKind string

const (
	DiagnosticSameDate   DiagnosticKind = "same_date"
	DiagnosticOutOfOrder DiagnosticKind = "out_of_order"
	DiagnosticGap        DiagnosticKind = "gap"
)

// Diagnostic is an advisory finding about an entry relative to its predecessor.
// Date and ID describe the later entry of the pair.
type Diagnostic struct {
	Kind    DiagnosticKind
	Level   slog.Level
	Date    string
	ID      *string
	Message string
}

// DisplayID returns the crate id or the absence marker.
func (d Diagnostic) DisplayID() string {
	if d.ID == nil {
		return entity.AbsentID
	}
	return *d.ID
}

// DiagnosticSink receives diagnostics as soon as they are found.
type DiagnosticSink interface {
	Emit(ctx context.Context, d Diagnostic)
}

// SinkFunc adapts a function to DiagnosticSink.
type SinkFunc func(ctx context.Context, d Diagnostic)

// Emit calls f(ctx, d).
func (f SinkFunc) Emit(ctx context.Context, d Diagnostic) { f(ctx, d) }

// LogSink writes diagnostics to a structured logger at their own severity.
type LogSink struct {
	Logger *slog.Logger
}

// Emit logs d with its date and crate as structured fields.
func (s LogSink) Emit(ctx context.Context, d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, d.Level, d.Message,
		slog.String("kind", string(d.Kind)),
		slog.String("date", d.Date),
		slog.String("crate", d.DisplayID()))
}

// Validator walks the entry list pairwise and reports ordering anomalies.
type Validator struct {
	sink         DiagnosticSink
	gapThreshold time.Duration
}

// NewValidator creates a Validator that reports to sink (which may be nil).
// A non-positive gapThreshold selects DefaultGapThreshold.
func NewValidator(sink DiagnosticSink, gapThreshold time.Duration) *Validator {
	if gapThreshold <= 0 {
		gapThreshold = DefaultGapThreshold
	}
	return &Validator{sink: sink, gapThreshold: gapThreshold}
}

// Validate checks every adjacent pair of entries and returns the diagnostics in
// the order they were found. Diagnostics never fail validation; the only error is
// an entry whose date cannot be displayed.
func (v *Validator) Validate(ctx context.Context, entries []entity.Entry) ([]Diagnostic, error) {
	var diags []Diagnostic
	for i := 1; i < len(entries); i++ {
		prev, curr := entries[i-1], entries[i]

		// The three checks are independent; one pair may trip several.
		if curr.Date.Equal(prev.Date) {
			d, err := v.report(ctx, DiagnosticSameDate, slog.LevelWarn, curr,
				"Crate of the Week entry is dated the same as preceding entry; this may be a typo")
			if err != nil {
				return diags, err
			}
			diags = append(diags, d)
		}

		if curr.Date.Before(prev.Date) {
			d, err := v.report(ctx, DiagnosticOutOfOrder, slog.LevelError, curr,
				"Crate of the Week entry is out of order (it follows an entry that has a later date)")
			if err != nil {
				return diags, err
			}
			diags = append(diags, d)
		}

		if !curr.Date.Before(prev.Date.Add(v.gapThreshold)) {
			d, err := v.report(ctx, DiagnosticGap, slog.LevelWarn, curr,
				fmt.Sprintf("Crate of the Week entry is dated %s later than preceding entry; one or more entries may be missing",
					describeGap(v.gapThreshold)))
			if err != nil {
				return diags, err
			}
			diags = append(diags, d)
		}
	}
	return diags, nil
}

func (v *Validator) report(ctx context.Context, kind DiagnosticKind, level slog.Level, e entity.Entry, msg string) (Diagnostic, error) {
	date, err := entity.FormatDate(e.Date)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("%s diagnostic for crate %s: %w", kind, e.DisplayID(), err)
	}
	d := Diagnostic{Kind: kind, Level: level, Date: date, ID: e.ID, Message: msg}
	if v.sink != nil {
		v.sink.Emit(ctx, d)
	}
	return d, nil
}

func describeGap(threshold time.Duration) string {
	days := int(threshold / (24 * time.Hour))
	switch {
	case days == 14:
		return "two or more weeks"
	case days == 1:
		return "one or more days"
	default:
		return fmt.Sprintf("%d or more days", days)
	}
}
