// Package export moves journal entries in and out of the store: CSV for
// spreadsheets, JSON archives (plain or passphrase-encrypted) and JSONL
// feeds.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/score"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// MinuteLayout is the entry time format of CSV exports and hand-written
// import files. Minute times are always UTC.
const MinuteLayout = "2006-01-02T15:04"

// FormatHTML marks a record whose text is an HTML fragment.
const FormatHTML = "html"

var timeLayouts = []string{time.RFC3339Nano, MinuteLayout, "2006-01-02 15:04", time.DateOnly}

// Record is the wire form of an entry in archives and JSONL feeds.
type Record struct {
	DT     string `json:"dt"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Tags   string `json:"tags"`
	Format string `json:"format,omitempty"`

	score.Bundle

	CaffeineMG             int  `json:"caffeine_mg"`
	LastMealMinBeforeSleep int  `json:"last_meal_min_before_sleep"`
	ScreenMinLastHour      int  `json:"screen_min_last_hr"`
	WorkoutMin             int  `json:"workout_min"`
	Stress                 int  `json:"stress_1_5"`
	Lucid                  bool `json:"lucid"`
}

// NewRecord converts a stored entry to its wire form.
func NewRecord(e store.Entry) Record {
	return Record{
		DT:                     e.At.Format(time.RFC3339Nano),
		Title:                  e.Title,
		Text:                   e.Text,
		Tags:                   e.Tags,
		Bundle:                 e.Bundle,
		CaffeineMG:             e.CaffeineMG,
		LastMealMinBeforeSleep: e.LastMealMinBeforeSleep,
		ScreenMinLastHour:      e.ScreenMinLastHour,
		WorkoutMin:             e.WorkoutMin,
		Stress:                 e.Stress,
		Lucid:                  e.Lucid,
	}
}

// Entry converts the record to an unsaved entry. HTML text is reduced to
// plain text. Scores are copied as-is and not checked.
func (r Record) Entry() (store.Entry, error) {
	at, err := ParseTime(r.DT)
	if err != nil {
		return store.Entry{}, err
	}

	text := r.Text
	if strings.EqualFold(r.Format, FormatHTML) {
		if text, err = ingest.PlainText(text); err != nil {
			return store.Entry{}, fmt.Errorf("export: html text: %w", err)
		}
	}

	doc := ingest.Doc{Title: r.Title, Text: text, Tags: r.Tags}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return store.Entry{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}

	e := store.Entry{
		At:                     at,
		Title:                  doc.Title,
		Text:                   doc.Text,
		Tags:                   doc.Tags,
		Bundle:                 r.Bundle,
		CaffeineMG:             r.CaffeineMG,
		LastMealMinBeforeSleep: r.LastMealMinBeforeSleep,
		ScreenMinLastHour:      r.ScreenMinLastHour,
		WorkoutMin:             r.WorkoutMin,
		Stress:                 r.Stress,
		Lucid:                  r.Lucid,
	}
	e.Normalize()
	return e, nil
}

// ParseTime accepts RFC 3339, minute precision and date-only times.
// Layouts without a zone are read as UTC. An empty string yields the zero
// time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", internalerr.ErrInvalidInput, s)
}
