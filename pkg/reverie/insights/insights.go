// Package insights derives chart series, streaks and bedtime suggestions
// from stored entries.
package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/cognicore/reverie/pkg/reverie/lexicon"
	"github.com/cognicore/reverie/pkg/reverie/series"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// DefaultWindow is the sentiment moving-average window.
const DefaultWindow = 5

// Recommendation texts.
const (
	AdviceScreens = "Try grayscale and blue light filter 45 minutes before bed"
	AdviceFear    = "Two minute box breathing before sleep"
	AdviceWorry   = "Write three lines about tomorrow's biggest worry, then close notebook"
	AdviceSteady  = "Keep routine steady tonight"
)

// Point is one scatter sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Report holds the chart series of a journal, oldest entry first.
type Report struct {
	Count            int       `json:"count"`
	RiskIndex        []float64 `json:"nightmare_index"`
	SentimentAverage []float64 `json:"sentiment_moving_avg"`
	ScreenVsRisk     []Point   `json:"screen_vs_nightmare_index"`
	Correlation      float64   `json:"screen_nightmare_correlation"`
	Insight          string    `json:"insight"`
}

// Build computes the report. Entries may come in any order.
func Build(entries []store.Entry, window int) Report {
	if window < 1 {
		window = DefaultWindow
	}
	ordered := chronological(entries)

	n := len(ordered)
	risk := make([]float64, n)
	sentiment := make([]float64, n)
	screen := make([]float64, n)
	scatter := make([]Point, n)
	for i, e := range ordered {
		risk[i] = float64(e.RiskIndex)
		sentiment[i] = e.Sentiment
		screen[i] = float64(e.ScreenMinLastHour)
		scatter[i] = Point{X: screen[i], Y: risk[i]}
	}

	r := Report{
		Count:            n,
		RiskIndex:        risk,
		SentimentAverage: series.MovingAverage(sentiment, window),
		ScreenVsRisk:     scatter,
	}
	if n > 0 {
		r.Correlation = series.Pearson(screen, risk)
		r.Insight = fmt.Sprintf("Correlation screen→NI: %.2f (closer to +1 means screen time rises with NI).", r.Correlation)
	}
	return r
}

func chronological(entries []store.Entry) []store.Entry {
	out := append([]store.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Streak counts consecutive calendar days, ending with the day of now, that
// have at least one entry. Days are taken in now's location.
func Streak(entries []store.Entry, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[e.At.In(loc).Format(time.DateOnly)] = struct{}{}
	}

	y, m, d := now.Date()
	streak := 0
	for {
		day := time.Date(y, m, d-streak, 0, 0, 0, 0, loc).Format(time.DateOnly)
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
	}
}

// Recommend lists the suggestions that apply to the night after e, in a
// fixed order. It falls back to AdviceSteady when nothing else applies.
func Recommend(e store.Entry) []string {
	var recs []string
	if e.RiskIndex >= 60 && e.ScreenMinLastHour >= 30 {
		recs = append(recs, AdviceScreens)
	}
	if e.Emotion == lexicon.Fear {
		recs = append(recs, AdviceFear)
	}
	if e.Sentiment <= -0.3 {
		recs = append(recs, AdviceWorry)
	}
	if len(recs) == 0 {
		recs = append(recs, AdviceSteady)
	}
	return recs
}
