package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cognicore/reverie/pkg/reverie/store"
)

// CSVHeader is the column row written by WriteCSV.
var CSVHeader = []string{
	"id", "dt", "title", "text", "sentiment", "emotion_primary", "nightmare_index",
	"tags", "lucid", "caffeine_mg", "last_meal_min_before_sleep",
	"screen_min_last_hr", "workout_min", "stress_1_5",
}

// WriteCSV writes entries in the given order, one row each. The id column
// is the 1-based row number and dt is the UTC minute.
func WriteCSV(w io.Writer, entries []store.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i, e := range entries {
		lucid := "0"
		if e.Lucid {
			lucid = "1"
		}
		row := []string{
			strconv.Itoa(i + 1),
			e.At.UTC().Format(MinuteLayout),
			e.Title,
			e.Text,
			strconv.FormatFloat(e.Sentiment, 'f', 3, 64),
			e.Emotion.String(),
			strconv.Itoa(e.RiskIndex),
			e.Tags,
			lucid,
			strconv.Itoa(e.CaffeineMG),
			strconv.Itoa(e.LastMealMinBeforeSleep),
			strconv.Itoa(e.ScreenMinLastHour),
			strconv.Itoa(e.WorkoutMin),
			strconv.Itoa(e.Stress),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
