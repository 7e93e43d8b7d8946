package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/reverie/pkg/reverie/store"
)

const maxLineSize = 4 << 20

// LineError describes one skipped JSONL line.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// LoadJSONL reads one record per line. Blank lines are ignored; lines that
// are not valid records are skipped and reported. Scores in the feed are
// not trusted and should be recomputed by the caller.
func LoadJSONL(r io.Reader) ([]store.Entry, []LineError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		entries []store.Entry
		skipped []LineError
	)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped = append(skipped, LineError{Line: n, Err: err})
			continue
		}
		e, err := rec.Entry()
		if err != nil {
			skipped = append(skipped, LineError{Line: n, Err: err})
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("export: read jsonl: %w", err)
	}
	return entries, skipped, nil
}
