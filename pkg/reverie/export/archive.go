package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// Archive is a full journal snapshot.
type Archive struct {
	Entries []Record `json:"entries"`
}

// NewArchive snapshots entries in the given order.
func NewArchive(entries []store.Entry) Archive {
	a := Archive{Entries: make([]Record, len(entries))}
	for i, e := range entries {
		a.Entries[i] = NewRecord(e)
	}
	return a
}

// WriteJSON writes the archive as indented JSON.
func (a Archive) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// ReadArchive decodes a JSON archive.
func ReadArchive(r io.Reader) (Archive, error) {
	var a Archive
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return Archive{}, fmt.Errorf("%w: archive: %v", internalerr.ErrInvalidInput, err)
	}
	return a, nil
}

// Decode converts every record to an entry. Archives carry their scores,
// so each score bundle must be in range.
func (a Archive) Decode() ([]store.Entry, error) {
	out := make([]store.Entry, 0, len(a.Entries))
	for i, rec := range a.Entries {
		e, err := rec.Entry()
		if err != nil {
			return nil, fmt.Errorf("archive entry %d: %w", i+1, err)
		}
		if err := e.Bundle.Validate(); err != nil {
			return nil, fmt.Errorf("archive entry %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}
