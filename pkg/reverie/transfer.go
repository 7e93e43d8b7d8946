package reverie

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cognicore/reverie/pkg/reverie/export"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// ExportCSV writes every entry, newest first, as CSV.
func (j *Journal) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, entries)
}

// ExportArchive snapshots every entry, newest first.
func (j *Journal) ExportArchive(ctx context.Context) (export.Archive, error) {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return export.Archive{}, err
	}
	return export.NewArchive(entries), nil
}

// ExportEncrypted snapshots every entry and seals it under passphrase.
func (j *Journal) ExportEncrypted(ctx context.Context, passphrase string) (export.Payload, error) {
	a, err := j.ExportArchive(ctx)
	if err != nil {
		return export.Payload{}, err
	}
	return export.Encrypt(passphrase, a)
}

// ImportArchive replaces the journal with the archive's entries. Nothing
// is removed when the archive fails validation or the store fails to
// write it.
func (j *Journal) ImportArchive(ctx context.Context, a export.Archive) (int, error) {
	entries, err := a.Decode()
	if err != nil {
		return 0, err
	}
	return j.replace(ctx, entries)
}

// ImportEncrypted decrypts payload and replaces the journal with it.
func (j *Journal) ImportEncrypted(ctx context.Context, passphrase string, p export.Payload) (int, error) {
	a, err := export.Decrypt(passphrase, p)
	if err != nil {
		return 0, err
	}
	return j.ImportArchive(ctx, a)
}

// ImportResult reports a JSONL import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportJSONL scores and appends every valid line of a JSONL feed. Invalid
// lines are logged and skipped.
func (j *Journal) ImportJSONL(ctx context.Context, r io.Reader) (ImportResult, error) {
	entries, skipped, err := export.LoadJSONL(r)
	if err != nil {
		return ImportResult{}, err
	}
	for _, s := range skipped {
		j.log.Warn("Skipping malformed line", zap.Int("line", s.Line), zap.Error(s.Err))
	}

	res := ImportResult{Skipped: len(skipped)}
	for _, e := range entries {
		e.Bundle = j.scorer.Score(e.Text)
		if _, err := j.store.AddEntry(ctx, e); err != nil {
			return res, err
		}
		res.Imported++
	}
	j.log.Info("JSONL import completed", zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (j *Journal) replace(ctx context.Context, entries []store.Entry) (int, error) {
	stored, err := j.store.Replace(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("replace journal: %w", err)
	}
	j.log.Info("Journal replaced", zap.Int("entries", len(stored)))
	return len(stored), nil
}
