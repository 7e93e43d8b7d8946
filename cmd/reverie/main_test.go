package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reverie/pkg/reverie/cards"
	"github.com/cognicore/reverie/pkg/reverie/config"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// run executes the root command against a journal in dir.
func run(t *testing.T, dir string, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("REVERIE_STORE_PATH", filepath.Join(dir, "journal.db"))
	t.Setenv("REVERIE_LOGGING_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestAddListSearch(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "", "add", "--title", "Chase", "--screen", "40", "--at", "2024-05-02T06:30",
		"I was SO SCARED, a monster chased me! I could not escape!!")
	var added struct {
		store.Entry
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, "Chase", added.Title)
	assert.Equal(t, 90, added.RiskIndex)
	assert.Len(t, added.Recommendations, 3)

	run(t, dir, "We laughed and felt so happy and calm on a sunny day", "add", "--title", "Garden", "--screen", "0", "--at", "2024-05-03T06:30")

	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(run(t, dir, "", "list")), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Garden", entries[0].Title)

	var hits []cards.SearchCard
	require.NoError(t, json.Unmarshal([]byte(run(t, dir, "", "search", "monster")), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "Chase", hits[0].Title)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "", "add", "--title", "Lake", "--at", "2024-05-02T06:30", "cold water")

	csvPath := filepath.Join(dir, "out.csv")
	run(t, dir, "", "export", "--format", "csv", "--out", csvPath)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1,2024-05-02T06:30,Lake,cold water,"))
}

func TestEncryptedExportImport(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	run(t, src, "", "add", "--title", "Lake", "cold water")

	payload := filepath.Join(src, "backup.json")
	run(t, src, "", "export", "--format", "encrypted", "--passphrase", "moon", "--out", payload)

	out := run(t, dst, "", "import", "--format", "encrypted", "--passphrase", "moon", payload)
	assert.Contains(t, out, `"imported": 1`)

	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(run(t, dst, "", "list")), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Lake", entries[0].Title)
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseWithReportsCloseError(t *testing.T) {
	flush := errors.New("flush failed")
	assert.ErrorIs(t, closeWith(failingCloser{flush}, nil), flush)

	write := errors.New("write failed")
	assert.ErrorIs(t, closeWith(failingCloser{flush}, write), write, "the write error wins")
	assert.NoError(t, closeWith(failingCloser{}, nil))
}

func TestWriteOutput(t *testing.T) {
	cmd := &cobra.Command{}
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	hello := func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}
	require.NoError(t, writeOutput(cmd, "-", hello))
	assert.Equal(t, "hello", stdout.String())

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, writeOutput(cmd, path, hello))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = writeOutput(cmd, filepath.Join(t.TempDir(), "missing", "out.txt"), hello)
	assert.Error(t, err)
}

func TestBuildLogger(t *testing.T) {
	l, err := buildLogger(config.LoggingConfig{Level: "warn", Format: "console"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1), "verbose enables debug")

	_, err = buildLogger(config.LoggingConfig{Level: "loud", Format: "json"}, false)
	assert.Error(t, err)
}
