package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/reverie/pkg/reverie"
	"github.com/cognicore/reverie/pkg/reverie/config"
	"github.com/cognicore/reverie/pkg/reverie/export"
	"github.com/cognicore/reverie/pkg/reverie/insights"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// entryView is an entry with its bedtime suggestions.
type entryView struct {
	store.Entry
	Recommendations []string `json:"recommendations"`
}

func addCmd() *cobra.Command {
	var (
		d  reverie.Draft
		at string
	)
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Record a new entry; text is read from stdin when not given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			d.Text = text
			if d.At, err = export.ParseTime(at); err != nil {
				return err
			}
			if d.At.IsZero() {
				d.At = time.Now()
			}
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				e, err := j.Record(ctx, d)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entryView{Entry: e, Recommendations: insights.Recommend(e)})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.Title, "title", "", "entry title (default \"Untitled\")")
	f.StringVar(&d.Tags, "tags", "", "free-text tags")
	f.StringVar(&at, "at", "", "entry time, e.g. 2024-05-02T06:30 (UTC unless a zone is given, default now)")
	f.IntVar(&d.CaffeineMG, "caffeine", 0, "caffeine in mg")
	f.IntVar(&d.LastMealMinBeforeSleep, "meal", 0, "minutes between last meal and sleep")
	f.IntVar(&d.ScreenMinLastHour, "screen", 0, "screen minutes in the last hour before bed")
	f.IntVar(&d.WorkoutMin, "workout", 0, "workout minutes")
	f.IntVar(&d.Stress, "stress", store.DefaultStress, "stress level 1-5")
	f.BoolVar(&d.Lucid, "lucid", false, "the dream was lucid")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				entries, err := j.List(ctx)
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []store.Entry{}
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry with suggestions for tonight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				e, err := j.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entryView{Entry: e, Recommendations: insights.Recommend(e)})
			})
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [text]",
		Short: "Score text without storing it; text is read from stdin when not given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			comp, err := (&config.Loader{Config: cfg}).Load()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), comp.Scorer.Analyze(text))
		},
	}
}

func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
