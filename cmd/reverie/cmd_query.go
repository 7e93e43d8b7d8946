package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/reverie/pkg/reverie"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Rank entries by TF-IDF similarity and title closeness",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				results, err := j.Search(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
}

func findCmd() *cobra.Command {
	var query, tag string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Filter entries by substring in title or text and in tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				entries, err := j.Filter(ctx, query, tag)
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
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring of title or text")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "substring of tags")
	return cmd
}

func topicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Group entries into topics with k-means",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				topics, err := j.Topics(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), topics)
			})
		},
	}
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show nightmare index and sentiment series, streak and suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				s, err := j.Insights(ctx, time.Now())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s)
			})
		},
	}
}

func rescoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescore",
		Short: "Recompute scores of every entry with the current lexicon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				n, err := j.Rescore(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]int{"updated": n})
			})
		},
	}
}
