package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cognicore/reverie/pkg/reverie"
	"github.com/cognicore/reverie/pkg/reverie/export"
)

const passphraseEnv = "REVERIE_PASSPHRASE"

func exportCmd() *cobra.Command {
	var format, out, passphrase string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as CSV, JSON or an encrypted archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, out, func(w io.Writer) error {
				return exportTo(cmd, w, format, passphrase)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "csv, json or encrypted")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for encrypted exports (default $"+passphraseEnv+" or prompt)")
	return cmd
}

func exportTo(cmd *cobra.Command, w io.Writer, format, passphrase string) error {
	return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
		switch format {
		case "csv":
			return j.ExportCSV(ctx, w)
		case "json":
			a, err := j.ExportArchive(ctx)
			if err != nil {
				return err
			}
			return a.WriteJSON(w)
		case "encrypted":
			pass, err := readPassphrase(cmd, passphrase)
			if err != nil {
				return err
			}
			p, err := j.ExportEncrypted(ctx, pass)
			if err != nil {
				return err
			}
			return printJSON(w, p)
		default:
			return fmt.Errorf("unknown export format %q", format)
		}
	})
}

// writeOutput runs write against path, or stdout for "" and "-". A file
// that fails to close reports that error.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = closeWith(f, err) }()
	return write(f)
}

// closeWith closes c and returns err, or the close error when err is nil.
func closeWith(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		return cerr
	}
	return err
}

func importCmd() *cobra.Command {
	var format, passphrase string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries; json and encrypted replace the journal, jsonl appends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return withJournal(cmd, func(ctx context.Context, j *reverie.Journal) error {
				switch format {
				case "json":
					a, err := export.ReadArchive(r)
					if err != nil {
						return err
					}
					n, err := j.ImportArchive(ctx, a)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), reverie.ImportResult{Imported: n})
				case "encrypted":
					p, err := export.ReadPayload(r)
					if err != nil {
						return err
					}
					pass, err := readPassphrase(cmd, passphrase)
					if err != nil {
						return err
					}
					n, err := j.ImportEncrypted(ctx, pass, p)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), reverie.ImportResult{Imported: n})
				case "jsonl":
					res, err := j.ImportJSONL(ctx, r)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), res)
				default:
					return fmt.Errorf("unknown import format %q", format)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, encrypted or jsonl")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for encrypted imports (default $"+passphraseEnv+" or prompt)")
	return cmd
}

// readPassphrase takes the flag value, then the environment, then prompts
// on the terminal.
func readPassphrase(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(passphraseEnv); v != "" {
		return v, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("passphrase required: use --passphrase or $" + passphraseEnv)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}
