package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"synonymseeker/internal/app"
	"synonymseeker/internal/models"
)

// NewWordSetsCommand creates the wordsets command group.
func NewWordSetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordsets",
		Short: "List, import and export puzzle word sets",
	}

	cmd.AddCommand(newWordSetsListCommand(rootOpts))
	cmd.AddCommand(newWordSetsImportCommand(rootOpts))
	cmd.AddCommand(newWordSetsExportCommand())
	return cmd
}

func newWordSetsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored word sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			sets, err := app.NewWordSetService(db).List(cmd.Context())
			if err != nil {
				return err
			}
			return printWordSets(cmd.OutOrStdout(), rootOpts.Format, sets)
		},
	}
}

func printWordSets(w io.Writer, format string, sets []models.WordSet) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sets)
	}

	for _, ws := range sets {
		fmt.Fprintf(w, "%-12s %s\n", ws.TargetWord, strings.Join(ws.Synonyms, ", "))
	}
	fmt.Fprintf(w, "%d word set(s)\n", len(sets))
	return nil
}

func newWordSetsImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import word sets from a YAML file",
		Long: `Import word sets from a YAML file.

Each set needs a letters-only target and exactly four synonyms of 3 to 15
letters. Sets using a blocked word are rejected and existing targets are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			// The blocked list must be present before sets are checked against it
			if err := db.SeedBlockedWords(cmd.Context(), cfg.BlockedWordsURL); err != nil {
				return fmt.Errorf("failed to load blocked words: %w", err)
			}

			result, err := app.NewWordSetService(db).Import(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return json.NewEncoder(out).Encode(result)
			}
			fmt.Fprintf(out, "imported %d, skipped %d, rejected %d\n", result.Imported, result.Skipped, len(result.Rejected))
			for _, r := range result.Rejected {
				fmt.Fprintf(out, "  rejected: %s\n", r)
			}
			return nil
		},
	}
}

func newWordSetsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export word sets as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return app.NewWordSetService(db).Export(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
