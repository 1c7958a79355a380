// Package cli implements the seeker operator command.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"synonymseeker/internal/app"
	"synonymseeker/internal/config"
	"synonymseeker/internal/database"
	"synonymseeker/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the seeker CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "seeker",
		Short: "SynonymSeeker operator tool",
		Long:  "Manage SynonymSeeker word sets, serve the game over MCP and hash analyzer API keys.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			// stdout belongs to command output and the MCP transport
			logging.Setup(level, "text", os.Stderr)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewWordSetsCommand(opts))
	cmd.AddCommand(NewMCPCommand(opts))
	cmd.AddCommand(NewHashKeyCommand(opts))

	return cmd
}

// openDatabase loads config and returns a migrated database
func openDatabase(ctx context.Context) (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
