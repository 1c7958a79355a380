package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"synonymseeker/internal/app"
	"synonymseeker/internal/mcptools"
)

// NewMCPCommand creates the mcp command, which serves the game over stdio.
func NewMCPCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the game as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}

			game, err := app.NewGame(cmd.Context(), cfg, db)
			if err != nil {
				db.Close()
				return err
			}
			defer game.Close()

			app.Seed(cmd.Context(), cfg, db, game.WordSets)
			return server.ServeStdio(mcptools.NewServer(game.Games, Version))
		},
	}
}
