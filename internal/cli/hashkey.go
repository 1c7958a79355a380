package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"synonymseeker/internal/security"
)

// NewHashKeyCommand creates the hash-key command.
func NewHashKeyCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print the bcrypt hash of an analyzer API key",
		Long:  "Print the bcrypt hash to set as ANALYZER_API_KEY_HASH on the hint analyzer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := security.HashAPIKey(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
