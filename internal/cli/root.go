package cli

import (
	"github.com/spf13/cobra"

	"github.com/conorfennell/flashquiz/internal/config"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "flashquiz",
		Short:        "Timed multiple-choice flashcard quiz in the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.AddCommand(newImportCmd())
	return cmd
}
