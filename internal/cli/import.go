package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashquiz/internal/config"
	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/importer"
	"github.com/conorfennell/flashquiz/internal/logging"
	"github.com/conorfennell/flashquiz/internal/storage"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [path-or-git-url...]",
		Short: "Import question packs from directories or git repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			closeLog, err := logging.Setup(cfg.Log, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runImport(ctx, cfg, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runImport(ctx context.Context, cfg config.Config, paths []string, out, progress io.Writer) error {
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open question store: %w", err)
	}
	defer db.Close()

	// Built-in questions go first so their prompts win over pack duplicates.
	if _, err := db.SeedIfAbsent(ctx, domain.DefaultQuestions()); err != nil {
		return err
	}

	im := importer.New(db, cfg.Repos, progress)
	for _, path := range append(append([]string{}, cfg.Sources...), paths...) {
		if _, err := im.AddSource(ctx, path); err != nil {
			return err
		}
	}

	report, err := im.RunSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to sync sources: %w", err)
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report importer.Report) {
	fmt.Fprintf(out, "Scanned %d files, parsed %d questions.\n", report.Files, report.Parsed)
	fmt.Fprintf(out, "Inserted %d, skipped %d duplicates, %d conflicts, %d invalid.\n",
		report.Inserted, report.Duplicates, report.Conflicts, report.Invalid)

	if len(report.Errors) > 0 {
		fmt.Fprintln(out, "\nErrors:")
		for _, e := range report.Errors {
			fmt.Fprintf(out, "- %s\n", e)
		}
	}
}
