package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/conorfennell/flashquiz/internal/config"
	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/importer"
	"github.com/conorfennell/flashquiz/internal/logging"
	"github.com/conorfennell/flashquiz/internal/quiz"
	"github.com/conorfennell/flashquiz/internal/registry"
	"github.com/conorfennell/flashquiz/internal/storage"
	"github.com/conorfennell/flashquiz/internal/ui"
)

// ErrNoTerminal is returned when the quiz is started without a TTY.
var ErrNoTerminal = errors.New("flashquiz needs an interactive terminal; use 'flashquiz import' for batch work")

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

func runApp(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isTerminal(os.Stdout) {
		return ErrNoTerminal
	}

	closeLog, err := logging.Setup(cfg.Log, true, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	db, topics, err := prepareStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to prepare question store", "db", cfg.DB, "error", err)
		return err
	}
	defer db.Close()

	sched := ui.NewScheduler()
	controller := quiz.NewController(db, sched, quiz.Options{Countdown: cfg.Quiz.Countdown})
	model := ui.NewModel(ctx, ui.Options{
		Registrar:  registry.New(db),
		Controller: controller,
		Scheduler:  sched,
		Topics:     topics,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})

	slog.Info("Starting quiz", "db", cfg.DB, "topics", len(topics), "countdown", cfg.Quiz.Countdown)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}

// prepareStore opens the question store, seeds the built-in questions,
// imports configured pack sources and returns the topics to offer.
func prepareStore(ctx context.Context, cfg config.Config) (*storage.DB, []string, error) {
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open question store: %w", err)
	}

	seeded, err := db.SeedIfAbsent(ctx, domain.DefaultQuestions())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	slog.Info("Question store ready", "db", cfg.DB, "seeded", seeded)

	if len(cfg.Sources) > 0 {
		im := importer.New(db, cfg.Repos, nil)
		for _, source := range cfg.Sources {
			if _, err := im.AddSource(ctx, source); err != nil {
				slog.Warn("Skipping question pack source", "source", source, "error", err)
			}
		}
		report, err := im.RunSync(ctx)
		if err != nil {
			slog.Warn("Question pack sync failed", "error", err)
		} else {
			slog.Info("Question packs synced", "inserted", report.Inserted, "errors", len(report.Errors))
		}
	}

	stored, err := db.Topics(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, mergeTopics(cfg.Topics, stored), nil
}

// mergeTopics returns the configured topics followed by any stored topic
// not already listed.
func mergeTopics(configured, stored []string) []string {
	seen := make(map[string]bool, len(configured)+len(stored))
	topics := make([]string, 0, len(configured)+len(stored))
	for _, list := range [][]string{configured, stored} {
		for _, topic := range list {
			if seen[topic] {
				continue
			}
			seen[topic] = true
			topics = append(topics, topic)
		}
	}
	return topics
}

// defaultIsTerminal inspects a writer for TTY support.
func defaultIsTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
