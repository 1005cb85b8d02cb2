package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/fingerprint"
	"github.com/conorfennell/flashquiz/internal/gitsource"
	"github.com/conorfennell/flashquiz/internal/storage"
)

// Report summarizes one import run.
type Report struct {
	Files      int
	Parsed     int
	Inserted   int
	Duplicates int
	Conflicts  int
	Invalid    int
	Errors     []error
}

func (r *Report) add(other Report) {
	r.Files += other.Files
	r.Parsed += other.Parsed
	r.Inserted += other.Inserted
	r.Duplicates += other.Duplicates
	r.Conflicts += other.Conflicts
	r.Invalid += other.Invalid
	r.Errors = append(r.Errors, other.Errors...)
}

// Importer loads question packs from registered sources into the store.
type Importer struct {
	db       *storage.DB
	reposDir string
	progress io.Writer
}

// New returns an Importer that checks out git sources under reposDir and
// writes clone progress to progress (which may be nil).
func New(db *storage.DB, reposDir string, progress io.Writer) *Importer {
	return &Importer{db: db, reposDir: reposDir, progress: progress}
}

// AddSource registers a local directory or git URL, returning the existing
// record when the path is already known.
func (im *Importer) AddSource(ctx context.Context, path string) (*storage.Source, error) {
	source, added, err := im.db.AddSource(ctx, path)
	if err != nil {
		return nil, err
	}
	if added {
		slog.Info("Source added", "id", source.ID, "type", source.Type, "path", source.Path)
	}
	return source, nil
}

// RunSync iterates over all sources and imports their question packs.
// A failing source is logged and recorded in the report; the others still
// run.
func (im *Importer) RunSync(ctx context.Context) (Report, error) {
	var total Report

	sources, err := im.db.Sources(ctx)
	if err != nil {
		return total, err
	}
	if len(sources) == 0 {
		slog.Info("No question pack sources configured")
		return total, nil
	}

	for _, source := range sources {
		report, err := im.SyncSource(ctx, source)
		total.add(report)
		if err != nil {
			slog.Error("Error syncing source", "id", source.ID, "path", source.Path, "error", err)
			total.Errors = append(total.Errors, fmt.Errorf("source %s: %w", source.Path, err))
		}
	}
	return total, nil
}

// SyncSource fetches a single source if it is remote and imports it.
func (im *Importer) SyncSource(ctx context.Context, source storage.Source) (Report, error) {
	slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

	dir := source.Path
	if source.Type == storage.SourceGit {
		localRepoPath, err := gitsource.LocalPath(im.reposDir, source.Path)
		if err != nil {
			return Report{}, err
		}
		if err := os.MkdirAll(im.reposDir, os.ModePerm); err != nil {
			return Report{}, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, source.Path, localRepoPath, im.progress); err != nil {
			return Report{}, err
		}
		dir = localRepoPath
	}

	report, err := im.ImportDir(ctx, dir)
	if err != nil {
		return report, err
	}

	if err := im.db.MarkScanned(ctx, source.ID, time.Now()); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}
	return report, nil
}

// ImportDir walks dir for markdown and YAML packs and inserts every valid
// question whose prompt is not stored yet.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Report, error) {
	var report Report

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		questions, invalid, err := loadPack(path)
		if errors.Is(err, ErrUnsupportedPack) {
			return nil
		}
		report.Files++
		report.Invalid += invalid
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, err))
			return nil
		}
		report.Parsed += len(questions)

		if err := im.store(ctx, path, questions, &report); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("storing %s: %w", path, err))
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	slog.Info("Import complete",
		"path", dir,
		"files", report.Files,
		"parsed", report.Parsed,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"conflicts", report.Conflicts,
		"invalid", report.Invalid,
		"errors", len(report.Errors),
	)
	return report, nil
}

// store inserts questions and counts every one that is not new, whether it
// repeats a stored prompt or one earlier in the same file, as a duplicate
// (identical content) or a conflict.
func (im *Importer) store(ctx context.Context, path string, questions []domain.Question, report *Report) error {
	seen := make(map[string]string, len(questions))
	for _, q := range questions {
		fp := fingerprint.Of(q)
		if prev, ok := seen[q.Prompt]; ok {
			classify(path, q, fp, prev, "file", report)
			continue
		}
		seen[q.Prompt] = fp

		existing, err := im.db.FindQuestionByPrompt(ctx, q.Prompt)
		if err != nil {
			return err
		}
		if existing != nil {
			classify(path, q, fp, existing.Fingerprint, "store", report)
		}
	}

	inserted, err := im.db.SeedIfAbsent(ctx, questions)
	if err != nil {
		return err
	}
	report.Inserted += inserted
	return nil
}

func classify(path string, q domain.Question, fp, known, where string, report *Report) {
	if fp == known {
		report.Duplicates++
		return
	}
	report.Conflicts++
	slog.Warn("Prompt already seen with different content, skipping",
		"file", path, "prompt", q.Prompt, "seen_in", where)
}

// ErrUnsupportedPack is returned for files that are neither markdown nor YAML.
var ErrUnsupportedPack = errors.New("unsupported pack format")
