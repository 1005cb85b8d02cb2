package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/conorfennell/flashquiz/internal/config"
	"github.com/conorfennell/flashquiz/internal/importer"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DB:     filepath.Join(dir, "quiz.db"),
		Repos:  filepath.Join(dir, "repos"),
		Topics: []string{"Maths", "History"},
		Log:    config.Log{Level: "info"},
		Quiz:   config.Quiz{Countdown: 40},
	}
}

func reportWithError() importer.Report {
	return importer.Report{Errors: []error{errors.New("source /missing: boom")}}
}
