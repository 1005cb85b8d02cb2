package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/parser"
)

// yamlPack is the YAML question pack layout. Topic is the default for
// questions that do not name their own.
type yamlPack struct {
	Topic     string         `yaml:"topic"`
	Questions []yamlQuestion `yaml:"questions"`
}

type yamlQuestion struct {
	Topic   string   `yaml:"topic"`
	Prompt  string   `yaml:"prompt"`
	Answer  string   `yaml:"answer"`
	Options []string `yaml:"options"`
}

// loadPack reads a pack file and returns its valid questions plus the
// number of entries rejected by validation.
func loadPack(path string) ([]domain.Question, int, error) {
	var entries []parser.Entry

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		parsed, err := parser.ParseFile(path)
		if err != nil {
			return nil, 0, err
		}
		entries = parsed
	case ".yaml", ".yml":
		parsed, err := parseYAMLFile(path)
		if err != nil {
			return nil, 0, err
		}
		entries = parsed
	default:
		return nil, 0, ErrUnsupportedPack
	}

	questions := make([]domain.Question, 0, len(entries))
	invalid := 0
	for _, entry := range entries {
		q, err := toQuestion(entry)
		if err != nil {
			invalid++
			slog.Warn("Skipping invalid question", "file", path, "line", entry.Line, "prompt", entry.Prompt, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, invalid, nil
}

func parseYAMLFile(path string) ([]parser.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pack yamlPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, err
	}

	entries := make([]parser.Entry, 0, len(pack.Questions))
	for _, q := range pack.Questions {
		topic := q.Topic
		if topic == "" {
			topic = pack.Topic
		}
		entries = append(entries, parser.Entry{
			Topic:   topic,
			Prompt:  q.Prompt,
			Answer:  q.Answer,
			Options: q.Options,
		})
	}
	return entries, nil
}

func toQuestion(entry parser.Entry) (domain.Question, error) {
	if len(entry.Options) != domain.OptionCount {
		return domain.Question{}, &domain.ValidationError{
			Fields: []string{"options"},
			Reason: fmt.Sprintf("want %d options, got %d", domain.OptionCount, len(entry.Options)),
		}
	}

	q := domain.Question{
		Topic:  strings.TrimSpace(entry.Topic),
		Prompt: entry.Prompt,
		Answer: entry.Answer,
	}
	copy(q.Options[:], entry.Options)
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}
