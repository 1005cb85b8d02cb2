package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	topicPrefix    = "T:"
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	optionPrefix   = "O:"
	separator      = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingOption
)

// Entry is a question block as written in a pack file. It is not validated;
// Options may hold any number of choices.
type Entry struct {
	Topic   string
	Prompt  string
	Answer  string
	Options []string
	Line    int
}

// ParseFile reads a file from the given path and extracts all entries.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a markdown question pack from an io.Reader.
//
// A "T:" line sets the topic for every following question until the next
// "T:" line. Each question starts with "Q:" (which may continue over several
// lines), followed by one "A:" line and one "O:" line per option. Questions
// are separated by a new "Q:" or a "---" line.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var block []string
	currentState := seeking
	topic := ""
	lineNo := 0

	flush := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n ")
		switch currentState {
		case readingQuestion:
			current.Prompt = content
		case readingAnswer:
			current.Answer = content
		case readingOption:
			current.Options = append(current.Options, content)
		}
		block = nil
	}

	finishEntry := func() {
		flush()
		if current.Prompt != "" {
			entries = append(entries, current)
		}
		current = Entry{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		if line == separator {
			finishEntry()
			continue
		}

		switch {
		case strings.HasPrefix(line, topicPrefix):
			finishEntry()
			topic = strings.TrimSpace(line[len(topicPrefix):])
		case strings.HasPrefix(line, questionPrefix):
			finishEntry()
			current = Entry{Topic: topic, Line: lineNo}
			currentState = readingQuestion
			block = append(block, lineContent(line, questionPrefix))
		case strings.HasPrefix(line, answerPrefix):
			flush()
			currentState = readingAnswer
			block = append(block, lineContent(line, answerPrefix))
		case strings.HasPrefix(line, optionPrefix):
			flush()
			currentState = readingOption
			block = append(block, lineContent(line, optionPrefix))
		case currentState == readingQuestion:
			block = append(block, line)
		}
	}

	finishEntry() // Finish the very last entry in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func lineContent(line, prefix string) string {
	content := line[len(prefix):]
	if strings.HasPrefix(content, " ") {
		content = content[1:]
	}
	return content
}
