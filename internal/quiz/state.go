package quiz

import (
	"errors"

	"github.com/conorfennell/flashquiz/internal/domain"
)

// State is the controller's position in the quiz lifecycle.
type State int

const (
	TopicSelection State = iota
	Asking
	Finished
)

func (s State) String() string {
	switch s {
	case TopicSelection:
		return "topic_selection"
	case Asking:
		return "asking"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	// ErrNoSelection is returned when an answer is submitted without an option.
	ErrNoSelection = errors.New("please select an option before proceeding")
	// ErrNotAsking is returned when an answer arrives while no question is open.
	ErrNotAsking = errors.New("no question is being asked")
)

// Session is the transient progress through one topic. It is owned by the
// Controller and never persisted.
type Session struct {
	ID            string
	Topic         string
	Remaining     []domain.Question
	Current       *domain.Question
	Score         int
	TimeRemaining int
	Asked         int
	Total         int
}

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	State         State
	SessionID     string
	Topic         string
	Score         int
	Current       *domain.Question
	TimeRemaining int
	Asked         int
	Total         int
}

// Result describes how a submitted answer was scored.
type Result struct {
	Correct bool
	Answer  string
	Score   int
}
