package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/flashquiz/internal/domain"
)

// DefaultCountdown is the number of seconds allowed per question.
const DefaultCountdown = 40

const tickInterval = time.Second

// QuestionSource provides the question pool for a topic.
type QuestionSource interface {
	QuestionsForTopic(ctx context.Context, topic string) ([]domain.Question, error)
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	Countdown int
	Rand      Rand
	NewID     func() string
}

// Controller drives a single quiz session: drawing questions without
// replacement, counting down each one and keeping score. It is not safe for
// concurrent use; all calls, including scheduled ticks, must come from one
// event loop.
type Controller struct {
	questions QuestionSource
	scheduler Scheduler
	rnd       Rand
	countdown int
	newID     func() string

	state   State
	session *Session

	// generation identifies the current draw; armed ticks from an earlier
	// draw compare unequal and are dropped.
	generation uint64
	cancel     Cancel
}

// NewController returns a Controller in the TopicSelection state.
func NewController(questions QuestionSource, scheduler Scheduler, opts Options) *Controller {
	c := &Controller{
		questions: questions,
		scheduler: scheduler,
		rnd:       opts.Rand,
		countdown: opts.Countdown,
		newID:     opts.NewID,
		state:     TopicSelection,
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.countdown <= 0 {
		c.countdown = DefaultCountdown
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// StartQuiz begins a new session over every stored question for topic and
// draws the first one. A topic without questions finishes immediately with a
// score of 0. If the questions cannot be loaded the previous state is kept
// and the error is returned.
func (c *Controller) StartQuiz(ctx context.Context, topic string) error {
	questions, err := c.questions.QuestionsForTopic(ctx, topic)
	if err != nil {
		slog.Warn("Failed to load questions", "topic", topic, "error", err)
		return fmt.Errorf("failed to load questions for %s: %w", topic, err)
	}

	c.stopTimer()
	remaining := make([]domain.Question, len(questions))
	copy(remaining, questions)
	c.session = &Session{
		ID:        c.newID(),
		Topic:     topic,
		Remaining: remaining,
		Total:     len(remaining),
	}

	slog.Info("Quiz started", "session_id", c.session.ID, "topic", topic, "questions", len(remaining))
	if len(remaining) == 0 {
		slog.Warn("Topic has no questions, finishing immediately", "session_id", c.session.ID, "topic", topic)
	}

	c.DrawNextQuestion()
	return nil
}

// DrawNextQuestion leaves the current question and presents a random one of
// the remaining questions, or finishes the session when none are left.
func (c *Controller) DrawNextQuestion() {
	c.stopTimer()
	if c.session == nil {
		return
	}
	s := c.session

	if len(s.Remaining) == 0 {
		s.Current = nil
		s.TimeRemaining = 0
		c.state = Finished
		slog.Info("Quiz finished", "session_id", s.ID, "topic", s.Topic, "score", s.Score, "total", s.Total)
		return
	}

	i := c.rnd.IntN(len(s.Remaining))
	q := s.Remaining[i]
	last := len(s.Remaining) - 1
	s.Remaining[i] = s.Remaining[last]
	s.Remaining = s.Remaining[:last]

	s.Current = &q
	s.TimeRemaining = c.countdown
	s.Asked++
	c.state = Asking
	slog.Debug("Question drawn", "session_id", s.ID, "prompt", q.Prompt, "remaining", len(s.Remaining))

	c.armTimer()
}

// Tick counts the current question down by one second. When the countdown
// reaches zero the question is abandoned without scoring and the next one is
// drawn. Ticks outside the Asking state are ignored.
func (c *Controller) Tick() {
	if c.state != Asking || c.session == nil {
		return
	}
	s := c.session
	s.TimeRemaining--
	if s.TimeRemaining > 0 {
		c.armTimer()
		return
	}

	slog.Info("Question timed out", "session_id", s.ID, "prompt", s.Current.Prompt)
	c.DrawNextQuestion()
}

// SubmitAnswer scores selected against the current question and moves on.
// An empty selection returns ErrNoSelection and changes nothing; so does a
// submission while no question is open, with ErrNotAsking.
func (c *Controller) SubmitAnswer(selected string) (Result, error) {
	if c.state != Asking || c.session == nil || c.session.Current == nil {
		return Result{}, ErrNotAsking
	}
	if selected == "" {
		return Result{}, ErrNoSelection
	}

	s := c.session
	answer := s.Current.Answer
	correct := selected == answer
	if correct {
		s.Score++
	}
	slog.Debug("Answer submitted", "session_id", s.ID, "correct", correct, "score", s.Score)

	result := Result{Correct: correct, Answer: answer, Score: s.Score}
	c.DrawNextQuestion()
	return result, nil
}

// Home discards the session and returns to topic selection.
func (c *Controller) Home() {
	c.stopTimer()
	if c.session != nil {
		slog.Debug("Session discarded", "session_id", c.session.ID, "state", c.state.String())
	}
	c.session = nil
	c.state = TopicSelection
}

// State returns a copy of the current controller state.
func (c *Controller) State() Snapshot {
	snap := Snapshot{State: c.state}
	if c.session == nil {
		return snap
	}
	s := c.session
	snap.SessionID = s.ID
	snap.Topic = s.Topic
	snap.Score = s.Score
	snap.TimeRemaining = s.TimeRemaining
	snap.Asked = s.Asked
	snap.Total = s.Total
	if s.Current != nil {
		q := *s.Current
		snap.Current = &q
	}
	return snap
}

func (c *Controller) armTimer() {
	if c.cancel != nil {
		c.cancel()
	}
	gen := c.generation
	c.cancel = c.scheduler.Schedule(tickInterval, func() {
		if gen != c.generation {
			return
		}
		c.Tick()
	})
}

func (c *Controller) stopTimer() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
