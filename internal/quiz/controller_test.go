package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/conorfennell/flashquiz/internal/domain"
)

type fakeSource struct {
	byTopic map[string][]domain.Question
	err     error
}

func (f *fakeSource) QuestionsForTopic(_ context.Context, topic string) ([]domain.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTopic[topic], nil
}

// manualScheduler fires callbacks only when the test advances its clock.
type manualScheduler struct {
	now     time.Duration
	nextID  int
	pending map[int]scheduled
}

type scheduled struct {
	at time.Duration
	fn func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{pending: make(map[int]scheduled)}
}

func (m *manualScheduler) Schedule(delay time.Duration, fn func()) Cancel {
	id := m.nextID
	m.nextID++
	m.pending[id] = scheduled{at: m.now + delay, fn: fn}
	return func() { delete(m.pending, id) }
}

func (m *manualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		id, ok := m.earliest(target)
		if !ok {
			break
		}
		task := m.pending[id]
		delete(m.pending, id)
		m.now = task.at
		task.fn()
	}
	m.now = target
}

func (m *manualScheduler) earliest(limit time.Duration) (int, bool) {
	best, found := 0, false
	for id, task := range m.pending {
		if task.at > limit {
			continue
		}
		if !found || task.at < m.pending[best].at || (task.at == m.pending[best].at && id < best) {
			best, found = id, true
		}
	}
	return best, found
}

// leakyScheduler ignores cancellation so tests can deliver late callbacks.
type leakyScheduler struct {
	fns []func()
}

func (l *leakyScheduler) Schedule(_ time.Duration, fn func()) Cancel {
	l.fns = append(l.fns, fn)
	return func() {}
}

func mathsQuestions() []domain.Question {
	return []domain.Question{
		{Topic: "Maths", Prompt: "What is 5 x 6?", Answer: "30",
			Options: [domain.OptionCount]string{"30", "25", "35", "40"}},
		{Topic: "Maths", Prompt: "What is the square root of 49?", Answer: "7",
			Options: [domain.OptionCount]string{"6", "8", "7", "9"}},
	}
}

func numberedQuestions(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		answer := fmt.Sprintf("a%d", i)
		questions[i] = domain.Question{
			Topic:   "Numbers",
			Prompt:  fmt.Sprintf("Question %d?", i),
			Answer:  answer,
			Options: [domain.OptionCount]string{answer, "x", "y", "z"},
		}
	}
	return questions
}

func newTestController(seed uint64, sched Scheduler) *Controller {
	source := &fakeSource{byTopic: map[string][]domain.Question{
		"Maths":   mathsQuestions(),
		"Numbers": numberedQuestions(7),
	}}
	ids := 0
	return NewController(source, sched, Options{
		Rand: rand.New(rand.NewPCG(seed, seed+1)),
		NewID: func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		},
	})
}

func TestNewControllerStartsInTopicSelection(t *testing.T) {
	c := newTestController(1, newManualScheduler())
	snap := c.State()
	if snap.State != TopicSelection {
		t.Fatalf("Expected state %s, but got %s", TopicSelection, snap.State)
	}
	if snap.Current != nil || snap.Score != 0 {
		t.Errorf("Expected an empty snapshot, but got %+v", snap)
	}
}

func TestVisitsEveryQuestionOnce(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			c := newTestController(seed, newManualScheduler())
			if err := c.StartQuiz(context.Background(), "Numbers"); err != nil {
				t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
			}

			seen := make(map[string]int)
			for c.State().State == Asking {
				snap := c.State()
				seen[snap.Current.Prompt]++
				if _, err := c.SubmitAnswer("x"); err != nil {
					t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
				}
			}

			if len(seen) != 7 {
				t.Fatalf("Expected 7 distinct questions, but saw %d", len(seen))
			}
			for prompt, n := range seen {
				if n != 1 {
					t.Errorf("Expected '%s' to be drawn once, but it was drawn %d times", prompt, n)
				}
			}
			if got := c.State(); got.State != Finished || got.Asked != 7 || got.Total != 7 {
				t.Errorf("Expected a finished session with 7 of 7 asked, but got %+v", got)
			}
		})
	}
}

func TestMathsScenario(t *testing.T) {
	answers := map[string]string{
		"What is 5 x 6?":                 "30",
		"What is the square root of 49?": "7",
	}

	firstPrompts := make(map[string]bool)
	for seed := uint64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("all correct seed %d", seed), func(t *testing.T) {
			c := newTestController(seed, newManualScheduler())
			if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
				t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
			}
			firstPrompts[c.State().Current.Prompt] = true

			for c.State().State == Asking {
				res, err := c.SubmitAnswer(answers[c.State().Current.Prompt])
				if err != nil {
					t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
				}
				if !res.Correct {
					t.Errorf("Expected answer to be correct")
				}
			}
			if score := c.State().Score; score != 2 {
				t.Errorf("Expected final score 2, but got %d", score)
			}
		})

		t.Run(fmt.Sprintf("one wrong seed %d", seed), func(t *testing.T) {
			c := newTestController(seed, newManualScheduler())
			if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
				t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
			}
			for c.State().State == Asking {
				prompt := c.State().Current.Prompt
				selected := answers[prompt]
				if prompt == "What is 5 x 6?" {
					selected = "35"
				}
				res, err := c.SubmitAnswer(selected)
				if err != nil {
					t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
				}
				if prompt == "What is 5 x 6?" && (res.Correct || res.Answer != "30") {
					t.Errorf("Expected an incorrect result revealing '30', but got %+v", res)
				}
			}
			if score := c.State().Score; score != 1 {
				t.Errorf("Expected final score 1, but got %d", score)
			}
		})
	}

	if len(firstPrompts) != 2 {
		t.Errorf("Expected both draw orders across seeds, but only saw %v", firstPrompts)
	}
}

func TestAnswerMatchIsExact(t *testing.T) {
	testCases := []struct {
		selected string
		correct  bool
	}{
		{selected: "30", correct: true},
		{selected: " 30", correct: false},
		{selected: "30.0", correct: false},
		{selected: "thirty", correct: false},
	}

	for _, tc := range testCases {
		t.Run(tc.selected, func(t *testing.T) {
			source := &fakeSource{byTopic: map[string][]domain.Question{"Maths": mathsQuestions()[:1]}}
			c := NewController(source, newManualScheduler(), Options{})
			if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
				t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
			}
			res, err := c.SubmitAnswer(tc.selected)
			if err != nil {
				t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
			}
			if res.Correct != tc.correct {
				t.Errorf("Expected correct=%v for '%s', but got %v", tc.correct, tc.selected, res.Correct)
			}
			want := 0
			if tc.correct {
				want = 1
			}
			if got := c.State().Score; got != want {
				t.Errorf("Expected score %d, but got %d", want, got)
			}
		})
	}
}

func TestEmptyTopicFinishesImmediately(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(1, sched)

	if err := c.StartQuiz(context.Background(), "Unknown"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	snap := c.State()
	if snap.State != Finished || snap.Score != 0 || snap.Current != nil {
		t.Errorf("Expected a finished session with score 0, but got %+v", snap)
	}
	if snap.Topic != "Unknown" {
		t.Errorf("Expected topic 'Unknown', but got '%s'", snap.Topic)
	}
	if len(sched.pending) != 0 {
		t.Errorf("Expected no timer to be armed, but %d are pending", len(sched.pending))
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	c := newTestController(3, newManualScheduler())
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	before := c.State()

	if _, err := c.SubmitAnswer(""); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Expected ErrNoSelection, but got %v", err)
	}

	after := c.State()
	if after.Score != before.Score || after.Current.Prompt != before.Current.Prompt || after.Asked != before.Asked {
		t.Errorf("Expected state to be unchanged, before %+v after %+v", before, after)
	}
}

func TestSubmitOutsideAsking(t *testing.T) {
	c := newTestController(3, newManualScheduler())

	if _, err := c.SubmitAnswer("30"); !errors.Is(err, ErrNotAsking) {
		t.Errorf("Expected ErrNotAsking before a quiz, but got %v", err)
	}

	if err := c.StartQuiz(context.Background(), "Unknown"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	if _, err := c.SubmitAnswer("30"); !errors.Is(err, ErrNotAsking) {
		t.Errorf("Expected ErrNotAsking after finishing, but got %v", err)
	}
	if c.State().Score != 0 {
		t.Errorf("Expected score to stay 0")
	}
}

func TestCountdown(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(5, sched)
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	first := c.State()
	if first.TimeRemaining != DefaultCountdown {
		t.Fatalf("Expected %d seconds, but got %d", DefaultCountdown, first.TimeRemaining)
	}

	sched.Advance(39 * time.Second)
	snap := c.State()
	if snap.TimeRemaining != 1 || snap.Current.Prompt != first.Current.Prompt {
		t.Fatalf("Expected 1 second left on the same question, but got %+v", snap)
	}

	sched.Advance(time.Second)
	snap = c.State()
	if snap.State != Asking || snap.Current.Prompt == first.Current.Prompt {
		t.Fatalf("Expected the next question after timeout, but got %+v", snap)
	}
	if snap.Score != 0 || snap.TimeRemaining != DefaultCountdown || snap.Asked != 2 {
		t.Errorf("Expected a fresh unscored question, but got %+v", snap)
	}

	sched.Advance(DefaultCountdown * time.Second)
	if snap := c.State(); snap.State != Finished || snap.Score != 0 {
		t.Errorf("Expected the quiz to finish with score 0 after both timeouts, but got %+v", snap)
	}
	if len(sched.pending) != 0 {
		t.Errorf("Expected no pending timer after finishing, but got %d", len(sched.pending))
	}
}

func TestCustomCountdown(t *testing.T) {
	sched := newManualScheduler()
	source := &fakeSource{byTopic: map[string][]domain.Question{"Maths": mathsQuestions()}}
	c := NewController(source, sched, Options{Countdown: 3})
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}

	sched.Advance(3 * time.Second)
	if snap := c.State(); snap.Asked != 2 || snap.TimeRemaining != 3 {
		t.Errorf("Expected the second question with 3 seconds, but got %+v", snap)
	}
}

func TestSubmitResetsCountdown(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(7, sched)
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}

	sched.Advance(30 * time.Second)
	if _, err := c.SubmitAnswer("nope"); err != nil {
		t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
	}
	if len(sched.pending) != 1 {
		t.Fatalf("Expected exactly one armed timer, but got %d", len(sched.pending))
	}

	sched.Advance(39 * time.Second)
	if snap := c.State(); snap.State != Asking || snap.TimeRemaining != 1 || snap.Asked != 2 {
		t.Errorf("Expected the second question to still be open with 1 second, but got %+v", snap)
	}
}

func TestLateTimerAfterSubmitIsIgnored(t *testing.T) {
	sched := &leakyScheduler{}
	c := newTestController(11, sched)
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	staleTick := sched.fns[len(sched.fns)-1]

	if _, err := c.SubmitAnswer("nope"); err != nil {
		t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
	}
	before := c.State()

	staleTick()

	after := c.State()
	if after.TimeRemaining != before.TimeRemaining || after.Asked != before.Asked {
		t.Errorf("Expected a stale tick to be a no-op, before %+v after %+v", before, after)
	}

	// Draining the stale tick many times must never skip the open question.
	for i := 0; i < 2*DefaultCountdown; i++ {
		staleTick()
	}
	if got := c.State(); got.Asked != 2 || got.State != Asking {
		t.Errorf("Expected the second question to still be open, but got %+v", got)
	}
}

func TestTimeoutDrawsOnce(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(13, sched)
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	first := c.State().Current.Prompt

	sched.Advance(DefaultCountdown * time.Second)
	if c.State().Current.Prompt == first {
		t.Fatalf("Expected the timed-out question to be left")
	}
	if c.State().Asked != 2 {
		t.Fatalf("Expected exactly one draw per question, but Asked is %d", c.State().Asked)
	}
}

func TestHomeCancelsTimer(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(17, sched)
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}

	c.Home()

	if len(sched.pending) != 0 {
		t.Errorf("Expected no pending timer after Home, but got %d", len(sched.pending))
	}
	snap := c.State()
	if snap.State != TopicSelection || snap.Current != nil || snap.SessionID != "" {
		t.Errorf("Expected a discarded session, but got %+v", snap)
	}

	sched.Advance(time.Hour)
	if c.State().State != TopicSelection {
		t.Errorf("Expected to stay in topic selection")
	}
}

func TestRestartQuiz(t *testing.T) {
	sched := newManualScheduler()
	c := newTestController(19, sched)
	ctx := context.Background()

	if err := c.StartQuiz(ctx, "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	first := c.State().SessionID
	if _, err := c.SubmitAnswer("30"); err != nil {
		t.Fatalf("SubmitAnswer() returned an unexpected error: %v", err)
	}

	if err := c.StartQuiz(ctx, "Numbers"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	snap := c.State()
	if snap.SessionID == first || snap.Score != 0 || snap.Total != 7 || snap.Asked != 1 {
		t.Errorf("Expected a fresh session, but got %+v", snap)
	}
	if len(sched.pending) != 1 {
		t.Errorf("Expected exactly one armed timer, but got %d", len(sched.pending))
	}
}

func TestStartQuizStoreError(t *testing.T) {
	sched := newManualScheduler()
	source := &fakeSource{byTopic: map[string][]domain.Question{"Maths": mathsQuestions()}}
	c := NewController(source, sched, Options{})
	ctx := context.Background()

	if err := c.StartQuiz(ctx, "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	before := c.State()

	source.err = errors.New("database is locked")
	if err := c.StartQuiz(ctx, "Science"); !errors.Is(err, source.err) {
		t.Fatalf("Expected the store error, but got %v", err)
	}

	after := c.State()
	if after.SessionID != before.SessionID || after.Topic != "Maths" || after.Current.Prompt != before.Current.Prompt {
		t.Errorf("Expected the running session to be untouched, before %+v after %+v", before, after)
	}
	if len(sched.pending) != 1 {
		t.Errorf("Expected the running timer to stay armed, but got %d", len(sched.pending))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newTestController(23, newManualScheduler())
	if err := c.StartQuiz(context.Background(), "Maths"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}

	snap := c.State()
	original := snap.Current.Answer
	snap.Current.Answer = "tampered"

	if got := c.State().Current.Answer; got != original {
		t.Errorf("Expected controller state to be unaffected, but answer is '%s'", got)
	}
}

func TestStartQuizDoesNotMutateSource(t *testing.T) {
	questions := numberedQuestions(4)
	source := &fakeSource{byTopic: map[string][]domain.Question{"Numbers": questions}}
	c := NewController(source, newManualScheduler(), Options{Rand: rand.New(rand.NewPCG(1, 2))})

	if err := c.StartQuiz(context.Background(), "Numbers"); err != nil {
		t.Fatalf("StartQuiz() returned an unexpected error: %v", err)
	}
	for c.State().State == Asking {
		c.SubmitAnswer("x")
	}

	for i, q := range questions {
		if q.Prompt != fmt.Sprintf("Question %d?", i) {
			t.Errorf("Expected source slice to be untouched, but index %d is '%s'", i, q.Prompt)
		}
	}
}

func TestStateString(t *testing.T) {
	testCases := map[State]string{
		TopicSelection: "topic_selection",
		Asking:         "asking",
		Finished:       "finished",
		State(42):      "unknown",
	}
	for state, want := range testCases {
		if got := state.String(); got != want {
			t.Errorf("Expected '%s', but got '%s'", want, got)
		}
	}
}
