package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/flashquiz/internal/quiz"
)

// timerMsg fires a callback registered with the Scheduler.
type timerMsg struct {
	id uint64
}

// Scheduler delivers quiz timers through the Bubble Tea event loop, so
// callbacks run on the same goroutine as Update. Schedule only records the
// callback; the tea.Cmd that waits for it is handed out by Flush.
type Scheduler struct {
	next    uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[uint64]func())}
}

// Schedule implements quiz.Scheduler.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) quiz.Cancel {
	s.next++
	id := s.next
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return func() { delete(s.pending, id) }
}

// Flush returns the commands for timers scheduled since the last call.
func (s *Scheduler) Flush() tea.Cmd {
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

// Fire runs the callback for id if it is still pending. It reports whether
// a callback ran.
func (s *Scheduler) Fire(id uint64) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

// Pending returns the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}
