package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/quiz"
)

type screen int

const (
	screenSignup screen = iota
	screenHome
	screenQuestion
	screenResults
)

const (
	nameInput = iota
	emailInput
)

// Registrar records the user at sign up.
type Registrar interface {
	RegisterUser(ctx context.Context, name, email string) (domain.User, error)
}

// Options wires the model to the rest of the application.
type Options struct {
	Registrar  Registrar
	Controller *quiz.Controller
	Scheduler  *Scheduler
	Topics     []string
	NoColor    bool
}

// Model is the Bubble Tea model for the quiz.
type Model struct {
	ctx        context.Context
	registrar  Registrar
	controller *quiz.Controller
	scheduler  *Scheduler
	styles     styles

	screen screen
	inputs []textinput.Model
	focus  int
	user   domain.User

	topics      []string
	topicCursor int

	// asked is the draw counter of the question on screen, used to notice
	// when the controller moved on.
	asked    int
	cursor   int
	selected string
	notice   string
	feedback string
}

// NewModel returns a model on the sign up screen.
func NewModel(ctx context.Context, opts Options) Model {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 128
	name.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 256

	return Model{
		ctx:        ctx,
		registrar:  opts.Registrar,
		controller: opts.Controller,
		scheduler:  opts.Scheduler,
		styles:     newStyles(opts.NoColor),
		screen:     screenSignup,
		inputs:     []textinput.Model{name, email},
		topics:     opts.Topics,
	}
}

// Init starts the cursor blink on the sign up form.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and quiz timers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			m.controller.Home()
			return m, tea.Quit
		}
		switch m.screen {
		case screenSignup:
			m, cmd = m.updateSignup(typed)
		case screenHome:
			m, cmd = m.updateHome(typed)
		case screenQuestion:
			m = m.updateQuestion(typed)
		case screenResults:
			m, cmd = m.updateResults(typed)
		}
	case timerMsg:
		before := m.controller.State()
		if m.scheduler.Fire(typed.id) {
			after := m.controller.State()
			if after.State != before.State || after.Asked != before.Asked {
				m.feedback = "Time's up!"
			}
			m = m.sync()
		}
	}
	return m, tea.Batch(cmd, m.scheduler.Flush())
}

func (m Model) updateSignup(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		return m.focusInput((m.focus + 1) % len(m.inputs)), nil
	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusInput((m.focus + len(m.inputs) - 1) % len(m.inputs)), nil
	case tea.KeyEnter:
		if m.focus == nameInput {
			return m.focusInput(emailInput), nil
		}
		return m.submitSignup(), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusInput(i int) Model {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) submitSignup() Model {
	user, err := m.registrar.RegisterUser(m.ctx, m.inputs[nameInput].Value(), m.inputs[emailInput].Value())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			m.notice = "Please fill out all fields!"
		} else {
			slog.Error("Sign up failed", "error", err)
			m.notice = fmt.Sprintf("Could not save your details: %v", err)
		}
		return m
	}
	m.user = user
	m.notice = ""
	m.screen = screenHome
	return m
}

func (m Model) updateHome(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit
	case "up", "k":
		if m.topicCursor > 0 {
			m.topicCursor--
		}
	case "down", "j":
		if m.topicCursor < len(m.topics)-1 {
			m.topicCursor++
		}
	case "enter":
		if len(m.topics) == 0 {
			return m, nil
		}
		topic := m.topics[m.topicCursor]
		if err := m.controller.StartQuiz(m.ctx, topic); err != nil {
			slog.Error("Failed to start quiz", "topic", topic, "error", err)
			m.notice = fmt.Sprintf("Could not load questions for %s.", topic)
			return m, nil
		}
		m.notice = ""
		m.feedback = ""
		return m.sync(), nil
	}
	return m, nil
}

func (m Model) updateQuestion(msg tea.KeyMsg) Model {
	snap := m.controller.State()
	if snap.Current == nil {
		return m.sync()
	}
	options := snap.Current.Options

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case " ", "x":
		m.selected = options[m.cursor]
		m.notice = ""
	case "1", "2", "3", "4":
		m.cursor = int(msg.Runes[0] - '1')
		m.selected = options[m.cursor]
		m.notice = ""
	case "enter":
		result, err := m.controller.SubmitAnswer(m.selected)
		if errors.Is(err, quiz.ErrNoSelection) {
			m.notice = "Please select an option before proceeding."
			return m
		}
		if err != nil {
			return m.sync()
		}
		if result.Correct {
			m.feedback = "Correct!"
		} else {
			m.feedback = fmt.Sprintf("Wrong! The answer was %s.", result.Answer)
		}
		return m.sync()
	case "esc":
		m.controller.Home()
		return m.sync()
	}
	return m
}

func (m Model) updateResults(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "h":
		m.controller.Home()
		m.feedback = ""
		return m.sync(), nil
	case "esc", "q":
		return m, tea.Quit
	}
	return m, nil
}

// sync moves to the screen matching the controller state and clears the
// selection when a new question has been drawn.
func (m Model) sync() Model {
	snap := m.controller.State()
	switch snap.State {
	case quiz.Asking:
		m.screen = screenQuestion
		if snap.Asked != m.asked {
			m.asked = snap.Asked
			m.cursor = 0
			m.selected = ""
			m.notice = ""
		}
	case quiz.Finished:
		m.screen = screenResults
		m.asked = 0
	default:
		if m.screen != screenSignup {
			m.screen = screenHome
		}
		m.asked = 0
	}
	return m
}
