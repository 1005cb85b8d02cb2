package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	notice   lipgloss.Style
	feedback lipgloss.Style
	help     lipgloss.Style
	frame    lipgloss.Style
}

func newStyles(noColor bool) styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		label:    lipgloss.NewStyle(),
		cursor:   lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true),
		notice:   lipgloss.NewStyle().Bold(true),
		feedback: lipgloss.NewStyle().Italic(true),
		help:     lipgloss.NewStyle().Faint(true),
		frame:    lipgloss.NewStyle().Padding(1, 2),
	}
	if noColor {
		return s
	}
	s.title = s.title.Foreground(lipgloss.Color("#FFFFFF"))
	s.label = s.label.Foreground(lipgloss.Color("252"))
	s.cursor = s.cursor.Foreground(lipgloss.Color("#4CAF50"))
	s.selected = s.selected.Foreground(lipgloss.Color("#4CAF50"))
	s.notice = s.notice.Foreground(lipgloss.Color("203"))
	s.feedback = s.feedback.Foreground(lipgloss.Color("#FF9800"))
	s.help = s.help.Foreground(lipgloss.Color("241"))
	s.frame = s.frame.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3A3A3A"))
	return s
}

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenSignup:
		body = m.viewSignup()
	case screenHome:
		body = m.viewHome()
	case screenQuestion:
		body = m.viewQuestion()
	case screenResults:
		body = m.viewResults()
	}
	return m.styles.frame.Render(body) + "\n"
}

func (m Model) viewSignup() string {
	lines := []string{
		m.styles.title.Render("Sign Up"),
		"",
		m.styles.label.Render("Enter your name:"),
		m.inputs[nameInput].View(),
		"",
		m.styles.label.Render("Enter your email:"),
		m.inputs[emailInput].View(),
	}
	lines = m.appendNotice(lines)
	lines = append(lines, "", m.styles.help.Render("tab: next field • enter: submit • esc: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewHome() string {
	lines := []string{
		m.styles.title.Render(fmt.Sprintf("Welcome, %s!", m.user.Name)),
		"",
		m.styles.label.Render("Choose a Field:"),
	}
	if len(m.topics) == 0 {
		lines = append(lines, m.styles.help.Render("No topics configured."))
	}
	for i, topic := range m.topics {
		if i == m.topicCursor {
			lines = append(lines, m.styles.cursor.Render("> "+topic))
		} else {
			lines = append(lines, "  "+topic)
		}
	}
	lines = m.appendNotice(lines)
	lines = append(lines, "", m.styles.help.Render("↑/↓: choose • enter: start • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewQuestion() string {
	snap := m.controller.State()
	if snap.Current == nil {
		return ""
	}

	lines := []string{
		m.styles.title.Render(fmt.Sprintf("Field: %s", snap.Topic)),
		m.styles.label.Render(fmt.Sprintf("Score: %d", snap.Score)),
		m.styles.help.Render(fmt.Sprintf("Question %d of %d", snap.Asked, snap.Total)),
		"",
		snap.Current.Prompt,
		"",
	}
	for i, option := range snap.Current.Options {
		mark := "( )"
		if option == m.selected {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, option)
		switch {
		case i == m.cursor:
			lines = append(lines, m.styles.cursor.Render("> "+line))
		case option == m.selected:
			lines = append(lines, m.styles.selected.Render("  "+line))
		default:
			lines = append(lines, "  "+line)
		}
	}
	lines = append(lines, "", m.styles.label.Render(fmt.Sprintf("Time Left: %ds", snap.TimeRemaining)))
	if m.feedback != "" {
		lines = append(lines, m.styles.feedback.Render(m.feedback))
	}
	lines = m.appendNotice(lines)
	lines = append(lines, "", m.styles.help.Render("↑/↓: move • space or 1-4: select • enter: submit answer • esc: home"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewResults() string {
	snap := m.controller.State()
	lines := []string{
		m.styles.title.Render("Quiz Complete!"),
		"",
		m.styles.label.Render(fmt.Sprintf("Your Final Score: %d", snap.Score)),
	}
	if m.feedback != "" {
		lines = append(lines, m.styles.feedback.Render(m.feedback))
	}
	lines = append(lines, "", m.styles.help.Render("enter: back to home • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) appendNotice(lines []string) []string {
	if m.notice == "" {
		return lines
	}
	return append(lines, "", m.styles.notice.Render(strings.TrimSpace(m.notice)))
}
