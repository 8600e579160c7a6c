package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentwatch/agentwatch/pkg/activity"
)

// frameMsg is sent after every processed event frame so the view re-renders.
type frameMsg struct{}

// streamDoneMsg is sent when the input stream is exhausted.
type streamDoneMsg struct{}

type model struct {
	tracker *activity.Tracker
	keyMap  KeyMap
	style   *Style

	scroll int
	done   bool
	width  int
	height int
}

func initialModel(tracker *activity.Tracker) model {
	return model{
		tracker: tracker,
		keyMap:  DefaultKeyMap,
		style:   DefaultStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.ScrollUp):
			if m.scroll > 0 {
				m.scroll--
			}
		case key.Matches(msg, m.keyMap.ScrollDown):
			m.scroll++
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		// state lives in the tracker; receiving the message is enough

	case streamDoneMsg:
		m.done = true
	}

	return m, nil
}

func (m model) View() string {
	phase := m.tracker.Phase()

	var header string
	switch phase {
	case activity.PhaseSleeping:
		header = m.style.Sleeping.Render("● sleeping")
	case activity.PhaseThinking:
		header = m.style.Thinking.Render("● thinking")
	case activity.PhaseLeaving:
		header = m.style.Leaving.Render("● leaving")
	}
	header = m.style.Header.Render("agentwatch") + header

	lines := activity.Lines(m.tracker.Turns())
	if m.scroll > len(lines) {
		m.scroll = len(lines)
	}
	visible := lines[m.scroll:]
	if m.height > 4 && len(visible) > m.height-4 {
		visible = visible[:m.height-4]
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, line := range visible {
		b.WriteString(m.style.Line.Render(line))
		b.WriteString("\n")
	}

	footer := "q: quit  ↑/↓: scroll"
	if m.done {
		footer = "stream ended  " + footer
	}
	b.WriteString("\n")
	b.WriteString(m.style.Footer.Render(footer))

	return b.String()
}
