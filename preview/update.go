package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"timervid/timeline"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "p":
		if !m.Finished {
			m.Paused = !m.Paused
		}
	case "r":
		m = m.restart()
	case "n", "right":
		if m.Index < len(m.Plans)-1 {
			m.Index++
			m = m.restart()
		}
	case "b", "left":
		if m.Index > 0 {
			m.Index--
			m = m.restart()
		}
	case "+", "=":
		m.Speed = min(m.Speed*2, maxSpeed)
	case "-":
		m.Speed = max(m.Speed/2, minSpeed)
	}
	return m, nil
}

// handleTick advances plan time by one scaled tick and fires crossed cues
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	plan, ok := m.Current()
	if !ok || m.Paused || m.Finished {
		return m, tickCmd()
	}

	prev := m.Elapsed
	m.Elapsed = min(prev+tickInterval.Seconds()*m.Speed, plan.Total)

	for _, cue := range plan.CuesBetween(prev, m.Elapsed) {
		c := cue
		m.Flash = &c
		m.FlashUntil = cue.At + flashTime
		m = m.AddLog(fmt.Sprintf("%s %s at %s", cueIcon(cue.Kind), strings.ToUpper(string(cue.Kind)), clockAt(cue.At)))
	}
	if m.Flash != nil && m.Elapsed > m.FlashUntil {
		m.Flash = nil
	}

	if m.Elapsed >= plan.Total {
		m.Finished = true
		m = m.AddLog(fmt.Sprintf("✅ %s finished", plan.Name))
	}
	return m, tickCmd()
}

func (m Model) restart() Model {
	m.Elapsed = 0
	m.Paused = false
	m.Finished = false
	m.Flash = nil
	m.FlashUntil = 0
	return m
}

func cueIcon(kind timeline.CueKind) string {
	if kind == timeline.CueAlarm {
		return "⏰"
	}
	return "🔔"
}

func clockAt(t float64) string {
	return fmt.Sprintf("%s.%d", timeline.FormatClock(int(t)), int(t*10)%10)
}
