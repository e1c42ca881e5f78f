package preview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval is the wall-clock period between frames
const tickInterval = 100 * time.Millisecond

// tickCmd creates a command that ticks every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
