package preview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"timervid/timeline"
	"timervid/types"
)

const (
	maxLogs   = 6
	flashTime = 0.6 // seconds of plan time a cue stays highlighted
	minSpeed  = 0.25
	maxSpeed  = 64
)

// Model plays a list of plans in (scaled) real time
type Model struct {
	Plans []timeline.Plan
	Index int

	// Elapsed is plan time in seconds
	Elapsed  float64
	Speed    float64
	Paused   bool
	Finished bool

	// Flash is the most recent cue, shown until FlashUntil
	Flash      *timeline.Cue
	FlashUntil float64

	Logs []string
}

// NewModel creates a preview starting at the first plan
func NewModel(plans []timeline.Plan, speed float64) Model {
	if speed <= 0 {
		speed = 1
	}
	return Model{
		Plans: plans,
		Speed: speed,
		Logs:  make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Current returns the plan being played
func (m Model) Current() (timeline.Plan, bool) {
	if m.Index < 0 || m.Index >= len(m.Plans) {
		return timeline.Plan{}, false
	}
	return m.Plans[m.Index], true
}

// AddLog appends to the activity log, keeping the last few lines
func (m Model) AddLog(line string) Model {
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}

// PlansFromCategories plans every timer whose name contains filter
// (case-insensitive; empty matches all)
func PlansFromCategories(cats []types.Category, opts timeline.Options, filter string) []timeline.Plan {
	filter = strings.ToLower(strings.TrimSpace(filter))
	match := func(name string) bool {
		return filter == "" || strings.Contains(strings.ToLower(name), filter)
	}

	var plans []timeline.Plan
	for _, cat := range cats {
		for _, t := range cat.Countdowns {
			if match(t.Name) {
				plans = append(plans, timeline.PlanCountdown(t, opts))
			}
		}
		for _, t := range cat.Intervals {
			if !match(t.Name) {
				continue
			}
			if p := timeline.PlanIntervals(t, opts); !p.Empty() {
				plans = append(plans, p)
			}
		}
	}
	return plans
}
