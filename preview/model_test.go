package preview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"timervid/timeline"
	"timervid/types"
)

func workout() timeline.Plan {
	return timeline.PlanIntervals(types.IntervalTimer{
		Name:           "HIIT",
		TotalSeconds:   130,
		PrepareSeconds: 10,
		Repeat:         2,
		Intervals: []types.Interval{
			{Name: "go", Seconds: 30, Color: "green"},
			{Name: "no", Seconds: 30, Color: "red"},
		},
	}, timeline.DefaultOptions())
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestTickAdvancesAndFiresCues(t *testing.T) {
	// 1s of plan time per tick
	m := NewModel([]timeline.Plan{workout()}, 10)

	for i := 0; i < 10; i++ {
		m = step(t, m, TickMsg{})
	}
	if m.Elapsed != 10 {
		t.Fatalf("Elapsed = %v; want 10", m.Elapsed)
	}
	if len(m.Logs) != 1 || !strings.Contains(m.Logs[0], "BEEP") {
		t.Fatalf("logs = %v; want one beep", m.Logs)
	}
	if m.Flash == nil || m.Flash.Kind != timeline.CueBeep {
		t.Fatalf("flash = %+v", m.Flash)
	}
	m = step(t, m, TickMsg{})
	if m.Flash != nil {
		t.Fatalf("flash still shown at %v", m.Elapsed)
	}

	for i := 0; i < 200 && !m.Finished; i++ {
		m = step(t, m, TickMsg{})
	}
	if !m.Finished || m.Elapsed != 130 {
		t.Fatalf("finished = %v at %v", m.Finished, m.Elapsed)
	}

	alarms := 0
	for _, line := range m.Logs {
		if strings.Contains(line, "ALARM") {
			alarms++
		}
	}
	if alarms != 3 {
		t.Fatalf("alarms logged = %d; want 3 (logs %v)", alarms, m.Logs)
	}

	before := m.Elapsed
	m = step(t, m, TickMsg{})
	if m.Elapsed != before {
		t.Fatalf("finished plan kept advancing")
	}
}

func TestKeys(t *testing.T) {
	countdown := timeline.PlanCountdown(types.CountdownTimer{Name: "Tea", Minutes: 3}, timeline.DefaultOptions())
	m := NewModel([]timeline.Plan{workout(), countdown}, 1)

	m = step(t, m, key(" "))
	if !m.Paused {
		t.Fatalf("space should pause")
	}
	m = step(t, m, TickMsg{})
	if m.Elapsed != 0 {
		t.Fatalf("paused model advanced to %v", m.Elapsed)
	}
	m = step(t, m, key("p"))
	if m.Paused {
		t.Fatalf("p should resume")
	}

	m = step(t, m, key("+"))
	m = step(t, m, key("+"))
	if m.Speed != 4 {
		t.Fatalf("speed = %v; want 4", m.Speed)
	}
	for i := 0; i < 10; i++ {
		m = step(t, m, key("-"))
	}
	if m.Speed != minSpeed {
		t.Fatalf("speed = %v; want clamp at %v", m.Speed, minSpeed)
	}

	m = step(t, m, TickMsg{})
	m = step(t, m, key("n"))
	if m.Index != 1 || m.Elapsed != 0 {
		t.Fatalf("next = index %d elapsed %v", m.Index, m.Elapsed)
	}
	m = step(t, m, key("n"))
	if m.Index != 1 {
		t.Fatalf("next past the end moved to %d", m.Index)
	}
	m = step(t, m, key("b"))
	if m.Index != 0 {
		t.Fatalf("back = %d", m.Index)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Fatalf("q should return tea.Quit")
	}
}

func TestSegmentText(t *testing.T) {
	countdown := timeline.PlanCountdown(types.CountdownTimer{Name: "Tea", Minutes: 1, Seconds: 30}, timeline.DefaultOptions())
	clock := countdown.Segments[0]

	cases := []struct {
		name string
		seg  timeline.Segment
		at   float64
		want string
	}{
		{"countdown start", clock, 0, "01:30"},
		{"countdown mid-second", clock, 30.5, "01:00"},
		{"countdown zero", clock, 90.2, "00:00"},
		{"final", countdown.Segments[1], 92, "Timer Complete!"},
		{"interval", workout().Segments[1], 25, "GO\n15s"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SegmentText(c.seg, c.at); got != c.want {
				t.Fatalf("SegmentText = %q; want %q", got, c.want)
			}
		})
	}
}

func TestView(t *testing.T) {
	m := NewModel([]timeline.Plan{workout()}, 1)
	out := m.View()
	for _, want := range []string{"HIIT", "PREPARE", "[1/1]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	empty := NewModel(nil, 1).View()
	if !strings.Contains(empty, TextNoPlans) {
		t.Fatalf("empty view = %q", empty)
	}
}

func TestPlansFromCategories(t *testing.T) {
	cats := []types.Category{{
		Name:       "food_timers",
		Countdowns: []types.CountdownTimer{{Name: "Pasta", Minutes: 10}, {Name: "Rice", Minutes: 15}},
		Intervals:  []types.IntervalTimer{{Name: "Empty", TotalSeconds: 60, Repeat: 1}},
	}}

	if got := PlansFromCategories(cats, timeline.DefaultOptions(), ""); len(got) != 2 {
		t.Fatalf("all plans = %d; want 2 (empty interval timer dropped)", len(got))
	}
	got := PlansFromCategories(cats, timeline.DefaultOptions(), "RICE")
	if len(got) != 1 || got[0].Name != "Rice" {
		t.Fatalf("filtered plans = %+v", got)
	}
}
