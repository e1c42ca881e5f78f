package preview

import (
	"fmt"
	"math"
	"strings"

	"timervid/palette"
	"timervid/timeline"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("⏱️  timervid preview"))
	b.WriteString("\n")

	plan, ok := m.Current()
	if !ok {
		b.WriteString(InfoStyle.Render(TextNoPlans))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("[%d/%d] %s", m.Index+1, len(m.Plans), plan.Name)
	if plan.Category != "" {
		header += "  (" + plan.Category + ")"
	}
	b.WriteString(HighlightStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(plan.Summary()))
	b.WriteString("\n\n")

	b.WriteString(m.renderBlock(plan))
	b.WriteString("\n\n")

	remaining := math.Max(plan.Total-m.Elapsed, 0)
	b.WriteString(StatusStyle.Render(fmt.Sprintf("%s  %s / %s  remaining %s  (x%g)",
		progressBar(m.Elapsed, plan.Total, 30),
		timeline.FormatClock(int(m.Elapsed)),
		timeline.FormatClock(int(math.Ceil(plan.Total))),
		timeline.FormatClock(int(math.Ceil(remaining))),
		m.Speed)))
	b.WriteString("\n")

	if m.Flash != nil {
		b.WriteString(AlarmStyle.Render(fmt.Sprintf("%s %s", cueIcon(m.Flash.Kind), strings.ToUpper(string(m.Flash.Kind)))))
	}
	b.WriteString("\n\n")

	if len(m.Logs) > 0 {
		var logs strings.Builder
		for i, line := range m.Logs {
			if i > 0 {
				logs.WriteString("\n")
			}
			logs.WriteString(line)
		}
		b.WriteString(BoxStyle.Render(logs.String()))
		b.WriteString("\n")
	}

	switch {
	case m.Finished:
		b.WriteString(HighlightStyle.Render(TextFinished))
	case m.Paused:
		b.WriteString(InfoStyle.Render(TextFooterPaused))
	default:
		b.WriteString(InfoStyle.Render(TextFooter))
	}
	return b.String()
}

// renderBlock draws the active segment with its label or clock
func (m Model) renderBlock(plan timeline.Plan) string {
	seg, ok := plan.SegmentAt(m.Elapsed)
	if !ok {
		// past the end: keep showing the last segment
		if len(plan.Segments) == 0 {
			return ""
		}
		seg = plan.Segments[len(plan.Segments)-1]
	}

	text := SegmentText(seg, m.Elapsed)
	if seg.Title != "" {
		text = seg.Title + "\n\n" + text
	}
	return blockStyle(seg.Color.CSS(), palette.Lookup(seg.TextColor).CSS()).Render(text)
}

// SegmentText is what the video shows for seg at plan time t: the clock for
// countdown segments, otherwise the label with its remaining seconds
func SegmentText(seg timeline.Segment, t float64) string {
	if seg.Kind == timeline.KindCountdown {
		left := seg.CountFrom - int(math.Floor(t-seg.Start))
		return timeline.FormatClock(max(left, 0))
	}
	if seg.Kind == timeline.KindFinal {
		return seg.Label
	}
	left := int(math.Ceil(seg.End() - t))
	return fmt.Sprintf("%s\n%ds", seg.Label, max(left, 0))
}

func progressBar(elapsed, total float64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(elapsed / total * float64(width)))
	}
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
