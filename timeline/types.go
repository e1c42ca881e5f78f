package timeline

import (
	"fmt"
	"strings"

	"timervid/palette"
)

// SegmentKind tells the renderer how to draw a segment
type SegmentKind string

const (
	KindPrepare   SegmentKind = "prepare"
	KindInterval  SegmentKind = "interval"
	KindCountdown SegmentKind = "countdown"
	KindFinal     SegmentKind = "final"
)

// Segment is an interval instance placed at an absolute start time
type Segment struct {
	Start     float64     `json:"start"`
	Duration  float64     `json:"duration"`
	Label     string      `json:"label"`
	ColorName string      `json:"color_name"`
	Color     palette.RGB `json:"color"`
	TextColor string      `json:"text_color"`
	Kind      SegmentKind `json:"kind"`
	Truncated bool        `json:"truncated,omitempty"`

	// Countdown segments show a clock running from CountFrom down to zero.
	CountFrom int `json:"count_from,omitempty"`
	// Title is drawn above the label or clock when set.
	Title string `json:"title,omitempty"`
}

// End is the absolute end offset of the segment
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// CueKind selects the audio asset of a cue
type CueKind string

const (
	CueBeep  CueKind = "beep"
	CueAlarm CueKind = "alarm"
)

// Cue is an audio event at an absolute offset
type Cue struct {
	At   float64 `json:"at"`
	Kind CueKind `json:"kind"`
}

// Plan is the full render plan for one video
type Plan struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Total    float64   `json:"total"`
	Segments []Segment `json:"segments"`
	Cues     []Cue     `json:"cues"`
}

// Empty reports whether the plan has nothing to render
func (p Plan) Empty() bool {
	return len(p.Segments) == 0
}

// Covered sums segment durations
func (p Plan) Covered() float64 {
	var sum float64
	for _, s := range p.Segments {
		sum += s.Duration
	}
	return sum
}

// SegmentAt returns the segment active at offset t
func (p Plan) SegmentAt(t float64) (Segment, bool) {
	for _, s := range p.Segments {
		if t >= s.Start && t < s.End() {
			return s, true
		}
	}
	return Segment{}, false
}

// CuesBetween returns cues with from < At <= to
func (p Plan) CuesBetween(from, to float64) []Cue {
	var out []Cue
	for _, c := range p.Cues {
		if c.At > from && c.At <= to {
			out = append(out, c)
		}
	}
	return out
}

// Summary describes the plan in one line, e.g. "PREPARE 10s, WORK 20s, REST 10s (17 segments, 04:10)"
func (p Plan) Summary() string {
	seen := make(map[string]bool)
	var parts []string
	for _, s := range p.Segments {
		if s.Kind == KindCountdown || s.Kind == KindFinal {
			continue
		}
		key := fmt.Sprintf("%s %s", s.Label, trimFloat(s.Duration))
		if s.Truncated || seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, key+"s")
	}
	clock := FormatClock(int(p.Total))
	if len(parts) == 0 {
		return fmt.Sprintf("%s countdown", clock)
	}
	return fmt.Sprintf("%s (%d segments, %s)", strings.Join(parts, ", "), len(p.Segments), clock)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
