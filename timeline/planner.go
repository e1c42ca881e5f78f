package timeline

import (
	"strings"

	"timervid/config"
	"timervid/palette"
	"timervid/types"
)

// CountdownBackground is the dark grey behind countdown clocks
var CountdownBackground = palette.RGB{R: 18, G: 18, B: 18}

// Options tunes planning. DefaultOptions mirrors the config constants.
type Options struct {
	PrepareText        string
	PrepareColor       string
	FinalText          string
	FinalTextColor     string
	FinalScreenSeconds float64
	AlarmCount         int
	AlarmLead          float64
	AlarmSpacing       float64
}

// DefaultOptions returns the stock planning options
func DefaultOptions() Options {
	return Options{
		PrepareText:        config.PrepareText,
		PrepareColor:       config.PrepareColor,
		FinalText:          config.FinalText,
		FinalTextColor:     config.FinalTextColor,
		FinalScreenSeconds: config.FinalScreenSeconds,
		AlarmCount:         config.AlarmCount,
		AlarmLead:          config.AlarmLead,
		AlarmSpacing:       config.AlarmSpacing,
	}
}

// PlanIntervals lays out an interval timer over [0, TotalSeconds).
// A timer with no positive interval or no repeat yields an empty plan.
//
// An optional prepare segment comes first. The intervals then cycle in
// order until either the remaining window is used up or Repeat cycles have
// run; the segment that reaches the end of the window is truncated. A beep
// marks the end of every complete segment except the last, and the alarms
// sit just before the end of the timeline.
func PlanIntervals(t types.IntervalTimer, opts Options) Plan {
	plan := Plan{
		Name:     t.Name,
		Category: t.Category,
		Segments: []Segment{},
		Cues:     []Cue{},
	}
	total := t.TotalSeconds
	if total <= 0 || t.Repeat < 1 || t.CycleSeconds() <= 0 {
		return plan
	}

	var elapsed float64
	if !t.NoPrepare && t.PrepareSeconds > 0 {
		text := t.PrepareText
		if text == "" {
			text = opts.PrepareText
		}
		dur := min(t.PrepareSeconds, total)
		plan.Segments = append(plan.Segments, Segment{
			Start:     0,
			Duration:  dur,
			Label:     strings.ToUpper(text),
			ColorName: opts.PrepareColor,
			Color:     palette.Lookup(opts.PrepareColor),
			TextColor: "black",
			Kind:      KindPrepare,
			Truncated: dur < t.PrepareSeconds,
		})
		elapsed = dur
	}

	for cycle := 0; elapsed < total && cycle < t.Repeat; cycle++ {
		for _, iv := range t.Intervals {
			if elapsed >= total {
				break
			}
			if iv.Seconds <= 0 {
				continue
			}
			dur := min(iv.Seconds, total-elapsed)
			plan.Segments = append(plan.Segments, Segment{
				Start:     elapsed,
				Duration:  dur,
				Label:     strings.ToUpper(strings.TrimSpace(iv.Name)),
				ColorName: iv.Color,
				Color:     palette.Lookup(iv.Color),
				TextColor: "white",
				Kind:      KindInterval,
				Truncated: dur < iv.Seconds,
			})
			elapsed += dur
		}
	}

	plan.Total = elapsed
	plan.Cues = append(plan.Cues, beeps(plan.Segments, elapsed)...)
	plan.Cues = append(plan.Cues, alarms(elapsed, opts)...)
	return plan
}

func beeps(segments []Segment, end float64) []Cue {
	var cues []Cue
	for _, s := range segments {
		if s.Truncated || s.End() >= end {
			continue
		}
		cues = append(cues, Cue{At: s.End(), Kind: CueBeep})
	}
	return cues
}

func alarms(end float64, opts Options) []Cue {
	cues := make([]Cue, 0, opts.AlarmCount)
	for i := 0; i < opts.AlarmCount; i++ {
		at := end - opts.AlarmLead + float64(i)*opts.AlarmSpacing
		at = max(0, min(at, end))
		cues = append(cues, Cue{At: at, Kind: CueAlarm})
	}
	return cues
}

// PlanCountdown lays out a plain countdown: a clock from total down to zero,
// one second per value, followed by the completion screen. The alarm fires
// when the clock reaches zero.
func PlanCountdown(t types.CountdownTimer, opts Options) Plan {
	plan := Plan{
		Name:     t.Name,
		Category: t.Category,
		Segments: []Segment{},
		Cues:     []Cue{},
	}
	total := t.TotalSeconds()
	if total < 0 {
		return plan
	}

	clock := float64(total + 1)
	plan.Segments = append(plan.Segments,
		Segment{
			Start:     0,
			Duration:  clock,
			Label:     FormatClock(total),
			ColorName: "background",
			Color:     CountdownBackground,
			TextColor: "white",
			Kind:      KindCountdown,
			CountFrom: total,
			Title:     t.Name,
		},
		Segment{
			Start:     clock,
			Duration:  opts.FinalScreenSeconds,
			Label:     opts.FinalText,
			ColorName: "background",
			Color:     CountdownBackground,
			TextColor: opts.FinalTextColor,
			Kind:      KindFinal,
			Title:     t.Name,
		},
	)
	plan.Total = clock + opts.FinalScreenSeconds
	plan.Cues = append(plan.Cues, Cue{At: float64(total), Kind: CueAlarm})
	return plan
}
