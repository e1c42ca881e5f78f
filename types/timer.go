package types

import (
	"strings"
)

// Interval is a named, colored, fixed-duration phase of a timer
type Interval struct {
	Name    string  `json:"name" yaml:"name"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
	Color   string  `json:"color" yaml:"color"`
}

// IntervalTimer describes one interval video (workout, tabata, ...)
type IntervalTimer struct {
	Name           string     `json:"name" yaml:"name"`
	Category       string     `json:"category,omitempty" yaml:"category,omitempty"`
	TotalSeconds   float64    `json:"total_video_length" yaml:"total_video_length"`
	PrepareSeconds float64    `json:"prepare_duration" yaml:"prepare_duration"`
	NoPrepare      bool       `json:"no_prepare,omitempty" yaml:"no_prepare,omitempty"`
	PrepareText    string     `json:"prepare_text,omitempty" yaml:"prepare_text,omitempty"`
	Repeat         int        `json:"intervals_repeat" yaml:"intervals_repeat"`
	Intervals      []Interval `json:"interval_list" yaml:"interval_list"`
}

// CycleSeconds is the summed duration of one pass over the intervals
func (t IntervalTimer) CycleSeconds() float64 {
	var sum float64
	for _, iv := range t.Intervals {
		if iv.Seconds > 0 {
			sum += iv.Seconds
		}
	}
	return sum
}

// CountdownTimer describes one plain countdown video (cooking, sleep, ...)
type CountdownTimer struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Minutes  int    `json:"minutes" yaml:"minutes"`
	Seconds  int    `json:"seconds" yaml:"seconds"`
}

// TotalSeconds is the countdown length
func (t CountdownTimer) TotalSeconds() int {
	return t.Minutes*60 + t.Seconds
}

// Category is a named bucket of timers, used for output layout only
type Category struct {
	Name       string           `json:"name" yaml:"name"`
	Countdowns []CountdownTimer `json:"countdowns,omitempty" yaml:"countdowns,omitempty"`
	Intervals  []IntervalTimer  `json:"intervals,omitempty" yaml:"intervals,omitempty"`
}

// Len is the number of timers in the category
func (c Category) Len() int {
	return len(c.Countdowns) + len(c.Intervals)
}

// NormalizeCategory turns "Food Timers" into "food_timers"
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}
