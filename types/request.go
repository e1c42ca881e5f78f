package types

import (
	"errors"
	"fmt"
)

// TimerKind selects which timer payload a request carries
type TimerKind string

const (
	KindInterval  TimerKind = "interval"
	KindCountdown TimerKind = "countdown"
)

// RenderRequest is the payload accepted by the API and the Kafka consumer
type RenderRequest struct {
	ID        string          `json:"id,omitempty"`
	Kind      TimerKind       `json:"kind"`
	Interval  *IntervalTimer  `json:"interval,omitempty"`
	Countdown *CountdownTimer `json:"countdown,omitempty"`
	Publish   bool            `json:"publish,omitempty"`
}

// Validate checks the request shape. It does not check colors; unknown
// colors fall back to black at planning time.
func (r *RenderRequest) Validate() error {
	switch r.Kind {
	case KindInterval:
		t := r.Interval
		if t == nil {
			return errors.New("interval payload is required")
		}
		if t.Name == "" {
			return errors.New("name is required")
		}
		if t.TotalSeconds <= 0 {
			return fmt.Errorf("total_video_length must be positive, got %v", t.TotalSeconds)
		}
		if t.PrepareSeconds < 0 {
			return fmt.Errorf("prepare_duration must not be negative, got %v", t.PrepareSeconds)
		}
		if t.Repeat < 1 {
			return fmt.Errorf("intervals_repeat must be at least 1, got %d", t.Repeat)
		}
		return nil
	case KindCountdown:
		t := r.Countdown
		if t == nil {
			return errors.New("countdown payload is required")
		}
		if t.Name == "" {
			return errors.New("name is required")
		}
		if t.Minutes < 0 || t.Seconds < 0 || t.TotalSeconds() <= 0 {
			return fmt.Errorf("countdown must be positive, got %dm%ds", t.Minutes, t.Seconds)
		}
		return nil
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
}

// Name returns the timer name of whichever payload is set
func (r *RenderRequest) Name() string {
	switch {
	case r.Interval != nil:
		return r.Interval.Name
	case r.Countdown != nil:
		return r.Countdown.Name
	}
	return ""
}

// RenderStatus is the outcome of one render
type RenderStatus string

const (
	StatusRendered RenderStatus = "rendered"
	StatusSkipped  RenderStatus = "skipped"
	StatusFailed   RenderStatus = "failed"
)

// RenderResult reports what happened to one timer
type RenderResult struct {
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Status      RenderStatus `json:"status"`
	OutputPath  string       `json:"output_path,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Published   []string     `json:"published,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// ProcessVideoResponse is the API envelope for render submissions
type ProcessVideoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
