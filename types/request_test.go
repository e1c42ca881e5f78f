package types

import (
	"encoding/json"
	"testing"
)

func TestRenderRequestValidate(t *testing.T) {
	workout := func(mod func(*IntervalTimer)) *IntervalTimer {
		t := &IntervalTimer{
			Name:           "Tabata",
			TotalSeconds:   250,
			PrepareSeconds: 10,
			Repeat:         8,
			Intervals:      []Interval{{Name: "work", Seconds: 20, Color: "green"}},
		}
		if mod != nil {
			mod(t)
		}
		return t
	}

	cases := []struct {
		name    string
		req     RenderRequest
		wantErr bool
	}{
		{"valid interval", RenderRequest{Kind: KindInterval, Interval: workout(nil)}, false},
		{"valid countdown", RenderRequest{Kind: KindCountdown, Countdown: &CountdownTimer{Name: "Pasta", Minutes: 10}}, false},
		{"unknown kind", RenderRequest{Kind: "stopwatch"}, true},
		{"missing interval payload", RenderRequest{Kind: KindInterval}, true},
		{"missing countdown payload", RenderRequest{Kind: KindCountdown}, true},
		{"interval without name", RenderRequest{Kind: KindInterval, Interval: workout(func(t *IntervalTimer) { t.Name = "" })}, true},
		{"zero total", RenderRequest{Kind: KindInterval, Interval: workout(func(t *IntervalTimer) { t.TotalSeconds = 0 })}, true},
		{"negative prepare", RenderRequest{Kind: KindInterval, Interval: workout(func(t *IntervalTimer) { t.PrepareSeconds = -1 })}, true},
		{"zero repeat", RenderRequest{Kind: KindInterval, Interval: workout(func(t *IntervalTimer) { t.Repeat = 0 })}, true},
		{"zero countdown", RenderRequest{Kind: KindCountdown, Countdown: &CountdownTimer{Name: "Nothing"}}, true},
		{"negative seconds", RenderRequest{Kind: KindCountdown, Countdown: &CountdownTimer{Name: "Odd", Minutes: 1, Seconds: -5}}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if c.wantErr && err == nil {
				t.Fatalf("Validate() = nil; want error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("Validate() = %v; want nil", err)
			}
		})
	}
}

func TestRenderRequestDecode(t *testing.T) {
	body := `{
		"kind": "interval",
		"interval": {
			"name": "EMOM",
			"total_video_length": 600,
			"prepare_duration": 0,
			"intervals_repeat": 10,
			"interval_list": [{"name": "go", "seconds": 60, "color": "blue"}]
		}
	}`

	var req RenderRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.Name() != "EMOM" || req.Interval.CycleSeconds() != 60 {
		t.Fatalf("decoded request = %+v", req.Interval)
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"Food Timers":    "food_timers",
		"  workout  ":    "workout",
		"WHITE NOISE":    "white_noise",
		"already_normal": "already_normal",
	}
	for in, want := range cases {
		if got := NormalizeCategory(in); got != want {
			t.Fatalf("NormalizeCategory(%q) = %q; want %q", in, got, want)
		}
	}
}
