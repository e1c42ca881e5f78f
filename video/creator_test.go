package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timervid/config"
	"timervid/timeline"
	"timervid/types"
)

func testSettings(t *testing.T, withAudio bool) config.Settings {
	t.Helper()
	dir := t.TempDir()
	s := config.Settings{
		Width:        1280,
		Height:       720,
		FPS:          24,
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		Preset:       "fast",
		Font:         "Arial",
		BeepPath:     filepath.Join(dir, "beep.mp3"),
		AlarmPath:    filepath.Join(dir, "alarm.mp3"),
	}
	if withAudio {
		for _, p := range []string{s.BeepPath, s.AlarmPath} {
			if err := os.WriteFile(p, []byte("ID3"), 0o644); err != nil {
				t.Fatalf("write asset: %v", err)
			}
		}
	}
	return s
}

func workoutPlan() timeline.Plan {
	return timeline.PlanIntervals(types.IntervalTimer{
		Name:           "test_timer",
		TotalSeconds:   130,
		PrepareSeconds: 10,
		Repeat:         2,
		Intervals: []types.Interval{
			{Name: "go", Seconds: 30, Color: "green"},
			{Name: "no", Seconds: 30, Color: "red"},
		},
	}, timeline.DefaultOptions())
}

func filterComplex(args []string) string {
	for i, a := range args {
		if a == "-filter_complex" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func countPrefix(args []string, prefix string) int {
	n := 0
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			n++
		}
	}
	return n
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestBuildCommandIntervals(t *testing.T) {
	r := NewRenderer(testSettings(t, true))
	plan := workoutPlan()
	work := t.TempDir()

	stream, err := r.BuildCommand(plan, "out/test_timer.mp4", work)
	if err != nil {
		t.Fatalf("BuildCommand error: %v", err)
	}
	args := stream.GetArgs()

	if got := countPrefix(args, "color=c="); got != len(plan.Segments) {
		t.Fatalf("color sources = %d; want %d\nargs: %v", got, len(plan.Segments), args)
	}
	if !contains(args, "lavfi") {
		t.Fatalf("args missing lavfi input format: %v", args)
	}
	if !contains(args, "color=c=0xFFA500:s=1280x720:d=10.000:r=24") {
		t.Fatalf("args missing prepare color source: %v", args)
	}

	fc := filterComplex(args)
	if !strings.Contains(fc, "concat") || !strings.Contains(fc, "n=5") {
		t.Fatalf("filter_complex missing concat of 5: %s", fc)
	}
	if got := strings.Count(fc, "drawtext"); got != len(plan.Segments) {
		t.Fatalf("drawtext filters = %d; want %d", got, len(plan.Segments))
	}
	if got := strings.Count(fc, "adelay"); got != len(plan.Cues) {
		t.Fatalf("adelay filters = %d; want %d (one per cue)", got, len(plan.Cues))
	}
	if !strings.Contains(fc, "amix") {
		t.Fatalf("filter_complex missing amix: %s", fc)
	}
	if !strings.Contains(fc, "10000|10000") {
		t.Fatalf("filter_complex missing first beep delay: %s", fc)
	}
	if !contains(args, "aac") || !contains(args, "libx264") {
		t.Fatalf("args missing codecs: %v", args)
	}
	if !contains(args, "130.000") {
		t.Fatalf("args missing output duration: %v", args)
	}
	if !contains(args, "-y") {
		t.Fatalf("args missing overwrite flag: %v", args)
	}

	label, err := os.ReadFile(filepath.Join(work, "label-001.txt"))
	if err != nil {
		t.Fatalf("read label file: %v", err)
	}
	if string(label) != "GO" {
		t.Fatalf("label file = %q; want GO", label)
	}
}

func TestBuildCommandWithoutAudioAssets(t *testing.T) {
	r := NewRenderer(testSettings(t, false))

	stream, err := r.BuildCommand(workoutPlan(), "out.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("BuildCommand error: %v", err)
	}
	args := stream.GetArgs()

	if fc := filterComplex(args); strings.Contains(fc, "adelay") || strings.Contains(fc, "amix") {
		t.Fatalf("missing assets should drop audio, got filter_complex %s", fc)
	}
	if contains(args, "aac") {
		t.Fatalf("video-only output should not set an audio codec: %v", args)
	}
}

func TestBuildCommandSharedAssetDeduplicatesCues(t *testing.T) {
	s := testSettings(t, true)
	s.AlarmPath = s.BeepPath
	r := NewRenderer(s)

	plan := timeline.Plan{
		Name:     "dup",
		Total:    10,
		Segments: []timeline.Segment{{Start: 0, Duration: 10, Label: "X", Kind: timeline.KindInterval, TextColor: "white"}},
		Cues: []timeline.Cue{
			{At: 5, Kind: timeline.CueBeep},
			{At: 5, Kind: timeline.CueAlarm},
			{At: 8, Kind: timeline.CueAlarm},
		},
	}

	stream, err := r.BuildCommand(plan, "out.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("BuildCommand error: %v", err)
	}
	if got := strings.Count(filterComplex(stream.GetArgs()), "adelay"); got != 2 {
		t.Fatalf("adelay filters = %d; want 2", got)
	}
}

func TestBuildCommandCountdown(t *testing.T) {
	r := NewRenderer(testSettings(t, true))
	plan := timeline.PlanCountdown(types.CountdownTimer{Name: "Pasta", Minutes: 10}, timeline.DefaultOptions())
	work := t.TempDir()

	stream, err := r.BuildCommand(plan, "pasta.mp4", work)
	if err != nil {
		t.Fatalf("BuildCommand error: %v", err)
	}
	fc := filterComplex(stream.GetArgs())

	if !strings.Contains(fc, "eif") {
		t.Fatalf("countdown should use a clock expression: %s", fc)
	}
	// title on both segments, clock, final label
	if got := strings.Count(fc, "drawtext"); got != 4 {
		t.Fatalf("drawtext filters = %d; want 4", got)
	}
	final, err := os.ReadFile(filepath.Join(work, "label-001.txt"))
	if err != nil || string(final) != "Timer Complete!" {
		t.Fatalf("final label = %q, %v", final, err)
	}
}

func TestBuildCommandEmptyPlan(t *testing.T) {
	r := NewRenderer(testSettings(t, false))
	if _, err := r.BuildCommand(timeline.Plan{}, "x.mp4", t.TempDir()); !errors.Is(err, ErrEmptyPlan) {
		t.Fatalf("err = %v; want ErrEmptyPlan", err)
	}
	if err := r.Render(context.Background(), timeline.Plan{}, filepath.Join(t.TempDir(), "x.mp4")); !errors.Is(err, ErrEmptyPlan) {
		t.Fatalf("Render err = %v; want ErrEmptyPlan", err)
	}
}

func TestClockExpr(t *testing.T) {
	short := clockExpr(90)
	if strings.Count(short, "%{eif") != 2 || !strings.Contains(short, "(90-trunc(t))") {
		t.Fatalf("clockExpr(90) = %q", short)
	}
	long := clockExpr(28800)
	if strings.Count(long, "%{eif") != 3 {
		t.Fatalf("clockExpr(28800) = %q; want hours field", long)
	}
	if strings.Contains(long, ",") {
		t.Fatalf("clock expression must not contain commas: %q", long)
	}
}

func TestCheckAsset(t *testing.T) {
	s := testSettings(t, true)
	empty := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"present", s.BeepPath, false},
		{"unset", "", true},
		{"missing", filepath.Join(t.TempDir(), "nope.mp3"), true},
		{"empty file", empty, true},
		{"directory", t.TempDir(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := CheckAsset(c.path); (err != nil) != c.wantErr {
				t.Fatalf("CheckAsset(%q) = %v; wantErr %v", c.path, err, c.wantErr)
			}
		})
	}
}
