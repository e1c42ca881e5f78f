package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"timervid/config"
	"timervid/timeline"
)

// ErrEmptyPlan is returned when a plan has no segments to draw
var ErrEmptyPlan = errors.New("plan has no segments")

// Renderer turns a timeline.Plan into an encoded video with ffmpeg
type Renderer struct {
	settings config.Settings
}

// NewRenderer creates a renderer for the given output settings
func NewRenderer(settings config.Settings) *Renderer {
	return &Renderer{settings: settings}
}

// Render encodes plan into outputPath, creating the parent directory.
// The ffmpeg process is killed when ctx is done.
func (r *Renderer) Render(ctx context.Context, plan timeline.Plan, outputPath string) error {
	if plan.Empty() {
		return ErrEmptyPlan
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", "timervid-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	stream, err := r.BuildCommand(plan, outputPath, workDir)
	if err != nil {
		return err
	}

	compiled := stream.Compile()
	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLines(stderr.String(), 5))
	}
	return nil
}

// BuildCommand assembles the ffmpeg graph for plan. Label text files are
// written to workDir, which must outlive the ffmpeg run.
func (r *Renderer) BuildCommand(plan timeline.Plan, outputPath, workDir string) (*ffmpeg.Stream, error) {
	if plan.Empty() {
		return nil, ErrEmptyPlan
	}

	segments := make([]*ffmpeg.Stream, 0, len(plan.Segments))
	for i, seg := range plan.Segments {
		src := ffmpeg.Input(r.colorSource(seg), ffmpeg.KwArgs{"f": "lavfi"})
		drawn, err := r.drawSegment(src, seg, workDir, i)
		if err != nil {
			return nil, err
		}
		segments = append(segments, drawn)
	}

	video := segments[0]
	if len(segments) > 1 {
		video = ffmpeg.Concat(segments)
	}

	outputArgs := ffmpeg.KwArgs{
		"c:v":     r.settings.VideoCodec,
		"preset":  r.settings.Preset,
		"pix_fmt": "yuv420p",
		"r":       r.settings.FPS,
		"t":       fmt.Sprintf("%.3f", plan.Total),
	}

	streams := []*ffmpeg.Stream{video}
	if audio := r.mixCues(plan); audio != nil {
		streams = append(streams, audio)
		outputArgs["c:a"] = r.settings.AudioCodec
		outputArgs["b:a"] = r.settings.AudioBitrate
	}

	return ffmpeg.Output(streams, outputPath, outputArgs).OverWriteOutput(), nil
}

func (r *Renderer) colorSource(seg timeline.Segment) string {
	return fmt.Sprintf("color=c=%s:s=%dx%d:d=%.3f:r=%d",
		seg.Color.Hex(), r.settings.Width, r.settings.Height, seg.Duration, r.settings.FPS)
}

func (r *Renderer) drawSegment(src *ffmpeg.Stream, seg timeline.Segment, workDir string, idx int) (*ffmpeg.Stream, error) {
	out := src
	if seg.Title != "" {
		titleFile, err := writeText(workDir, fmt.Sprintf("title-%03d.txt", idx), seg.Title)
		if err != nil {
			return nil, err
		}
		out = out.Filter("drawtext", ffmpeg.Args{}, r.textArgs(ffmpeg.KwArgs{
			"textfile":  titleFile,
			"fontsize":  config.TitleFontSize,
			"fontcolor": "white",
			"x":         "(w-text_w)/2",
			"y":         "h/6",
		}))
	}

	switch seg.Kind {
	case timeline.KindCountdown:
		return out.Filter("drawtext", ffmpeg.Args{}, r.textArgs(ffmpeg.KwArgs{
			"text":      clockExpr(seg.CountFrom),
			"fontsize":  config.ClockFontSize,
			"fontcolor": seg.TextColor,
			"x":         "(w-text_w)/2",
			"y":         "(h-text_h)/2",
		})), nil
	default:
		labelFile, err := writeText(workDir, fmt.Sprintf("label-%03d.txt", idx), seg.Label)
		if err != nil {
			return nil, err
		}
		size := config.LabelFontSize
		if seg.Kind == timeline.KindFinal {
			size = config.FinalFontSize
		}
		return out.Filter("drawtext", ffmpeg.Args{}, r.textArgs(ffmpeg.KwArgs{
			"textfile":  labelFile,
			"fontsize":  size,
			"fontcolor": seg.TextColor,
			"x":         "(w-text_w)/2",
			"y":         "(h-text_h)/2",
		})), nil
	}
}

// textArgs adds the font selection to drawtext arguments
func (r *Renderer) textArgs(args ffmpeg.KwArgs) ffmpeg.KwArgs {
	if r.settings.FontFile != "" {
		args["fontfile"] = r.settings.FontFile
	} else if r.settings.Font != "" {
		args["font"] = r.settings.Font
	}
	return args
}

// mixCues delays one asset input per cue and mixes them. Cues whose asset
// is missing are dropped; nil means the video has no audio.
func (r *Renderer) mixCues(plan timeline.Plan) *ffmpeg.Stream {
	assets := map[timeline.CueKind]string{
		timeline.CueBeep:  r.settings.BeepPath,
		timeline.CueAlarm: r.settings.AlarmPath,
	}
	usable := make(map[timeline.CueKind]bool)
	checked := make(map[timeline.CueKind]bool)
	seen := make(map[string]bool)

	var delayed []*ffmpeg.Stream
	for _, cue := range plan.Cues {
		path := assets[cue.Kind]
		if !checked[cue.Kind] {
			checked[cue.Kind] = true
			usable[cue.Kind] = assetReadable(path)
			if !usable[cue.Kind] {
				log.Printf("⚠️  %s sound %q not available, rendering %q without it", cue.Kind, path, plan.Name)
			}
		}
		if !usable[cue.Kind] {
			continue
		}

		ms := int64(math.Round(cue.At * 1000))
		key := fmt.Sprintf("%s@%d", path, ms)
		if seen[key] {
			continue
		}
		seen[key] = true

		delayed = append(delayed, ffmpeg.Input(path).Audio().
			Filter("adelay", ffmpeg.Args{fmt.Sprintf("%d|%d", ms, ms)}))
	}

	switch len(delayed) {
	case 0:
		return nil
	case 1:
		return delayed[0]
	default:
		return ffmpeg.Filter(delayed, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
			"inputs":    len(delayed),
			"duration":  "longest",
			"normalize": 0,
		})
	}
}

// clockExpr is a drawtext expansion counting down from `from` to zero,
// one value per second of segment time.
func clockExpr(from int) string {
	remaining := fmt.Sprintf("(%d-trunc(t))", from)
	field := func(expr string) string {
		return "%{eif:" + expr + ":d:2}"
	}
	minutes := fmt.Sprintf("trunc(%s/60)", remaining)
	seconds := fmt.Sprintf("%s-60*trunc(%s/60)", remaining, remaining)
	if from >= 3600 {
		hours := fmt.Sprintf("trunc(%s/3600)", remaining)
		minuteOfHour := fmt.Sprintf("%s-60*%s", minutes, hours)
		return field(hours) + ":" + field(minuteOfHour) + ":" + field(seconds)
	}
	return field(minutes) + ":" + field(seconds)
}

func writeText(dir, name, text string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write drawtext file: %w", err)
	}
	return filepath.ToSlash(path), nil
}

func assetReadable(path string) bool {
	return CheckAsset(path) == nil
}

// CheckAsset reports why an audio asset cannot be mixed in, or nil
func CheckAsset(path string) error {
	if path == "" {
		return errors.New("no asset path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%s is not a usable audio file", path)
	}
	return nil
}

// CheckFFmpeg reports whether the ffmpeg binary can be found on PATH
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
