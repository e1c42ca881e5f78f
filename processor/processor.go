package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"timervid/config"
	"timervid/ledger"
	"timervid/publish"
	"timervid/timeline"
	"timervid/timerfile"
	"timervid/types"
)

// DefaultCountdownCategory holds countdown requests without a category
const DefaultCountdownCategory = "countdown_timers"

var (
	// ErrNothingToRender is returned for requests whose plan has no segments
	ErrNothingToRender = errors.New("timer produces an empty plan")

	// ErrInvalidRequest wraps request validation failures
	ErrInvalidRequest = errors.New("invalid request")
)

// Renderer encodes a plan to a file
type Renderer interface {
	Render(ctx context.Context, plan timeline.Plan, outputPath string) error
}

// Processor plans and renders timers, then records and publishes them
type Processor struct {
	renderer      Renderer
	ledger        ledger.Ledger
	publishers    []publish.Publisher
	outputDir     string
	maxConcurrent int
	options       timeline.Options
}

// Option configures a Processor
type Option func(*Processor)

// WithLedger skips timers whose fingerprint the ledger has already seen
func WithLedger(l ledger.Ledger) Option {
	return func(p *Processor) { p.ledger = l }
}

// WithPublishers runs each publisher after a successful render
func WithPublishers(pubs ...publish.Publisher) Option {
	return func(p *Processor) { p.publishers = append(p.publishers, pubs...) }
}

// WithTimelineOptions overrides the planner defaults
func WithTimelineOptions(o timeline.Options) Option {
	return func(p *Processor) { p.options = o }
}

// New creates a processor writing under settings.OutputDir
func New(renderer Renderer, settings config.Settings, opts ...Option) *Processor {
	p := &Processor{
		renderer:      renderer,
		outputDir:     settings.OutputDir,
		maxConcurrent: settings.MaxConcurrentRenders,
		options:       timeline.DefaultOptions(),
	}
	if p.maxConcurrent <= 0 {
		p.maxConcurrent = config.MaxConcurrentRenders
	}
	if p.outputDir == "" {
		p.outputDir = config.OutputDir
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summary counts the outcomes of a batch
type Summary struct {
	Total    int                  `json:"total"`
	Rendered int                  `json:"rendered"`
	Skipped  int                  `json:"skipped"`
	Failed   int                  `json:"failed"`
	Results  []types.RenderResult `json:"results"`
}

// job is one planned timer
type job struct {
	plan     timeline.Plan
	category string
	fileName string
	publish  bool
}

// ProcessFile loads a timer file and renders everything in it
func (p *Processor) ProcessFile(ctx context.Context, path string) (Summary, error) {
	cats, warnings, err := timerfile.Load(path)
	if err != nil {
		return Summary{}, err
	}
	for _, w := range warnings {
		log.Printf("⚠️  %s: %s", filepath.Base(path), w)
	}
	if timerfile.Count(cats) == 0 {
		log.Printf("No timers found in %s", path)
		return Summary{Results: []types.RenderResult{}}, nil
	}
	return p.ProcessCategories(ctx, cats), nil
}

// ProcessCategories renders every timer of every category
func (p *Processor) ProcessCategories(ctx context.Context, cats []types.Category) Summary {
	var jobs []job
	for _, cat := range cats {
		for _, t := range cat.Countdowns {
			if t.Category == "" {
				t.Category = cat.Name
			}
			jobs = append(jobs, p.countdownJob(t))
		}
		for _, t := range cat.Intervals {
			if t.Category == "" {
				t.Category = cat.Name
			}
			jobs = append(jobs, p.intervalJob(t))
		}
	}

	uniqueFileNames(jobs)
	log.Printf("Found %d timers to render", len(jobs))

	results := make([]types.RenderResult, len(jobs))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.maxConcurrent)

	for i, j := range jobs {
		wg.Add(1)

		go func(idx int, j job) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			log.Printf("[%d/%d] Processing: %s", idx+1, len(jobs), j.fileName)
			results[idx], _ = p.run(ctx, j)
		}(i, j)
	}

	wg.Wait()

	summary := Summary{Total: len(jobs), Results: results}
	for _, r := range results {
		switch r.Status {
		case types.StatusRendered:
			summary.Rendered++
		case types.StatusSkipped:
			summary.Skipped++
		case types.StatusFailed:
			summary.Failed++
		}
	}
	log.Printf("🎉 All timers processed! rendered=%d skipped=%d failed=%d",
		summary.Rendered, summary.Skipped, summary.Failed)
	return summary
}

// Plan validates a request and returns its plan without rendering
func (p *Processor) Plan(req types.RenderRequest) (timeline.Plan, error) {
	j, err := p.requestJob(req)
	if err != nil {
		return timeline.Plan{}, err
	}
	return j.plan, nil
}

// ProcessRequest renders a single API or queue request. Validation errors
// are returned without a result; render failures come back as both a
// failed result and the error. Publishers only run when req.Publish is set.
func (p *Processor) ProcessRequest(ctx context.Context, req types.RenderRequest) (types.RenderResult, error) {
	j, err := p.requestJob(req)
	if err != nil {
		return types.RenderResult{}, err
	}
	log.Printf("Processing request %s: %s", req.ID, j.fileName)
	return p.run(ctx, j)
}

func (p *Processor) requestJob(req types.RenderRequest) (job, error) {
	if err := req.Validate(); err != nil {
		return job{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var j job
	switch req.Kind {
	case types.KindInterval:
		t := *req.Interval
		t.Category = types.NormalizeCategory(t.Category)
		if t.Category == "" {
			t.Category = timerfile.DefaultIntervalCategory
		}
		j = p.intervalJob(t)
	case types.KindCountdown:
		t := *req.Countdown
		t.Category = types.NormalizeCategory(t.Category)
		if t.Category == "" {
			t.Category = DefaultCountdownCategory
		}
		j = p.countdownJob(t)
	}

	if j.plan.Empty() {
		return job{}, ErrNothingToRender
	}
	j.publish = req.Publish
	return j, nil
}

func (p *Processor) intervalJob(t types.IntervalTimer) job {
	return job{
		plan:     timeline.PlanIntervals(t, p.options),
		category: t.Category,
		fileName: timerfile.IntervalFileName(t),
		publish:  true,
	}
}

func (p *Processor) countdownJob(t types.CountdownTimer) job {
	return job{
		plan:     timeline.PlanCountdown(t, p.options),
		category: t.Category,
		fileName: timerfile.CountdownFileName(t),
		publish:  true,
	}
}

// uniqueFileNames suffixes jobs that would write to the same file, so
// "Tabata" and "tabata" in one category become tabata.mp4 and tabata_2.mp4.
// Names are compared case-insensitively for case-folding filesystems.
func uniqueFileNames(jobs []job) {
	taken := make(map[string]bool, len(jobs))
	key := func(category, name string) string {
		return strings.ToLower(category + "/" + name)
	}
	for i := range jobs {
		j := &jobs[i]
		if !taken[key(j.category, j.fileName)] {
			taken[key(j.category, j.fileName)] = true
			continue
		}
		ext := filepath.Ext(j.fileName)
		base := strings.TrimSuffix(j.fileName, ext)
		for n := 2; ; n++ {
			name := fmt.Sprintf("%s_%d%s", base, n, ext)
			if !taken[key(j.category, name)] {
				log.Printf("⚠️  %s/%s is already taken, writing %q to %s", j.category, j.fileName, j.plan.Name, name)
				j.fileName = name
				taken[key(j.category, name)] = true
				break
			}
		}
	}
}

// run renders one job, consulting the ledger before and publishing after
func (p *Processor) run(ctx context.Context, j job) (types.RenderResult, error) {
	outputPath := filepath.Join(p.outputDir, j.category, j.fileName)
	result := types.RenderResult{
		Name:       j.plan.Name,
		Category:   j.category,
		OutputPath: outputPath,
	}

	fail := func(err error) (types.RenderResult, error) {
		log.Printf("  ❌ %s: %v", j.fileName, err)
		result.Status = types.StatusFailed
		result.Error = err.Error()
		return result, err
	}

	if j.plan.Empty() {
		return fail(ErrNothingToRender)
	}

	fingerprint, err := ledger.Fingerprint(j.plan, j.fileName)
	if err != nil {
		return fail(err)
	}
	result.Fingerprint = fingerprint

	if p.ledger != nil {
		seen, err := p.ledger.Seen(ctx, fingerprint)
		if err != nil {
			log.Printf("  ⚠️  Ledger lookup failed for %s: %v (rendering anyway)", j.fileName, err)
		} else if seen {
			log.Printf("  ⏭️  %s already rendered, skipping", j.fileName)
			result.Status = types.StatusSkipped
			return result, nil
		}
	}

	renderCtx, cancel := context.WithTimeout(ctx, config.RenderTimeout)
	defer cancel()

	log.Printf("  🎥 Creating video (%s)...", j.plan.Summary())
	if err := p.renderer.Render(renderCtx, j.plan, outputPath); err != nil {
		return fail(fmt.Errorf("video creation failed: %w", err))
	}
	log.Printf("  ✅ Video created: %s", outputPath)
	result.Status = types.StatusRendered

	if p.ledger != nil {
		if err := p.ledger.Record(ctx, fingerprint, outputPath); err != nil {
			log.Printf("  ⚠️  Failed to record %s: %v", j.fileName, err)
		}
	}

	if !j.publish {
		return result, nil
	}

	item := publish.Item{Path: outputPath, Category: j.category, FileName: j.fileName, Plan: j.plan}
	for _, pub := range p.publishers {
		ref, err := pub.Publish(ctx, item)
		if err != nil {
			log.Printf("  ⚠️  %s publish failed for %s: %v", pub.Name(), j.fileName, err)
			continue
		}
		result.Published = append(result.Published, pub.Name()+":"+ref)
	}

	return result, nil
}
