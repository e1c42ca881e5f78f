package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// BatchFunc runs one batch
type BatchFunc func(ctx context.Context) error

// Batch runs a BatchFunc on a cron schedule, never overlapping itself
type Batch struct {
	cron *cron.Cron
	run  BatchFunc
	ctx  context.Context

	mu      sync.Mutex
	running bool
	id      cron.EntryID
}

// NewBatch creates a scheduler; ctx is passed to every run
func NewBatch(ctx context.Context, run BatchFunc) *Batch {
	return &Batch{cron: cron.New(), run: run, ctx: ctx}
}

// Start registers the schedule (standard 5-field cron spec) and starts the cron loop
func (b *Batch) Start(spec string) error {
	id, err := b.cron.AddFunc(spec, func() { b.Trigger() })
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	b.mu.Lock()
	b.id = id
	b.mu.Unlock()

	b.cron.Start()
	return nil
}

// Trigger runs the batch now unless a run is already in progress.
// It reports whether a run happened.
func (b *Batch) Trigger() bool {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		log.Println("⏭️  Previous batch still running, skipping this tick")
		return false
	}
	b.running = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	log.Println("⏰ Cron triggered: starting batch")
	if err := b.run(b.ctx); err != nil {
		log.Printf("❌ Batch failed: %v", err)
	}
	return true
}

// Next is the next scheduled run, zero before Start
func (b *Batch) Next() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.id == 0 {
		return ""
	}
	return b.cron.Entry(b.id).Next.Format("2006-01-02 15:04:05")
}

// Stop stops the cron loop and waits for a running batch to finish
func (b *Batch) Stop() {
	<-b.cron.Stop().Done()
}
