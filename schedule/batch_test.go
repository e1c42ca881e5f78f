package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestStartRejectsInvalidSchedule(t *testing.T) {
	b := NewBatch(context.Background(), func(context.Context) error { return nil })
	if err := b.Start("not a schedule"); err == nil {
		t.Fatalf("Start accepted an invalid schedule")
	}
	if b.Next() != "" {
		t.Fatalf("Next = %q before a successful Start", b.Next())
	}
}

func TestStartSchedulesRuns(t *testing.T) {
	b := NewBatch(context.Background(), func(context.Context) error { return nil })
	if err := b.Start("*/5 * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop()
	if b.Next() == "" {
		t.Fatalf("Next is empty after Start")
	}
}

func TestTriggerSkipsOverlappingRuns(t *testing.T) {
	var runs int32
	started := make(chan struct{})
	release := make(chan struct{})

	b := NewBatch(context.Background(), func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return errors.New("batch failed")
	})

	done := make(chan bool)
	go func() { done <- b.Trigger() }()
	<-started

	if b.Trigger() {
		t.Fatalf("overlapping Trigger ran")
	}
	close(release)
	if !<-done {
		t.Fatalf("first Trigger reported no run")
	}
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("runs = %d; want 1", got)
	}
}
