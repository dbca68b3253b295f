package handlers

import (
	"sync"
	"testing"

	"emoscan/internal/processor"
)

func TestJobSnapshot(t *testing.T) {
	manager := NewJobManager()
	job := manager.CreateJob("job-1", "s3://videos/clip.mp4", nil)

	job.SetStatus(JobStatusRunning)
	job.SetProgress(42)

	snap := job.Snapshot()
	if snap.ID != "job-1" || snap.Input != "s3://videos/clip.mp4" {
		t.Errorf("snapshot identity = %q/%q, want job-1/s3://videos/clip.mp4", snap.ID, snap.Input)
	}
	if snap.Status != JobStatusRunning {
		t.Errorf("Status = %q, want running", snap.Status)
	}
	if snap.FramesProcessed != 42 {
		t.Errorf("FramesProcessed = %d, want 42", snap.FramesProcessed)
	}
	if snap.CompletedAt != nil {
		t.Error("expected no completion time while running")
	}

	result := &processor.Result{Status: "success", FramesProcessed: 99}
	job.Finish(JobStatusCompleted, result, "")

	snap = job.Snapshot()
	if snap.Status != JobStatusCompleted || snap.FramesProcessed != 99 {
		t.Errorf("terminal snapshot = %+v, want completed with 99 frames", snap)
	}
	if snap.CompletedAt == nil {
		t.Error("expected completion time after Finish")
	}
	if snap.Result == nil || snap.Result.FramesProcessed != 99 {
		t.Errorf("Result = %+v, want the finished result", snap.Result)
	}
}

func TestJobSnapshotConcurrentWrites(t *testing.T) {
	manager := NewJobManager()
	job := manager.CreateJob("job-2", "clip.mp4", nil)
	job.SetStatus(JobStatusRunning)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			job.SetProgress(i)
		}
		job.Finish(JobStatusCompleted, &processor.Result{Status: "success", FramesProcessed: 500}, "")
	}()

	for i := 0; i < 100; i++ {
		snap := job.Snapshot()
		if snap.FramesProcessed < 0 || snap.FramesProcessed > 500 {
			t.Fatalf("FramesProcessed = %d, out of range", snap.FramesProcessed)
		}
	}
	wg.Wait()

	if got := job.Snapshot().Status; got != JobStatusCompleted {
		t.Errorf("final Status = %q, want completed", got)
	}
}
