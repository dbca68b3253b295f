package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emoscan/internal/constants"
	"emoscan/internal/processor"
)

// Runner executes one video processing request.
type Runner interface {
	Process(ctx context.Context, req processor.Request) (processor.Result, error)
}

// ProcessHandler handles video processing endpoints.
type ProcessHandler struct {
	runner     Runner
	jobManager *JobManager
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(runner Runner, jm *JobManager) *ProcessHandler {
	return &ProcessHandler{
		runner:     runner,
		jobManager: jm,
	}
}

// ProcessRequest represents a processing request.
type ProcessRequest struct {
	Input     string  `json:"input"`
	Output    string  `json:"output,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	MaxFrames int     `json:"max_frames,omitempty"`
	Async     bool    `json:"async,omitempty"`
}

// Start runs a video synchronously or, with async set, as a background job.
func (h *ProcessHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if req.Input == "" {
		respondError(w, http.StatusBadRequest, "input is required")
		return
	}

	if req.Async {
		h.startAsync(w, req)
		return
	}

	result, err := h.runner.Process(r.Context(), processor.Request{
		Input:     req.Input,
		Output:    req.Output,
		Tolerance: req.Tolerance,
		MaxFrames: req.MaxFrames,
	})
	if err != nil {
		log.Printf("process: %s failed: %v", sanitizeForLog(req.Input), err)
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// startAsync creates a job and runs the video in the background.
func (h *ProcessHandler) startAsync(w http.ResponseWriter, req ProcessRequest) {
	jobID := uuid.New().String()

	// The request context dies with the handler; the job gets its own.
	ctx, cancel := context.WithCancel(context.Background())
	job := h.jobManager.CreateJob(jobID, req.Input, cancel)

	go h.runJob(ctx, job, req)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"input":  req.Input,
		"status": string(JobStatusPending),
	})
}

// runJob drives a background processing run and broadcasts its lifecycle.
func (h *ProcessHandler) runJob(ctx context.Context, job *ProcessJob, req ProcessRequest) {
	job.SetStatus(JobStatusRunning)
	job.SendEvent(JobEvent{Type: "started", Message: "Processing started"})

	result, err := h.runner.Process(ctx, processor.Request{
		Input:     req.Input,
		Output:    req.Output,
		Tolerance: req.Tolerance,
		MaxFrames: req.MaxFrames,
		Progress: func(frames int) {
			job.SetProgress(frames)
			if frames%constants.ProgressLogInterval == 0 {
				job.SendEvent(JobEvent{
					Type: "progress",
					Data: map[string]int{"frames_processed": frames},
				})
			}
		},
	})

	switch {
	case err != nil && job.GetStatus() == JobStatusCancelled:
		// Keep the cancelled status; the cancel event was already sent.
		job.Finish(JobStatusCancelled, &result, err.Error())
	case err != nil:
		job.Finish(JobStatusFailed, &result, err.Error())
		job.SendEvent(JobEvent{Type: "failed", Message: err.Error(), Data: result})
	default:
		job.Finish(JobStatusCompleted, &result, "")
		job.SendEvent(JobEvent{Type: "completed", Data: result})
	}
}

// Status returns the status of a processing job.
func (h *ProcessHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events streams job events via SSE.
func (h *ProcessHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job
		},
	)
}

// Cancel cancels a processing job.
func (h *ProcessHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	if isJobTerminal(job.GetStatus()) {
		respondError(w, http.StatusConflict, fmt.Sprintf("job already %s", job.GetStatus()))
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{
		"job_id": jobID,
		"status": string(JobStatusCancelled),
	})
}
