package domain

import "time"

// JobStatus mirrors the video status subset a generation job moves through.
type JobStatus string

const (
	JobStatusQueued      JobStatus = "queued"
	JobStatusRunning     JobStatus = "running"
	JobStatusTranscoding JobStatus = "transcoding"
	JobStatusScoring     JobStatus = "scoring"
	JobStatusReady       JobStatus = "ready"
	JobStatusFailed      JobStatus = "failed"
)

// Terminal reports whether the job has finished, successfully or not. A
// terminal job is frozen: no further mutation is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

// GenerationModel enumerates the generation backends a request may select.
type GenerationModel string

const (
	GenerationModelStable GenerationModel = "stable"
	GenerationModelFast   GenerationModel = "fast"
)

// GenerationJob tracks one generation request's asynchronous progress. A
// video has at most one active job at a time.
type GenerationJob struct {
	ID             string          `json:"id"`
	VideoID        string          `json:"videoId"`
	OrgID          string          `json:"orgId"`
	Prompt         string          `json:"prompt"`
	NegativePrompt string          `json:"negativePrompt,omitempty"`
	StylePreset    string          `json:"stylePreset,omitempty"`
	Model          GenerationModel `json:"model"`
	Status         JobStatus       `json:"status"`
	Progress       int             `json:"progress"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}
