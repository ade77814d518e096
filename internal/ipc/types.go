package ipc

import "time"

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool      `json:"running"`
	PID          int       `json:"pid"`
	StartedAt    time.Time `json:"started_at"`
	AudioDir     string    `json:"audio_dir"`
	SocketPath   string    `json:"socket_path"`
	LockPath     string    `json:"lock_path"`
	CacheEntries int       `json:"cache_entries"`
	Transcriber  bool      `json:"transcriber"`
}

// CacheResetRequest drops every cached probe snapshot.
type CacheResetRequest struct{}

// CacheResetResponse acknowledges a cache reset.
type CacheResetResponse struct {
	Reset bool `json:"reset"`
}

// FileRecord is the wire form of an annotated audio file.
type FileRecord struct {
	Path             string    `json:"path"`
	SizeBytes        int64     `json:"size_bytes"`
	DurationSeconds  *float64  `json:"duration_seconds"`
	ModifiedAt       time.Time `json:"modified_at"`
	Format           string    `json:"format"`
	EligibleBackends []string  `json:"eligible_backends"`
}

// Failure is a typed per-file failure descriptor.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ListRequest filters and orders a directory listing. Absent optional fields
// leave the listing unconstrained.
type ListRequest struct {
	Pattern            string     `json:"pattern,omitempty"`
	MinSizeBytes       *int64     `json:"min_size_bytes,omitempty"`
	MaxSizeBytes       *int64     `json:"max_size_bytes,omitempty"`
	MinDurationSeconds *float64   `json:"min_duration_seconds,omitempty"`
	MaxDurationSeconds *float64   `json:"max_duration_seconds,omitempty"`
	ModifiedAfter      *time.Time `json:"modified_after,omitempty"`
	ModifiedBefore     *time.Time `json:"modified_before,omitempty"`
	Format             string     `json:"format,omitempty"`
	SortBy             string     `json:"sort_by,omitempty"`
	SortDesc           bool       `json:"sort_desc,omitempty"`
}

// ListResponse contains the ordered listing.
type ListResponse struct {
	Files []FileRecord `json:"files"`
}

// LatestRequest fetches the most recently modified audio file.
type LatestRequest struct{}

// LatestResponse contains the newest file record.
type LatestResponse struct {
	File FileRecord `json:"file"`
}

// ConvertRequest converts one or more files to a target container.
type ConvertRequest struct {
	Paths  []string `json:"paths"`
	Target string   `json:"target"`
}

// TransformOutcome is one file's conversion or compression result.
type TransformOutcome struct {
	Path    string      `json:"path"`
	File    *FileRecord `json:"file,omitempty"`
	Failure *Failure    `json:"failure,omitempty"`
}

// ConvertResponse contains per-file conversion outcomes in request order.
type ConvertResponse struct {
	Results []TransformOutcome `json:"results"`
}

// CompressRequest compresses one or more files under a byte ceiling.
// CeilingBytes of 0 selects the configured default.
type CompressRequest struct {
	Paths        []string `json:"paths"`
	CeilingBytes int64    `json:"ceiling_bytes"`
}

// CompressResponse contains per-file compression outcomes in request order.
type CompressResponse struct {
	Results []TransformOutcome `json:"results"`
}

// TranscribeRequest transcribes one or more files via speech-to-text.
type TranscribeRequest struct {
	Paths []string `json:"paths"`
}

// TranscriptOutcome is one file's transcription result.
type TranscriptOutcome struct {
	Path    string   `json:"path"`
	Text    string   `json:"text,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// TranscribeResponse contains per-file transcripts in request order.
type TranscribeResponse struct {
	Results []TranscriptOutcome `json:"results"`
}

// TranscribePromptedRequest transcribes via the multimodal backend with a
// free-form instruction prompt.
type TranscribePromptedRequest struct {
	Paths  []string `json:"paths"`
	Prompt string   `json:"prompt"`
}

// TranscribeEnhancedRequest transcribes via the multimodal backend with a
// named enhancement template.
type TranscribeEnhancedRequest struct {
	Paths    []string `json:"paths"`
	Template string   `json:"template"`
}
