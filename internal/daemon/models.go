package daemon

import (
	"errors"
	"time"

	"videodupes/internal/report"
)

const Version = "0.1.0"

// Scan status values.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Config holds the comparison settings applied to new scans.
type Config struct {
	OutputDir          string  `json:"output_dir" example:"/var/lib/videodupes/reports"`
	DurationTolerance  float64 `json:"duration_tolerance" example:"0.01"`
	PixelDiffThreshold int     `json:"pixel_diff_threshold" example:"200"`
	AntiAliasThreshold float64 `json:"anti_alias_threshold" example:"0.1"`
	MaxFrameWidth      int     `json:"max_frame_width" example:"800"`
	MaxFrameHeight     int     `json:"max_frame_height" example:"533"`
	StrictGroups       bool    `json:"strict_groups" example:"false"`
}

// Scan tracks one duplicate detection run over a directory.
type Scan struct {
	ID           string    `json:"scan_id" example:"scan_3f1c2a9e-0d6b-4c43-9d8e-5b1e0f7c2a11"`
	Path         string    `json:"path" example:"/videos"`
	Policy       string    `json:"delete" example:"no"`
	Strict       bool      `json:"strict" example:"false"`
	Status       string    `json:"status" example:"running"`
	Progress     float64   `json:"progress" example:"0.42"`
	FilesTotal   int       `json:"files_total" example:"24"`
	GroupsFound  int       `json:"groups_found" example:"2"`
	FilesDeleted int       `json:"files_deleted" example:"0"`
	ReportPath   string    `json:"report_path,omitempty" example:"/reports/duplicate-videos-report-2024-01-01T12-00-00.000Z.json"`
	UploadedKey  string    `json:"uploaded_key,omitempty" example:"reports/duplicate-videos-report-2024-01-01T12-00-00.000Z.json"`
	LastError    *string   `json:"last_error" example:"input directory not accessible"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-01T12:05:00Z"`

	report *report.Report
}

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"description of the error"`
}

// HealthResponse describes the health endpoint payload.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// ConfigUpdateRequest allows partial configuration updates.
type ConfigUpdateRequest struct {
	OutputDir          *string  `json:"output_dir" example:"/tmp/reports"`
	DurationTolerance  *float64 `json:"duration_tolerance" example:"0.05"`
	PixelDiffThreshold *int     `json:"pixel_diff_threshold" example:"150"`
	AntiAliasThreshold *float64 `json:"anti_alias_threshold" example:"0.2"`
	MaxFrameWidth      *int     `json:"max_frame_width" example:"640"`
	MaxFrameHeight     *int     `json:"max_frame_height" example:"360"`
	StrictGroups       *bool    `json:"strict_groups" example:"true"`
}

// StatusResponse is a generic status wrapper.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// StartScanRequest describes the directory to scan. Only the "no" and "all"
// policies are accepted since per-group choices need a terminal.
type StartScanRequest struct {
	Path    string `json:"path" example:"/videos"`
	Delete  string `json:"delete" example:"no"`
	Strict  *bool  `json:"strict" example:"false"`
	Confirm bool   `json:"confirm" example:"false"`
}

// StartScanResponse provides the started scan ID.
type StartScanResponse struct {
	Status string `json:"status" example:"started"`
	ScanID string `json:"scan_id" example:"scan_3f1c2a9e-0d6b-4c43-9d8e-5b1e0f7c2a11"`
}

// CancelScanResponse indicates a cancellation attempt.
type CancelScanResponse struct {
	Status string `json:"status" example:"cancelling"`
}

var (
	errNotFound  = errors.New("not found")
	errNotActive = errors.New("scan is not running")
)
