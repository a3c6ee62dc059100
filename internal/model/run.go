// Package model holds the persisted types shared by the store and the
// CLI/HTTP surfaces.
package model

import (
	"time"

	"github.com/peakops/snowplan-cli/internal/series"
	"github.com/peakops/snowplan-cli/internal/snow"
)

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted demand analysis: the scenario input it was
// started with and, once complete, the full analysis result.
type Run struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Input     snow.ScenarioInput `json:"input"`
	Status    RunStatus          `json:"status"`
	Result    *series.Analysis   `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
