package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatistics carries the per-stage funnel counters for one pipeline run.
// It is owned by the pipeline and mutated only at stage boundaries; once the
// run completes it is reported and discarded.
type RunStatistics struct {
	RunID string

	Collected            int
	AfterFirstDedup      int
	AfterCategoryFilter  int
	AfterSecondDedup     int
	AfterValueValidation int
	FinalOutput          int

	RegulatoryFound    int
	RegulatoryRetained int

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunStatistics starts the counters for a fresh run.
func NewRunStatistics(start time.Time) RunStatistics {
	return RunStatistics{RunID: uuid.NewString(), StartedAt: start}
}

// RegulatoryMismatch reports whether a protected article went missing
// between the category filter and the second dedup. This is the single most
// important operator-visible signal of the run.
func (s RunStatistics) RegulatoryMismatch() bool {
	return s.RegulatoryFound != s.RegulatoryRetained
}

// Summary renders the stage funnel for logs and the run archive.
func (s RunStatistics) Summary() string {
	return fmt.Sprintf(
		"collected=%d dedup1=%d filtered=%d dedup2=%d validated=%d final=%d regulatory=%d/%d",
		s.Collected, s.AfterFirstDedup, s.AfterCategoryFilter,
		s.AfterSecondDedup, s.AfterValueValidation, s.FinalOutput,
		s.RegulatoryFound, s.RegulatoryRetained)
}

// Duration is the wall-clock time of the run, zero until finished.
func (s RunStatistics) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
