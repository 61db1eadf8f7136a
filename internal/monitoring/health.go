package monitoring

import "time"

// HealthReport summarizes reactor condition at a point in time.
type HealthReport struct {
	ReactorID    string    `json:"reactor_id"`
	AnalysisTime time.Time `json:"analysis_time"`
	HealthScore  float64   `json:"health_score"`
	Warnings     []string  `json:"warnings"`
}

// HasWarnings reports whether any warning was raised.
func (r HealthReport) HasWarnings() bool { return len(r.Warnings) > 0 }

// WarningCount returns the number of warnings.
func (r HealthReport) WarningCount() int { return len(r.Warnings) }

// Healthy reports a score of at least 80.
func (r HealthReport) Healthy() bool { return r.HealthScore >= 80 }

// Critical reports a score below 50.
func (r HealthReport) Critical() bool { return r.HealthScore < 50 }
