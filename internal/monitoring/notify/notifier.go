package notify

import "context"

// AlertMessage is a safety alert payload.
type AlertMessage struct {
	ReactorID   string            `json:"reactor_id"`
	Status      string            `json:"status"`
	HealthScore float64           `json:"health_score"`
	Warnings    []string          `json:"warnings"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Notifier sends safety alerts.
type Notifier interface {
	Notify(ctx context.Context, msg AlertMessage) error
}
