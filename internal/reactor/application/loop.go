package application

import (
	"context"
	"log"
	"time"

	"reactor-sim/internal/monitoring"
	"reactor-sim/internal/monitoring/notify"
	"reactor-sim/internal/observability/metrics"
)

// Loop is the periodic simulation driver: it advances the reactor at a
// fixed cadence, refreshes derived health, and raises a safety alert
// when the reactor enters the danger zone. Alerts are edge-triggered;
// a persisting condition is not re-alerted until it clears first.
type Loop struct {
	service  *Service
	monitor  *monitoring.Service
	notifier notify.Notifier
	interval time.Duration
	logger   *log.Logger

	inDanger bool
}

// NewLoop constructs a Loop.
func NewLoop(service *Service, monitor *monitoring.Service, notifier notify.Notifier, interval time.Duration, logger *log.Logger) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{
		service:  service,
		monitor:  monitor,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// Run ticks until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Step(ctx)
		}
	}
}

// Step performs one driver iteration.
func (l *Loop) Step(ctx context.Context) {
	l.service.Tick(l.interval.Seconds())

	snap := l.service.Snapshot()
	report := l.monitor.AnalyzeHealth(snap)
	metrics.SetHealthScore(report.HealthScore)

	if snap.InDangerZone && !l.inDanger {
		metrics.ObserveSafetyAlert()
		l.logf("event=safety_alert reactor_id=%s status=%s health_score=%.1f warnings=%d",
			snap.ReactorID, snap.Status, report.HealthScore, report.WarningCount())
		if l.notifier != nil {
			if err := l.notifier.Notify(ctx, notify.AlertMessage{
				ReactorID:   snap.ReactorID,
				Status:      string(snap.Status),
				HealthScore: report.HealthScore,
				Warnings:    report.Warnings,
			}); err != nil {
				l.logf("event=safety_alert_notify_failed reactor_id=%s error=%q", snap.ReactorID, err.Error())
			}
		}
	}
	l.inDanger = snap.InDangerZone
}

func (l *Loop) logf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}
