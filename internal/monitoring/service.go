package monitoring

import (
	"fmt"
	"math"
	"time"

	reactor "reactor-sim/internal/reactor/domain"
)

const (
	dangerTemperature = 500.0
	lowTemperature    = 50.0
	dangerPressure    = 20.0
	lowFuelWarning    = 10.0
	lowEfficiency     = 50.0
	maintenanceDue    = 365 * 24 * time.Hour

	minOperationalRods = 8

	refillRecommendFuel  = 15.0
	maintenanceHoursDue  = 8000
	maxNonOperationalRod = 2
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// ServiceOption customizes the monitor service.
type ServiceOption func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Service derives health, safety, and performance analysis from reactor
// snapshots. It holds no mutable reactor state of its own.
type Service struct {
	clock Clock
}

// NewService constructs a monitor service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeHealth builds a warning list and health score for a snapshot.
func (s *Service) AnalyzeHealth(snap reactor.Snapshot) HealthReport {
	now := s.clock.Now()
	report := HealthReport{
		ReactorID:    snap.ReactorID,
		AnalysisTime: now,
	}

	if snap.Temperature > dangerTemperature {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("High temperature detected: %.1f°C", snap.Temperature))
	} else if snap.Temperature < lowTemperature && snap.Operational {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Low temperature for operational reactor: %.1f°C", snap.Temperature))
	}

	if snap.Pressure > dangerPressure {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("High pressure detected: %.1f MPa", snap.Pressure))
	}

	if snap.FuelLevel < lowFuelWarning {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Low fuel level: %.1f%%", snap.FuelLevel))
	}

	if dead := nonOperationalRods(snap); dead > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d control rods are non-operational", dead))
	}

	if snap.Efficiency < lowEfficiency && snap.Operational {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Low efficiency: %.1f%%", snap.Efficiency))
	}

	if overdue := now.Sub(snap.LastMaintenance) - maintenanceDue; overdue > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Maintenance overdue by %d days", int(overdue.Hours()/24)))
	}

	report.HealthScore = healthScore(snap)
	return report
}

func healthScore(snap reactor.Snapshot) float64 {
	score := 100.0

	if snap.Temperature > 400 {
		score -= (snap.Temperature - 400) * 0.5
	}
	if snap.Pressure > 15 {
		score -= (snap.Pressure - 15) * 2.0
	}
	score -= (100 - snap.FuelLevel) * 0.3
	score -= float64(nonOperationalRods(snap)) * 5.0
	if snap.Operational {
		score -= (100 - snap.Efficiency) * 0.2
	}

	return math.Max(0, math.Min(100, score))
}

// OperatingSafely checks the danger zone, rod availability, and whether
// any rod is fully withdrawn while the reactor produces power.
func (s *Service) OperatingSafely(snap reactor.Snapshot) bool {
	if snap.InDangerZone {
		return false
	}
	operational := 0
	for _, rod := range snap.ControlRods {
		if rod.Operational {
			operational++
		}
	}
	if operational < minOperationalRods {
		return false
	}
	if snap.Operational {
		for _, rod := range snap.ControlRods {
			if rod.InsertionLevel <= 0 {
				return false
			}
		}
	}
	return true
}

// PerformanceReport derives performance metrics from a snapshot.
func (s *Service) PerformanceReport(snap reactor.Snapshot) PerformanceReport {
	return PerformanceReport{
		ReactorID:           snap.ReactorID,
		ReportTime:          s.clock.Now(),
		CurrentPower:        snap.PowerOutput,
		CurrentEfficiency:   snap.Efficiency,
		FuelLevel:           snap.FuelLevel,
		OperationalHours:    snap.OperationalHours,
		AverageRodInsertion: snap.AverageInsertion(),
		PowerDensity:        snap.PowerOutput / 1000,
	}
}

// RodEffectiveness maps rod id to realized effectiveness.
func (s *Service) RodEffectiveness(snap reactor.Snapshot) map[string]float64 {
	result := make(map[string]float64, len(snap.ControlRods))
	for _, rod := range snap.ControlRods {
		result[rod.ID] = rod.Effectiveness
	}
	return result
}

// RemainingOperationalTime predicts hours of operation left at the
// current burn rate. +Inf at zero output.
func (s *Service) RemainingOperationalTime(snap reactor.Snapshot) float64 {
	if snap.PowerOutput == 0 {
		return math.Inf(1)
	}
	burnPerHour := snap.PowerOutput / 1000 * 0.1
	return snap.FuelLevel / burnPerHour
}

// MaintenanceRecommended checks fuel, elapsed calendar time, accumulated
// hours, and rod availability.
func (s *Service) MaintenanceRecommended(snap reactor.Snapshot) bool {
	if snap.FuelLevel < refillRecommendFuel {
		return true
	}
	if s.clock.Now().Sub(snap.LastMaintenance) > maintenanceDue {
		return true
	}
	if snap.OperationalHours > maintenanceHoursDue {
		return true
	}
	return nonOperationalRods(snap) > maxNonOperationalRod
}

// ThermalEfficiency is output against the 1200 MW theoretical maximum,
// derated at high temperature and pressure, capped at 100.
func (s *Service) ThermalEfficiency(snap reactor.Snapshot) float64 {
	if snap.PowerOutput == 0 {
		return 0
	}
	efficiency := (snap.PowerOutput / 1200) * 100
	if snap.Temperature > 400 {
		efficiency *= 0.95
	}
	if snap.Pressure > 18 {
		efficiency *= 0.98
	}
	return math.Min(100, efficiency)
}

func nonOperationalRods(snap reactor.Snapshot) int {
	count := 0
	for _, rod := range snap.ControlRods {
		if !rod.Operational {
			count++
		}
	}
	return count
}
