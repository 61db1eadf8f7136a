package interfaces

import (
	"bytes"
	"testing"
	"time"

	"reactor-sim/internal/monitoring"
	reactor "reactor-sim/internal/reactor/domain"
)

func sampleReport() (monitoring.PerformanceReport, monitoring.HealthReport, []reactor.RodSnapshot) {
	report := monitoring.PerformanceReport{
		ReactorID:           "R-001",
		ReportTime:          time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		CurrentPower:        950,
		CurrentEfficiency:   95,
		FuelLevel:           72,
		OperationalHours:    1200,
		AverageRodInsertion: 45,
		PowerDensity:        95,
	}
	health := monitoring.HealthReport{
		ReactorID:    "R-001",
		AnalysisTime: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		HealthScore:  88.5,
		Warnings:     []string{"Low fuel level"},
	}
	rods := []reactor.RodSnapshot{
		{ID: "CR-1", InsertionLevel: 45, Operational: true, Effectiveness: 42.75},
		{ID: "CR-2", InsertionLevel: 45, Operational: false, Effectiveness: 0},
	}
	return report, health, rods
}

func TestBuildPerformancePDF(t *testing.T) {
	report, health, rods := sampleReport()
	data, err := BuildPerformancePDF(report, health, rods)
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestBuildPerformanceXLSX(t *testing.T) {
	report, health, rods := sampleReport()
	data, err := BuildPerformanceXLSX(report, health, rods)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	// xlsx is a zip container
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("output is not a workbook")
	}
}
