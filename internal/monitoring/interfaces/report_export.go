package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"reactor-sim/internal/monitoring"
	reactor "reactor-sim/internal/reactor/domain"
)

// BuildPerformancePDF renders a performance report with its health
// context as a downloadable PDF.
func BuildPerformancePDF(report monitoring.PerformanceReport, health monitoring.HealthReport, rods []reactor.RodSnapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Reactor Performance Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Reactor: %s", report.ReactorID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.ReportTime.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Power Output: %.1f MW", report.CurrentPower))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Efficiency: %.1f%%", report.CurrentEfficiency))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Fuel Level: %.1f%%", report.FuelLevel))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Operational Hours: %d", report.OperationalHours))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average Rod Insertion: %.1f%%", report.AverageRodInsertion))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Power Utilization: %.1f%%", report.PowerUtilization()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Performance Grade: %s", report.Grade()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Health Score: %.1f", health.HealthScore))
	pdf.Ln(8)

	if health.HasWarnings() {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Warnings")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, warning := range health.Warnings {
			pdf.Cell(0, 5, "- "+warning)
			pdf.Ln(5)
		}
		pdf.Ln(3)
	}

	// Rod table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Rod", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Insertion (%)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Operational", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, rod := range rods {
		operational := "yes"
		if !rod.Operational {
			operational = "no"
		}
		pdf.CellFormat(40, 6, rod.ID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.1f", rod.InsertionLevel), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, operational, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPerformanceXLSX renders a performance report with its health
// context as a workbook: a summary sheet and a per-rod sheet.
func BuildPerformanceXLSX(report monitoring.PerformanceReport, health monitoring.HealthReport, rods []reactor.RodSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	rodsSheet := "rods"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(rodsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Reactor Performance Report")
	_ = f.SetCellValue(summarySheet, "A3", "Reactor")
	_ = f.SetCellValue(summarySheet, "B3", report.ReactorID)
	_ = f.SetCellValue(summarySheet, "A4", "Generated")
	_ = f.SetCellValue(summarySheet, "B4", report.ReportTime.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A5", "Power Output (MW)")
	_ = f.SetCellValue(summarySheet, "B5", report.CurrentPower)
	_ = f.SetCellValue(summarySheet, "A6", "Efficiency (%)")
	_ = f.SetCellValue(summarySheet, "B6", report.CurrentEfficiency)
	_ = f.SetCellValue(summarySheet, "A7", "Fuel Level (%)")
	_ = f.SetCellValue(summarySheet, "B7", report.FuelLevel)
	_ = f.SetCellValue(summarySheet, "A8", "Operational Hours")
	_ = f.SetCellValue(summarySheet, "B8", report.OperationalHours)
	_ = f.SetCellValue(summarySheet, "A9", "Average Rod Insertion (%)")
	_ = f.SetCellValue(summarySheet, "B9", report.AverageRodInsertion)
	_ = f.SetCellValue(summarySheet, "A10", "Power Utilization (%)")
	_ = f.SetCellValue(summarySheet, "B10", report.PowerUtilization())
	_ = f.SetCellValue(summarySheet, "A11", "Performance Grade")
	_ = f.SetCellValue(summarySheet, "B11", report.Grade())
	_ = f.SetCellValue(summarySheet, "A12", "Health Score")
	_ = f.SetCellValue(summarySheet, "B12", health.HealthScore)

	warningRow := 14
	if health.HasWarnings() {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", warningRow), "Warnings")
		for i, warning := range health.Warnings {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", warningRow+1+i), warning)
		}
	}

	_ = f.SetCellValue(rodsSheet, "A1", "Rod")
	_ = f.SetCellValue(rodsSheet, "B1", "Insertion (%)")
	_ = f.SetCellValue(rodsSheet, "C1", "Operational")
	_ = f.SetCellValue(rodsSheet, "D1", "Effectiveness")
	for i, rod := range rods {
		row := i + 2
		_ = f.SetCellValue(rodsSheet, fmt.Sprintf("A%d", row), rod.ID)
		_ = f.SetCellValue(rodsSheet, fmt.Sprintf("B%d", row), rod.InsertionLevel)
		_ = f.SetCellValue(rodsSheet, fmt.Sprintf("C%d", row), rod.Operational)
		_ = f.SetCellValue(rodsSheet, fmt.Sprintf("D%d", row), rod.Effectiveness)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
