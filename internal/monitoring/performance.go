package monitoring

import "time"

// PerformanceReport carries operational performance metrics derived
// from a reactor snapshot.
type PerformanceReport struct {
	ReactorID            string    `json:"reactor_id"`
	ReportTime           time.Time `json:"report_time"`
	CurrentPower         float64   `json:"current_power"`
	CurrentEfficiency    float64   `json:"current_efficiency"`
	FuelLevel            float64   `json:"fuel_level"`
	OperationalHours     int       `json:"operational_hours"`
	AverageRodInsertion  float64   `json:"average_rod_insertion"`
	PowerDensity         float64   `json:"power_density"`
}

// OptimalPower reports output within the 800-1100 MW band.
func (r PerformanceReport) OptimalPower() bool {
	return r.CurrentPower >= 800 && r.CurrentPower <= 1100
}

// OptimalEfficiency reports efficiency of at least 80%.
func (r PerformanceReport) OptimalEfficiency() bool {
	return r.CurrentEfficiency >= 80
}

// PowerUtilization is output relative to the 1200 MW theoretical maximum.
func (r PerformanceReport) PowerUtilization() float64 {
	return (r.CurrentPower / 1200) * 100
}

// NeedsFuelRefill reports fuel under 20%.
func (r PerformanceReport) NeedsFuelRefill() bool {
	return r.FuelLevel < 20
}

// OptimalRodInsertion reports an average insertion in the 20-80% band.
func (r PerformanceReport) OptimalRodInsertion() bool {
	return r.AverageRodInsertion >= 20 && r.AverageRodInsertion <= 80
}

// Grade scores the four optimality checks at 25 points each and maps
// the total onto the usual letter scale.
func (r PerformanceReport) Grade() string {
	score := 0.0
	if r.OptimalPower() {
		score += 25
	}
	if r.OptimalEfficiency() {
		score += 25
	}
	if !r.NeedsFuelRefill() {
		score += 25
	}
	if r.OptimalRodInsertion() {
		score += 25
	}
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
