package reactor

import "time"

// RodSnapshot is a detached view of one control rod.
type RodSnapshot struct {
	ID                string  `json:"id"`
	InsertionLevel    float64 `json:"insertion_level"`
	Operational       bool    `json:"operational"`
	MaxInsertionSpeed float64 `json:"max_insertion_speed"`
	InsertionSpeed    float64 `json:"insertion_speed"`
	Effectiveness     float64 `json:"effectiveness"`
}

// Snapshot is a detached view of the whole aggregate, safe to hand to
// readers without exposing internal state.
type Snapshot struct {
	ReactorID        string        `json:"reactor_id"`
	Name             string        `json:"name"`
	Temperature      float64       `json:"temperature"`
	Pressure         float64       `json:"pressure"`
	PowerOutput      float64       `json:"power_output"`
	FuelLevel        float64       `json:"fuel_level"`
	Status           Status        `json:"status"`
	ControlRods      []RodSnapshot `json:"control_rods"`
	LastMaintenance  time.Time     `json:"last_maintenance"`
	OperationalHours int           `json:"operational_hours"`
	Operational      bool          `json:"operational"`
	InDangerZone     bool          `json:"in_danger_zone"`
	Efficiency       float64       `json:"efficiency"`
}

// Snapshot captures the current state as plain values.
func (r *Reactor) Snapshot() Snapshot {
	rods := make([]RodSnapshot, 0, len(r.rods))
	for _, rod := range r.rods {
		rods = append(rods, RodSnapshot{
			ID:                rod.ID(),
			InsertionLevel:    rod.InsertionLevel(),
			Operational:       rod.Operational(),
			MaxInsertionSpeed: rod.MaxInsertionSpeed(),
			InsertionSpeed:    rod.InsertionSpeed(),
			Effectiveness:     rod.Effectiveness(),
		})
	}
	return Snapshot{
		ReactorID:        r.id,
		Name:             r.name,
		Temperature:      r.temperature,
		Pressure:         r.pressure,
		PowerOutput:      r.powerOutput,
		FuelLevel:        r.fuelLevel,
		Status:           r.status,
		ControlRods:      rods,
		LastMaintenance:  r.lastMaintenance,
		OperationalHours: r.operationalHours,
		Operational:      r.IsOperational(),
		InDangerZone:     r.InDangerZone(),
		Efficiency:       r.Efficiency(),
	}
}

// AverageInsertion is the mean insertion level across the fleet.
func (s Snapshot) AverageInsertion() float64 {
	if len(s.ControlRods) == 0 {
		return 0
	}
	total := 0.0
	for _, rod := range s.ControlRods {
		total += rod.InsertionLevel
	}
	return total / float64(len(s.ControlRods))
}
