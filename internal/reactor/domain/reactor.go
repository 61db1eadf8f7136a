package reactor

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Status is the reactor lifecycle state.
type Status string

const (
	StatusShutdown          Status = "shutdown"
	StatusStartingUp        Status = "starting_up"
	StatusOperational       Status = "operational"
	StatusEmergencyShutdown Status = "emergency_shutdown"
	StatusMaintenance       Status = "maintenance"
)

// Valid returns true when the status is one of the defined states.
func (s Status) Valid() bool {
	switch s {
	case StatusShutdown, StatusStartingUp, StatusOperational, StatusEmergencyShutdown, StatusMaintenance:
		return true
	default:
		return false
	}
}

const (
	rodCount = 10

	// Power envelope and the coupling formulas derived from it.
	maxPowerMW       = 1200.0
	nominalPowerMW   = 1000.0
	minStartupFuel   = 10.0
	maintenanceFuel  = 5.0
	fuelBurnPerHour  = 0.1
	rodRampCap       = 5.0
	rodRampDivisor   = 10.0
	rodArrivalDelta  = 0.1
	maxRodReduction  = 0.3
	ambientTempC     = 25.0
	ambientPressure  = 0.1
	tempClampHighC   = 600.0
	pressureClampMax = 25.0
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Option customizes a Reactor at construction.
type Option func(*Reactor)

// WithClock assigns the clock used for maintenance timestamps.
func WithClock(clock Clock) Option {
	return func(r *Reactor) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithRand assigns the random source used for the per-tick environmental
// perturbation. Seed it for reproducible simulation runs.
func WithRand(rng *rand.Rand) Option {
	return func(r *Reactor) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// Reactor is the simulation aggregate: scalar thermal state, the status
// state machine, and ten owned control rods. It has no internal locking;
// callers serialize all mutation against one instance.
type Reactor struct {
	id   string
	name string

	temperature float64 // Celsius
	pressure    float64 // MPa
	powerOutput float64 // MW
	fuelLevel   float64 // percent

	status           Status
	rods             []*ControlRod
	lastMaintenance  time.Time
	operationalHours int

	clock Clock
	rng   *rand.Rand
}

// NewReactor creates a shut-down reactor at ambient conditions with a
// full fuel load and ten fully inserted rods, CR-1 through CR-10.
func NewReactor(id, name string, opts ...Option) (*Reactor, error) {
	if id == "" {
		return nil, invalidArgumentf("reactor id is required")
	}
	r := &Reactor{
		id:          id,
		name:        name,
		temperature: ambientTempC,
		pressure:    ambientPressure,
		fuelLevel:   100,
		status:      StatusShutdown,
		clock:       systemClock{},
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastMaintenance = r.clock.Now()
	r.rods = make([]*ControlRod, 0, rodCount)
	for i := 1; i <= rodCount; i++ {
		r.rods = append(r.rods, NewControlRod(fmt.Sprintf("CR-%d", i), 100))
	}
	return r, nil
}

// ID returns the reactor identity. Equality is by id only.
func (r *Reactor) ID() string { return r.id }

// Name returns the display name.
func (r *Reactor) Name() string { return r.name }

// SetName changes the display name.
func (r *Reactor) SetName(name string) { r.name = name }

// Temperature returns the core temperature in Celsius.
func (r *Reactor) Temperature() float64 { return r.temperature }

// Pressure returns the vessel pressure in MPa.
func (r *Reactor) Pressure() float64 { return r.pressure }

// PowerOutput returns the electrical output in MW.
func (r *Reactor) PowerOutput() float64 { return r.powerOutput }

// FuelLevel returns the remaining fuel in percent.
func (r *Reactor) FuelLevel() float64 { return r.fuelLevel }

// Status returns the lifecycle state.
func (r *Reactor) Status() Status { return r.status }

// LastMaintenance returns the most recent completed maintenance time.
func (r *Reactor) LastMaintenance() time.Time { return r.lastMaintenance }

// OperationalHours returns the accumulated whole hours of operation.
func (r *Reactor) OperationalHours() int { return r.operationalHours }

// ControlRods returns a detached snapshot of the rod fleet. Mutating the
// returned rods never affects reactor state.
func (r *Reactor) ControlRods() []*ControlRod {
	rods := make([]*ControlRod, 0, len(r.rods))
	for _, rod := range r.rods {
		rods = append(rods, rod.Clone())
	}
	return rods
}

// Seed setters. These validate bounds but skip the state machine; they
// exist for test fixtures and scenario seeding, mirroring direct writes
// on the aggregate.

// SetTemperature writes the core temperature directly.
func (r *Reactor) SetTemperature(temperature float64) error {
	if temperature < 0 {
		return invalidArgumentf("temperature cannot be negative")
	}
	r.temperature = temperature
	return nil
}

// SetPressure writes the vessel pressure directly.
func (r *Reactor) SetPressure(pressure float64) error {
	if pressure < 0 {
		return invalidArgumentf("pressure cannot be negative")
	}
	r.pressure = pressure
	return nil
}

// SetPowerOutput writes the power output directly.
func (r *Reactor) SetPowerOutput(power float64) error {
	if power < 0 {
		return invalidArgumentf("power output cannot be negative")
	}
	r.powerOutput = power
	return nil
}

// SetFuelLevel writes the fuel level directly.
func (r *Reactor) SetFuelLevel(level float64) error {
	if level < 0 || level > 100 {
		return invalidArgumentf("fuel level must be between 0 and 100")
	}
	r.fuelLevel = level
	return nil
}

// SetOperationalHours writes the hour counter directly.
func (r *Reactor) SetOperationalHours(hours int) error {
	if hours < 0 {
		return invalidArgumentf("operational hours cannot be negative")
	}
	r.operationalHours = hours
	return nil
}

// SetOperationalRod toggles the operational flag on one rod by id.
func (r *Reactor) SetOperationalRod(rodID string, operational bool) error {
	rod := r.findRod(rodID)
	if rod == nil {
		return invalidArgumentf("control rod not found: %s", rodID)
	}
	rod.SetOperational(operational)
	return nil
}

// StartUp moves SHUTDOWN or MAINTENANCE to STARTING_UP. Requires at
// least 10% fuel.
func (r *Reactor) StartUp() error {
	if r.status != StatusShutdown && r.status != StatusMaintenance {
		return invalidStatef("reactor can only be started from %s or %s status, current status is %s",
			StatusShutdown, StatusMaintenance, r.status)
	}
	if r.fuelLevel < minStartupFuel {
		return invalidStatef("insufficient fuel level for startup: %.1f%%", r.fuelLevel)
	}
	r.status = StatusStartingUp
	r.temperature = 100
	r.pressure = 1.0
	return nil
}

// ReachOperational completes the startup sequence.
func (r *Reactor) ReachOperational() error {
	if r.status != StatusStartingUp {
		return invalidStatef("reactor must be in %s status to reach operational, current status is %s",
			StatusStartingUp, r.status)
	}
	r.status = StatusOperational
	r.temperature = 300
	r.pressure = 15.0
	r.powerOutput = nominalPowerMW
	return nil
}

// Shutdown performs a controlled stop. Not legal from emergency
// shutdown; no transition out of that state is defined here.
func (r *Reactor) Shutdown() error {
	if r.status == StatusEmergencyShutdown {
		return invalidStatef("reactor is already in emergency shutdown")
	}
	r.status = StatusShutdown
	r.temperature = 50
	r.pressure = 0.5
	r.powerOutput = 0
	return nil
}

// EmergencyShutdown scrams the reactor from any status. Every rod level
// is force-written to 100, bypassing the rod operational check.
func (r *Reactor) EmergencyShutdown() {
	r.status = StatusEmergencyShutdown
	r.temperature = ambientTempC
	r.pressure = ambientPressure
	r.powerOutput = 0
	for _, rod := range r.rods {
		rod.forceLevel(100)
		rod.commandedLevel = 100
	}
}

// AdjustPower sets the output while OPERATIONAL and re-derives
// temperature and pressure from it.
func (r *Reactor) AdjustPower(targetMW float64) error {
	if r.status != StatusOperational {
		return invalidStatef("power can only be adjusted when reactor is operational, current status is %s", r.status)
	}
	if targetMW < 0 || targetMW > maxPowerMW {
		return invalidArgumentf("power must be between 0 and %.0f MW", maxPowerMW)
	}
	r.powerOutput = targetMW
	r.deriveThermalState()
	return nil
}

// deriveThermalState is the single authoritative coupling between power
// output and the thermal scalars. Rod-driven power changes go through
// here as well, never through an independent formula.
func (r *Reactor) deriveThermalState() {
	r.temperature = ambientTempC + (r.powerOutput/maxPowerMW)*400
	r.pressure = ambientPressure + (r.powerOutput/maxPowerMW)*19.9
}

// InsertControlRod commands one rod to a target level. Movement above
// 0.1% sets a ramp speed of min(5, |movement|/10) %/s toward the target;
// the level itself is written directly. While OPERATIONAL the fleet's
// average insertion feeds back into power output, capped at a 30%
// reduction per command.
func (r *Reactor) InsertControlRod(rodID string, level float64) error {
	rod := r.findRod(rodID)
	if rod == nil {
		return invalidArgumentf("control rod not found: %s", rodID)
	}
	if level < 0 || level > 100 {
		return invalidArgumentf("insertion level must be between 0 and 100")
	}

	movement := level - rod.InsertionLevel()
	if math.Abs(movement) > rodArrivalDelta {
		speed := math.Min(rodRampCap, math.Abs(movement)/rodRampDivisor)
		if movement < 0 {
			speed = -speed
		}
		rod.currentInsertionSpeed = speed
	} else {
		rod.currentInsertionSpeed = 0
	}
	rod.forceLevel(level)
	rod.commandedLevel = level

	if r.status == StatusOperational {
		reduction := (r.averageInsertion() / 100) * maxRodReduction
		r.powerOutput = math.Max(0, r.powerOutput*(1-reduction))
		r.deriveThermalState()
	}
	return nil
}

func (r *Reactor) averageInsertion() float64 {
	if len(r.rods) == 0 {
		return 0
	}
	total := 0.0
	for _, rod := range r.rods {
		total += rod.InsertionLevel()
	}
	return total / float64(len(r.rods))
}

// IsOperational reports whether the reactor is producing power.
func (r *Reactor) IsOperational() bool { return r.status == StatusOperational }

// InDangerZone reports a composite safety-threshold breach.
func (r *Reactor) InDangerZone() bool {
	return r.temperature > 500 || r.pressure > 20 || r.fuelLevel < maintenanceFuel
}

// Efficiency is output scaled by remaining fuel, in percent.
func (r *Reactor) Efficiency() float64 {
	if r.powerOutput == 0 {
		return 0
	}
	return (r.powerOutput / nominalPowerMW) * (r.fuelLevel / 100) * 100
}

// ConsumeFuel burns fuel for the given hours at the current output and
// accumulates whole operational hours. Dropping under 5% forces the
// reactor into MAINTENANCE regardless of its current status.
func (r *Reactor) ConsumeFuel(hours float64) error {
	if hours < 0 {
		return invalidArgumentf("hours cannot be negative")
	}
	consumption := (r.powerOutput / nominalPowerMW) * hours * fuelBurnPerHour
	r.fuelLevel = math.Max(0, r.fuelLevel-consumption)
	r.operationalHours += int(hours)
	if r.fuelLevel < maintenanceFuel {
		r.status = StatusMaintenance
	}
	return nil
}

// PerformMaintenance refuels and returns the reactor to SHUTDOWN. Only
// legal from MAINTENANCE.
func (r *Reactor) PerformMaintenance() error {
	if r.status != StatusMaintenance {
		return invalidStatef("maintenance can only be performed when reactor is in %s status, current status is %s",
			StatusMaintenance, r.status)
	}
	r.fuelLevel = 100
	r.lastMaintenance = r.clock.Now()
	r.status = StatusShutdown
	return nil
}

// SimulateTimeStep advances the simulation by the elapsed seconds:
// moving rods travel toward their commanded level, fuel burns for the
// elapsed wall time, and bounded random perturbations nudge temperature
// and pressure. No-op unless OPERATIONAL. Never returns an error; the
// perturbation is the only nondeterminism and it cannot fail.
func (r *Reactor) SimulateTimeStep(seconds float64) {
	if r.status != StatusOperational || seconds <= 0 {
		return
	}

	for _, rod := range r.rods {
		if rod.currentInsertionSpeed == 0 {
			continue
		}
		if math.Abs(rod.commandedLevel-rod.insertionLevel) < rodArrivalDelta {
			rod.currentInsertionSpeed = 0
			continue
		}
		rod.forceLevel(rod.insertionLevel + rod.currentInsertionSpeed*seconds)
		if math.Abs(rod.commandedLevel-rod.insertionLevel) < rodArrivalDelta {
			rod.currentInsertionSpeed = 0
		}
	}

	_ = r.ConsumeFuel(seconds / 3600)

	scale := seconds / 60
	r.temperature += (r.rng.Float64()*2 - 1) * scale
	r.pressure += (r.rng.Float64()*2 - 1) * 0.1 * scale
	r.temperature = clamp(r.temperature, ambientTempC, tempClampHighC)
	r.pressure = clamp(r.pressure, ambientPressure, pressureClampMax)
}

func (r *Reactor) findRod(id string) *ControlRod {
	for _, rod := range r.rods {
		if rod.ID() == id {
			return rod
		}
	}
	return nil
}
