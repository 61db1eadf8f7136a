package reactor

import "math"

// Default mechanical limit for rod travel, in percent per second.
const defaultMaxInsertionSpeed = 10.0

// ControlRod is a rod actuator owned by a Reactor. Insertion level runs
// from 0 (fully withdrawn) to 100 (fully inserted). Identity is the id
// alone; level and speed are not part of identity.
type ControlRod struct {
	id                    string
	insertionLevel        float64
	operational           bool
	maxInsertionSpeed     float64
	currentInsertionSpeed float64
	commandedLevel        float64
}

// NewControlRod creates an operational rod. The initial level is clamped
// into [0,100]; construction never fails on range.
func NewControlRod(id string, insertionLevel float64) *ControlRod {
	level := clamp(insertionLevel, 0, 100)
	return &ControlRod{
		id:                id,
		insertionLevel:    level,
		operational:       true,
		maxInsertionSpeed: defaultMaxInsertionSpeed,
		commandedLevel:    level,
	}
}

// ID returns the rod identity.
func (r *ControlRod) ID() string { return r.id }

// InsertionLevel returns the current insertion level in percent.
func (r *ControlRod) InsertionLevel() float64 { return r.insertionLevel }

// Operational reports whether the rod accepts movement commands.
func (r *ControlRod) Operational() bool { return r.operational }

// SetOperational toggles the operational flag.
func (r *ControlRod) SetOperational(operational bool) { r.operational = operational }

// MaxInsertionSpeed returns the speed limit in percent per second.
func (r *ControlRod) MaxInsertionSpeed() float64 { return r.maxInsertionSpeed }

// InsertionSpeed returns the current speed. Positive means inserting.
func (r *ControlRod) InsertionSpeed() float64 { return r.currentInsertionSpeed }

// Equal reports identity equality: same id, regardless of level or speed.
func (r *ControlRod) Equal(other *ControlRod) bool {
	return r != nil && other != nil && r.id == other.id
}

// Insert pushes the rod further in, clamped at 100.
func (r *ControlRod) Insert(amount float64) error {
	if !r.operational {
		return invalidStatef("control rod %s is not operational", r.id)
	}
	if amount < 0 {
		return invalidArgumentf("insertion amount cannot be negative")
	}
	r.insertionLevel = math.Min(100, r.insertionLevel+amount)
	return nil
}

// Withdraw pulls the rod further out, clamped at 0.
func (r *ControlRod) Withdraw(amount float64) error {
	if !r.operational {
		return invalidStatef("control rod %s is not operational", r.id)
	}
	if amount < 0 {
		return invalidArgumentf("withdrawal amount cannot be negative")
	}
	r.insertionLevel = math.Max(0, r.insertionLevel-amount)
	return nil
}

// FullyInsert drives the rod to 100.
func (r *ControlRod) FullyInsert() error {
	if !r.operational {
		return invalidStatef("control rod %s is not operational", r.id)
	}
	r.insertionLevel = 100
	return nil
}

// FullyWithdraw drives the rod to 0.
func (r *ControlRod) FullyWithdraw() error {
	if !r.operational {
		return invalidStatef("control rod %s is not operational", r.id)
	}
	r.insertionLevel = 0
	return nil
}

// SetInsertionLevel writes the level directly. Unlike Insert/Withdraw
// this does not check the operational flag; the reactor uses it for
// forced writes during emergency shutdown.
func (r *ControlRod) SetInsertionLevel(level float64) error {
	if level < 0 || level > 100 {
		return invalidArgumentf("insertion level must be between 0 and 100")
	}
	r.insertionLevel = level
	return nil
}

// SetInsertionSpeed stores a signed speed within the rod's limit.
func (r *ControlRod) SetInsertionSpeed(speed float64) error {
	if math.Abs(speed) > r.maxInsertionSpeed {
		return invalidArgumentf("speed %.2f exceeds maximum insertion speed %.2f", speed, r.maxInsertionSpeed)
	}
	r.currentInsertionSpeed = speed
	return nil
}

// SetMaxInsertionSpeed changes the speed limit.
func (r *ControlRod) SetMaxInsertionSpeed(speed float64) error {
	if speed < 0 {
		return invalidArgumentf("max insertion speed cannot be negative")
	}
	r.maxInsertionSpeed = speed
	return nil
}

// EmergencyInsert drives the rod to 100 at its maximum speed.
func (r *ControlRod) EmergencyInsert() error {
	if !r.operational {
		return invalidStatef("control rod %s is not operational", r.id)
	}
	r.currentInsertionSpeed = r.maxInsertionSpeed
	return r.FullyInsert()
}

// SimulateMovement advances the rod by its current speed over the given
// elapsed seconds. No-op when the rod is out of service or at rest.
func (r *ControlRod) SimulateMovement(seconds float64) {
	if !r.operational || r.currentInsertionSpeed == 0 {
		return
	}
	movement := r.currentInsertionSpeed * seconds
	if movement > 0 {
		_ = r.Insert(movement)
		return
	}
	_ = r.Withdraw(math.Abs(movement))
}

// Effectiveness is the realized fraction of the rod's absorbing
// capacity: 0 when out of service, level/100 otherwise.
func (r *ControlRod) Effectiveness() float64 {
	if !r.operational {
		return 0
	}
	return r.insertionLevel / 100
}

// FullyInserted reports whether the rod is at the inserted boundary.
func (r *ControlRod) FullyInserted() bool { return r.insertionLevel >= 100 }

// FullyWithdrawn reports whether the rod is at the withdrawn boundary.
func (r *ControlRod) FullyWithdrawn() bool { return r.insertionLevel <= 0 }

// Clone returns a detached copy.
func (r *ControlRod) Clone() *ControlRod {
	if r == nil {
		return nil
	}
	copy := *r
	return &copy
}

// forceLevel bypasses all validation. Reserved for reactor-internal
// writes (emergency shutdown, commanded moves).
func (r *ControlRod) forceLevel(level float64) {
	r.insertionLevel = clamp(level, 0, 100)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
