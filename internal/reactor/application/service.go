package application

import (
	"errors"
	"log"
	"sync"
	"time"

	"reactor-sim/internal/observability/metrics"
	reactor "reactor-sim/internal/reactor/domain"
)

// Command names used in logs and metrics labels.
const (
	CommandStartUp            = "start_up"
	CommandReachOperational   = "reach_operational"
	CommandShutdown           = "shutdown"
	CommandEmergencyShutdown  = "emergency_shutdown"
	CommandAdjustPower        = "adjust_power"
	CommandInsertControlRod   = "insert_control_rod"
	CommandPerformMaintenance = "perform_maintenance"
	CommandConsumeFuel        = "consume_fuel"
)

// Service is the serialized command facade over one reactor aggregate.
// The aggregate itself has no locking; every mutation and every snapshot
// goes through the service mutex.
type Service struct {
	mu      sync.Mutex
	reactor *reactor.Reactor
	logger  *log.Logger
}

// NewService constructs a Service.
func NewService(r *reactor.Reactor, logger *log.Logger) (*Service, error) {
	if r == nil {
		return nil, errors.New("application: nil reactor")
	}
	return &Service{reactor: r, logger: logger}, nil
}

// Snapshot returns a detached view of the current state.
func (s *Service) Snapshot() reactor.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reactor.Snapshot()
}

// StartUp begins the startup sequence.
func (s *Service) StartUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandStartUp, s.reactor.StartUp())
}

// ReachOperational completes the startup sequence.
func (s *Service) ReachOperational() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandReachOperational, s.reactor.ReachOperational())
}

// Shutdown performs a controlled stop.
func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandShutdown, s.reactor.Shutdown())
}

// EmergencyShutdown scrams the reactor. Always succeeds.
func (s *Service) EmergencyShutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactor.EmergencyShutdown()
	_ = s.observe(CommandEmergencyShutdown, nil)
}

// AdjustPower sets the target output in MW.
func (s *Service) AdjustPower(targetMW float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandAdjustPower, s.reactor.AdjustPower(targetMW))
}

// InsertControlRod commands one rod to a target level.
func (s *Service) InsertControlRod(rodID string, level float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandInsertControlRod, s.reactor.InsertControlRod(rodID, level))
}

// PerformMaintenance refuels and returns the reactor to shutdown.
func (s *Service) PerformMaintenance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandPerformMaintenance, s.reactor.PerformMaintenance())
}

// ConsumeFuel burns fuel for the given hours at the current output.
func (s *Service) ConsumeFuel(hours float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(CommandConsumeFuel, s.reactor.ConsumeFuel(hours))
}

// Tick advances the simulation by the elapsed seconds and refreshes the
// state gauges.
func (s *Service) Tick(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	started := time.Now()
	s.reactor.SimulateTimeStep(seconds)
	s.refreshGauges()
	metrics.ObserveTickDuration(time.Since(started).Seconds())
}

func (s *Service) observe(command string, err error) error {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultRejected
	}
	metrics.ObserveCommand(command, result)
	if s.logger != nil {
		if err != nil {
			s.logger.Printf("event=reactor_command command=%s reactor_id=%s status=%s error=%q",
				command, s.reactor.ID(), s.reactor.Status(), err.Error())
		} else {
			s.logger.Printf("event=reactor_command command=%s reactor_id=%s status=%s",
				command, s.reactor.ID(), s.reactor.Status())
		}
	}
	if err == nil {
		s.refreshGauges()
	}
	return err
}

func (s *Service) refreshGauges() {
	snap := s.reactor.Snapshot()
	metrics.SetReactorState(snap.Temperature, snap.Pressure, snap.PowerOutput, snap.FuelLevel)
	for _, rod := range snap.ControlRods {
		metrics.SetRodInsertion(rod.ID, rod.InsertionLevel)
	}
}
