package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "reactor_"

	ResultSuccess  = "success"
	ResultRejected = "rejected"
)

var (
	registerOnce sync.Once

	temperature  prometheus.Gauge
	pressure     prometheus.Gauge
	powerOutput  prometheus.Gauge
	fuelLevel    prometheus.Gauge
	healthScore  prometheus.Gauge
	rodInsertion *prometheus.GaugeVec

	commandsTotal *prometheus.CounterVec
	safetyAlerts  prometheus.Counter

	tickDuration prometheus.Histogram
)

// Init registers simulation metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		temperature = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "temperature_celsius",
			Help: "Core temperature in Celsius",
		})
		pressure = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "pressure_mpa",
			Help: "Vessel pressure in MPa",
		})
		powerOutput = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "power_output_mw",
			Help: "Electrical output in MW",
		})
		fuelLevel = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "fuel_level_percent",
			Help: "Remaining fuel in percent",
		})
		healthScore = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "health_score",
			Help: "Derived health score, 0-100",
		})
		rodInsertion = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "control_rod_insertion_percent",
				Help: "Control rod insertion level by rod id",
			},
			[]string{"rod_id"},
		)

		commandsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_total",
				Help: "Total reactor commands by command and result",
			},
			[]string{"command", "result"},
		)
		safetyAlerts = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "safety_alerts_total",
			Help: "Total safety alerts raised by the simulation loop",
		})

		tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "tick_duration_seconds",
			Help:    "Simulation tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			temperature, pressure, powerOutput, fuelLevel, healthScore,
			rodInsertion, commandsTotal, safetyAlerts, tickDuration,
		)
	})
}

// SetReactorState refreshes the scalar gauges.
func SetReactorState(temp, press, power, fuel float64) {
	if temperature == nil {
		return
	}
	temperature.Set(temp)
	pressure.Set(press)
	powerOutput.Set(power)
	fuelLevel.Set(fuel)
}

// SetHealthScore refreshes the derived health score gauge.
func SetHealthScore(score float64) {
	if healthScore == nil {
		return
	}
	healthScore.Set(score)
}

// SetRodInsertion refreshes one rod's insertion gauge.
func SetRodInsertion(rodID string, level float64) {
	if rodInsertion == nil {
		return
	}
	rodInsertion.WithLabelValues(rodID).Set(level)
}

// ObserveCommand counts one command by result.
func ObserveCommand(command, result string) {
	if commandsTotal == nil {
		return
	}
	commandsTotal.WithLabelValues(command, result).Inc()
}

// ObserveSafetyAlert counts one raised safety alert.
func ObserveSafetyAlert() {
	if safetyAlerts == nil {
		return
	}
	safetyAlerts.Inc()
}

// ObserveTickDuration records a simulation tick duration.
func ObserveTickDuration(seconds float64) {
	if tickDuration == nil {
		return
	}
	tickDuration.Observe(seconds)
}
