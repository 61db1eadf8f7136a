package apihttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"reactor-sim/internal/monitoring"
	"reactor-sim/internal/monitoring/interfaces"
	"reactor-sim/internal/reactor/application"
	reactor "reactor-sim/internal/reactor/domain"
)

// Handler provides the reactor HTTP endpoints.
type Handler struct {
	service *application.Service
	monitor *monitoring.Service
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service, monitor *monitoring.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("apihttp: nil service")
	}
	if monitor == nil {
		return nil, errors.New("apihttp: nil monitor")
	}
	return &Handler{service: service, monitor: monitor}, nil
}

// Register mounts all reactor routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/reactor", h.handleState)
	mux.HandleFunc("/api/v1/reactor/health", h.handleHealth)
	mux.HandleFunc("/api/v1/reactor/performance", h.handlePerformance)
	mux.HandleFunc("/api/v1/reactor/report/export", h.handleExport)
	mux.HandleFunc("/api/v1/reactor/commands", h.handleCommand)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, h.service.Snapshot())
}

type healthResponse struct {
	monitoring.HealthReport
	OperatingSafely bool `json:"operating_safely"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := h.service.Snapshot()
	respondJSON(w, http.StatusOK, healthResponse{
		HealthReport:    h.monitor.AnalyzeHealth(snap),
		OperatingSafely: h.monitor.OperatingSafely(snap),
	})
}

type performanceResponse struct {
	monitoring.PerformanceReport
	PowerUtilization  float64 `json:"power_utilization"`
	Grade             string  `json:"grade"`
	ThermalEfficiency float64 `json:"thermal_efficiency"`
	// nil when the reactor produces no power
	RemainingHours         *float64           `json:"remaining_operational_hours"`
	MaintenanceRecommended bool               `json:"maintenance_recommended"`
	RodEffectiveness       map[string]float64 `json:"rod_effectiveness"`
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := h.service.Snapshot()
	report := h.monitor.PerformanceReport(snap)
	var remaining *float64
	if hours := h.monitor.RemainingOperationalTime(snap); !math.IsInf(hours, 1) {
		remaining = &hours
	}
	respondJSON(w, http.StatusOK, performanceResponse{
		PerformanceReport:      report,
		PowerUtilization:       report.PowerUtilization(),
		Grade:                  report.Grade(),
		ThermalEfficiency:      h.monitor.ThermalEfficiency(snap),
		RemainingHours:         remaining,
		MaintenanceRecommended: h.monitor.MaintenanceRecommended(snap),
		RodEffectiveness:       h.monitor.RodEffectiveness(snap),
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := r.URL.Query().Get("format")
	snap := h.service.Snapshot()
	report := h.monitor.PerformanceReport(snap)
	health := h.monitor.AnalyzeHealth(snap)

	switch format {
	case "pdf":
		data, err := interfaces.BuildPerformancePDF(report, health, snap.ControlRods)
		if err != nil {
			respondError(w, fmt.Errorf("export pdf: %w", err))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-performance.pdf", snap.ReactorID))
		_, _ = w.Write(data)
	case "xlsx":
		data, err := interfaces.BuildPerformanceXLSX(report, health, snap.ControlRods)
		if err != nil {
			respondError(w, fmt.Errorf("export xlsx: %w", err))
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-performance.xlsx", snap.ReactorID))
		_, _ = w.Write(data)
	default:
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "format must be pdf or xlsx"})
	}
}

type commandRequest struct {
	Command  string  `json:"command"`
	TargetMW float64 `json:"target_mw"`
	RodID    string  `json:"rod_id"`
	Level    float64 `json:"level"`
	Hours    float64 `json:"hours"`
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "read body error"})
		return
	}
	defer r.Body.Close()

	var req commandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	switch req.Command {
	case application.CommandStartUp:
		err = h.service.StartUp()
	case application.CommandReachOperational:
		err = h.service.ReachOperational()
	case application.CommandShutdown:
		err = h.service.Shutdown()
	case application.CommandEmergencyShutdown:
		h.service.EmergencyShutdown()
	case application.CommandAdjustPower:
		err = h.service.AdjustPower(req.TargetMW)
	case application.CommandInsertControlRod:
		err = h.service.InsertControlRod(req.RodID, req.Level)
	case application.CommandPerformMaintenance:
		err = h.service.PerformMaintenance()
	case application.CommandConsumeFuel:
		err = h.service.ConsumeFuel(req.Hours)
	default:
		respondJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unknown command %q", req.Command)})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.service.Snapshot())
}

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reactor.ErrInvalidArgument):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, reactor.ErrInvalidState):
		respondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}
