package server

import (
	"encoding/json"
	"net/http"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/pkg/logger"
)

// DebugHandler отдает последний снимок Runner. Симуляцию не трогает.
type DebugHandler struct {
	Runner *engine.Runner
}

func NewDebugHandler(r *engine.Runner) *DebugHandler {
	return &DebugHandler{Runner: r}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/units", h.handleUnits)
	mux.HandleFunc("/debug/ai", h.handleAI)
	mux.HandleFunc("/debug/objectives", h.handleObjectives)
	mux.HandleFunc("/debug/resources", h.handleResources)
	mux.HandleFunc("/debug/report", h.handleReport)
}

// /debug/state - весь снимок
func (h *DebugHandler) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Runner.Snapshot())
}

// /debug/units?faction=axis - юниты, по умолчанию обе стороны
func (h *DebugHandler) handleUnits(w http.ResponseWriter, r *http.Request) {
	snap := h.Runner.Snapshot()

	switch domain.ParseFaction(r.URL.Query().Get("faction")) {
	case domain.FactionAllied:
		writeJSON(w, snap.PlayerUnits)
	case domain.FactionAxis:
		writeJSON(w, snap.EnemyUnits)
	default:
		writeJSON(w, append(snap.PlayerUnits, snap.EnemyUnits...))
	}
}

// /debug/ai - автоматы оси: состояние, тревога, точки патруля
func (h *DebugHandler) handleAI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Runner.Snapshot().Brains)
}

func (h *DebugHandler) handleObjectives(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Runner.Snapshot().Objectives)
}

func (h *DebugHandler) handleResources(w http.ResponseWriter, _ *http.Request) {
	snap := h.Runner.Snapshot()
	writeJSON(w, map[string]any{
		"tick":      snap.Tick,
		"time":      snap.Time,
		"resources": snap.Resources,
		"state":     snap.State,
	})
}

// /debug/report - отчет, доступен после остановки Runner
func (h *DebugHandler) handleReport(w http.ResponseWriter, _ *http.Request) {
	rep, ok := h.Runner.Report()
	if !ok {
		http.Error(w, "battle is still running", http.StatusConflict)
		return
	}
	writeJSON(w, rep)
}

func writeJSON(w http.ResponseWriter, data any) {
	// Для локального debug-клиента
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug write failed")
	}
}
