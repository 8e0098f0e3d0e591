package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"camp-engine/internal/engine"
	"camp-engine/pkg/api"
	"camp-engine/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/fields", h.handleFields)
	mux.HandleFunc("/debug/state", h.handleState)
}

// /debug/fields - значения всех полей расстояний по строкам
func (h *DebugHandler) handleFields(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Service.Fields())
}

// /debug/state - полный снимок мира (компоненты, слои сетки).
// /debug/state?view=client - то же, что видит клиент в сообщении INIT.
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "client" {
		writeJSON(w, h.Service.State(api.MessageInit))
		return
	}
	writeJSON(w, h.Service.Snapshot())
}

func writeJSON(w http.ResponseWriter, data any) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Component("debug").WithError(err).Warn("failed to encode debug response")
	}
}
