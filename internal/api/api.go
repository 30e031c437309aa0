package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"portfoliodash/pkg/portfolio"
)

// NewRouter builds the HTTP API router over store. Request logs go to the
// store's logger.
func NewRouter(store *portfolio.Store) http.Handler {
	logger := slog.Default()
	if store != nil && store.Logger() != nil {
		logger = store.Logger()
	}

	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(h.storeLockMiddleware)

	r.Get("/api/health", h.health)

	// Holdings
	r.Get("/api/holdings", h.getHoldings)
	r.Post("/api/holdings", h.addHolding)
	r.Put("/api/holdings", h.replaceHoldings)
	r.Get("/api/holdings/defaults", h.getHoldingDefaults)
	r.Put("/api/holdings/{index}", h.updateHolding)
	r.Delete("/api/holdings/{index}", h.deleteHolding)

	// Views
	r.Get("/api/summary", h.getSummary)
	r.Get("/api/allocation", h.getAllocation)
	r.Get("/api/cashflow", h.getCashFlow)
	r.Get("/api/profit", h.getProfit)
	r.Get("/api/dashboard", h.getDashboard)

	// Storage
	r.Get("/api/workbook", h.downloadWorkbook)
	r.Get("/api/storage", h.getStorageInfo)
	r.Post("/api/storage/switch", h.switchStorage)

	// Operation logs
	r.Get("/api/operation-logs", h.getOperationLogs)

	return r
}

type handler struct {
	storeMu sync.RWMutex
	store   *portfolio.Store
	logger  *slog.Logger
}

type errorMessageSetter interface {
	SetErrorMessage(message string)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if setter, ok := w.(errorMessageSetter); ok {
		setter.SetErrorMessage(message)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
