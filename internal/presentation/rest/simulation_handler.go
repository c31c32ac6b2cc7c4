package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/application/usecase"
)

const maxBodyBytes = 8 << 20

// SimulationHandler serves the simulation endpoints.
type SimulationHandler struct {
	simulate  *usecase.SimulateUseCase
	batch     *usecase.SimulateBatchUseCase
	getStatus *usecase.GetBatchStatusUseCase
	logger    *slog.Logger
	now       func() time.Time
}

// NewSimulationHandler creates the handler. A nil clock means time.Now.
func NewSimulationHandler(
	simulate *usecase.SimulateUseCase,
	batch *usecase.SimulateBatchUseCase,
	getStatus *usecase.GetBatchStatusUseCase,
	logger *slog.Logger,
	now func() time.Time,
) *SimulationHandler {
	if now == nil {
		now = time.Now
	}
	return &SimulationHandler{
		simulate:  simulate,
		batch:     batch,
		getStatus: getStatus,
		logger:    logger,
		now:       now,
	}
}

// RegisterRoutes mounts the endpoints under /api/v1/simulations.
func (h *SimulationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/simulations", func(r chi.Router) {
		r.Post("/", h.handleSimulate)
		r.Post("/batch", h.handleSimulateBatch)
		r.Get("/batch/{batchId}/status", h.handleGetBatchStatus)
	})
}

func (h *SimulationHandler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, h.now(), malformedBody(err))
		return
	}

	resp, err := h.simulate.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, h.now(), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSimulateBatch answers 200 with the ordered results of a small batch
// or 202 with the acceptance of a large one.
func (h *SimulationHandler) handleSimulateBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchSimulationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, h.now(), malformedBody(err))
		return
	}

	resp, err := h.batch.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, h.now(), err)
		return
	}

	if resp.IsAccepted() {
		writeJSON(w, http.StatusAccepted, resp.Accepted)
		return
	}
	w.Header().Set("X-Batch-Id", resp.BatchID)
	writeJSON(w, http.StatusOK, resp.Results)
}

func (h *SimulationHandler) handleGetBatchStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getStatus.Execute(r.Context(), dto.GetBatchStatusRequest{
		BatchID: chi.URLParam(r, "batchId"),
	})
	if err != nil {
		writeError(w, r, h.logger, h.now(), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
