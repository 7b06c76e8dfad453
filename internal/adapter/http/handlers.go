package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/predict"
)

type handlers struct {
	service   predict.Servicer
	states    *domain.CategoryEncoder
	grades    *domain.CategoryEncoder
	modelName string
	logger    *slog.Logger
}

func (h *handlers) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":             "Welcome to the Nigerian Maize Yield Prediction API",
		"description":         "Predicts maize yields based on state, season, year, farm area, and quality grade",
		"health_check":        "/health",
		"prediction_endpoint": "/predict (POST)",
		"batch_endpoint":      "/predict/batch (POST)",
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"model_loaded":     true,
		"available_states": h.states.Len(),
		"available_grades": h.grades.Len(),
	})
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body: "+err.Error()))
		return
	}

	resp, err := h.service.Predict(r.Context(), req)
	if err != nil {
		h.writePredictionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []domain.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body: "+err.Error()))
		return
	}

	responses, err := h.service.PredictBatch(r.Context(), reqs)
	if err != nil {
		h.writePredictionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(responses),
		"predictions": responses,
	})
}

func (h *handlers) handleStates(w http.ResponseWriter, _ *http.Request) {
	labels := h.states.Labels()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(labels),
		"states": labels,
	})
}

func (h *handlers) handleGrades(w http.ResponseWriter, _ *http.Request) {
	labels := h.grades.Labels()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(labels),
		"grades": labels,
	})
}

// writePredictionError maps pipeline errors onto status codes: validation
// failures are 422 with field detail, everything else is a generic 500. The
// internal detail is logged server-side and never leaks to the caller.
func (h *handlers) writePredictionError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"field":  verr.Field,
			"kind":   string(verr.Kind),
			"detail": err.Error(),
		})
		return
	}

	h.logger.Error("prediction failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody("prediction failed"))
}

func errorBody(detail string) map[string]string {
	return map[string]string{"error": detail}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
