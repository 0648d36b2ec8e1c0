package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeOutcome maps the bool result of a mutation to an ActionResult body.
// A false outcome means the change was rolled back (or the target does not
// exist); 422 keeps it distinguishable from transport-level failures.
func writeOutcome(w http.ResponseWriter, ok bool) {
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, domain.ActionResult{
			Success: false,
			Message: "operação não aplicada",
		})
		return
	}
	writeJSON(w, http.StatusOK, domain.ActionResult{Success: true})
}

// readySession resolves the caller's live session. Writes the error
// response and returns nil when the session does not exist or is not Ready.
func readySession(w http.ResponseWriter, r *http.Request, registry *service.Registry) *service.Session {
	identity := IdentityFromContext(r.Context())
	sess, ok := registry.Session(identity.ID)
	if !ok || sess.State() != domain.StateReady {
		writeError(w, http.StatusConflict, "Sessão não inicializada; execute o bootstrap")
		return nil
	}
	return sess
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var external *domain.ErrExternalService
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var insufficientPoints *domain.ErrInsufficientPoints
	var duplicate *domain.ErrDuplicate
	var unauthorized *domain.ErrUnauthorized
	var sessionExpired *domain.ErrSessionExpired

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficientPoints):
		logger.Debug("insufficient points",
			zap.Int("available", insufficientPoints.Available),
			zap.Int("required", insufficientPoints.Required),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &duplicate):
		logger.Debug("duplicate resource", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &sessionExpired):
		logger.Info("session expired")
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &external):
		logger.Error("external service failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
