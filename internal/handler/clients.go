package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Clientes
// ============================================================

func listClientsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"clients": sess.Store().Clients()})
	}
}

func createClientHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/clients")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var c domain.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddClient(ctx, c)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateClientHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/clients/{clientId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var c domain.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		c.ID = chi.URLParam(r, "clientId")

		writeOutcome(w, sess.UpdateClient(ctx, c))
	}
}

func deleteClientHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/clients/{clientId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteClient(ctx, chi.URLParam(r, "clientId")))
	}
}

// ============================================================
// Veículos
// ============================================================

func createVehicleHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/vehicles")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var v domain.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddVehicle(ctx, v)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateVehicleHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/vehicles/{vehicleId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var v domain.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		v.ID = chi.URLParam(r, "vehicleId")

		writeOutcome(w, sess.UpdateVehicle(ctx, v))
	}
}

func deleteVehicleHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/vehicles/{vehicleId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteVehicle(ctx, chi.URLParam(r, "vehicleId")))
	}
}
