package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Session lifecycle — bootstrap, state, snapshot, sign-out
// ============================================================

type sessionResponse struct {
	State   domain.BootstrapState `json:"state"`
	Success bool                  `json:"success"`
}

func bootstrapHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/bootstrap")
		defer span.End()

		identity := IdentityFromContext(ctx)
		sess, ok := registry.Bootstrap(ctx, identity)

		writeJSON(w, http.StatusOK, sessionResponse{
			State:   sess.State(),
			Success: ok,
		})
	}
}

func sessionStateHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		sess, ok := registry.Session(identity.ID)
		if !ok {
			writeJSON(w, http.StatusOK, sessionResponse{State: domain.StateUnauthenticated})
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			State:   sess.State(),
			Success: sess.State() == domain.StateReady,
		})
	}
}

func snapshotHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/session/snapshot")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, sess.Store().Snapshot())
	}
}

func signOutHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		registry.SignOut(identity.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Onboarding — POST /v1/tenants
// ============================================================

func createTenantHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/tenants")
		defer span.End()

		var req struct {
			Name     string                `json:"name"`
			Settings domain.TenantSettings `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		if req.Name == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "name", Message: "required"}, logger)
			return
		}

		identity := IdentityFromContext(ctx)
		sess, ok := registry.Session(identity.ID)
		if ok && sess.State() == domain.StateReady {
			// The identity already owns a provisioned tenant.
			handleServiceError(w, &domain.ErrDuplicate{Key: "tenant:" + identity.ID}, logger)
			return
		}
		if !ok || sess.State() != domain.StateNeedsOnboarding {
			writeError(w, http.StatusConflict, "Sessão não está aguardando onboarding")
			return
		}

		if !sess.CreateTenant(ctx, req.Name, req.Settings) {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{
			State:   sess.State(),
			Success: true,
		})
	}
}

// ============================================================
// Tenant settings and subscription
// ============================================================

func updateSettingsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/tenant/settings")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var settings domain.TenantSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		writeOutcome(w, sess.UpdateSettings(ctx, settings))
	}
}

func updateSubscriptionHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/tenant/subscription")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var sub domain.Subscription
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		writeOutcome(w, sess.UpdateSubscription(ctx, sub))
	}
}
