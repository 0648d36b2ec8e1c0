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
// Fidelidade — pontos, recompensas e vouchers
// ============================================================

func clientPointsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		points, ok := sess.ClientPoints(chi.URLParam(r, "clientId"))
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "cliente", ID: chi.URLParam(r, "clientId")}, logger)
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}

func addManualPointsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/clients/{clientId}/points")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var req struct {
			Points      int    `json:"points"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		if req.Points == 0 {
			handleServiceError(w, &domain.ErrValidation{Field: "points", Message: "must be non-zero"}, logger)
			return
		}

		entry, ok := sess.AddManualPoints(ctx, chi.URLParam(r, "clientId"), req.Points, req.Description)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func listRewardsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rewards": sess.Store().Rewards()})
	}
}

func claimRewardHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/rewards/{rewardId}/claim")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var req struct {
			ClientID string `json:"client_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		if req.ClientID == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "client_id", Message: "required"}, logger)
			return
		}

		result := sess.ClaimReward(ctx, req.ClientID, chi.URLParam(r, "rewardId"))
		status := http.StatusOK
		if !result.Success {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, result)
	}
}

func voucherDetailsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		details, ok := sess.VoucherDetails(chi.URLParam(r, "code"))
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "voucher", ID: chi.URLParam(r, "code")}, logger)
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

func useVoucherHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/vouchers/{code}/use")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var req struct {
			WorkOrderID string `json:"work_order_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		writeOutcome(w, sess.UseVoucher(ctx, chi.URLParam(r, "code"), req.WorkOrderID))
	}
}

// ============================================================
// Alertas
// ============================================================

func listAlertsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"alerts": sess.Store().Alerts()})
	}
}

func resolveAlertHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/alerts/{alertId}/resolve")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.MarkAlertResolved(ctx, chi.URLParam(r, "alertId")))
	}
}
