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
// Ordens de Serviço
// ============================================================

func listWorkOrdersHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"work_orders": sess.Store().WorkOrders()})
	}
}

func createWorkOrderHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/work-orders")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var order domain.WorkOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddWorkOrder(ctx, order)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateWorkOrderHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/work-orders/{orderId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var order domain.WorkOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		order.ID = chi.URLParam(r, "orderId")

		writeOutcome(w, sess.UpdateWorkOrder(ctx, order))
	}
}

func completeWorkOrderHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/work-orders/{orderId}/complete")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.CompleteWorkOrder(ctx, chi.URLParam(r, "orderId")))
	}
}

func deleteWorkOrderHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/work-orders/{orderId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteWorkOrder(ctx, chi.URLParam(r, "orderId")))
	}
}
