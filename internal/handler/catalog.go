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
// Catálogo de Serviços
// ============================================================

func listServicesHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": sess.Store().Services()})
	}
}

func createServiceHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/services")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var item domain.ServiceCatalogItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddService(ctx, item)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateServiceHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/services/{serviceId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var item domain.ServiceCatalogItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		item.ID = chi.URLParam(r, "serviceId")

		writeOutcome(w, sess.UpdateService(ctx, item))
	}
}

func deleteServiceHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/services/{serviceId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteService(ctx, chi.URLParam(r, "serviceId")))
	}
}

// serviceCostHandler resolves the price matrix entry of a service for a
// vehicle size: GET /v1/services/{serviceId}/cost?size=medio
func serviceCostHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		size := r.URL.Query().Get("size")
		if size == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "size", Message: "required"}, logger)
			return
		}

		price, ok := sess.CalculateServiceCost(chi.URLParam(r, "serviceId"), size)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "preço", ID: chi.URLParam(r, "serviceId") + "/" + size}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"size": size, "price": price})
	}
}

// updateServicePriceHandler edits one price matrix cell. The remote write
// is debounced; the response reflects the optimistic local value.
func updateServicePriceHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "PATCH /v1/services/{serviceId}/prices")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var req struct {
			Size  string  `json:"size"`
			Price float64 `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		if req.Size == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "size", Message: "required"}, logger)
			return
		}

		writeOutcome(w, sess.UpdateServicePrice(chi.URLParam(r, "serviceId"), req.Size, req.Price))
	}
}

// ============================================================
// Estoque
// ============================================================

func listInventoryHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": sess.Store().InventoryItems()})
	}
}

func createInventoryItemHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/inventory")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var item domain.InventoryItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddInventoryItem(ctx, item)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateInventoryItemHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/inventory/{itemId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var item domain.InventoryItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		item.ID = chi.URLParam(r, "itemId")

		writeOutcome(w, sess.UpdateInventoryItem(ctx, item))
	}
}

func deleteInventoryItemHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/inventory/{itemId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteInventoryItem(ctx, chi.URLParam(r, "itemId")))
	}
}
