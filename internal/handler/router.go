package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/port"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger checks connectivity of the remote store, used by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(registry *service.Registry, verifier port.SessionVerifier, pinger Pinger, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(pinger, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 (all authenticated) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(verifier, registry, logger))

		// =============================================
		// Sessão e onboarding
		// =============================================
		r.Post("/session/bootstrap", bootstrapHandler(registry, logger))
		r.Get("/session", sessionStateHandler(registry, logger))
		r.Get("/session/snapshot", snapshotHandler(registry, logger))
		r.Post("/session/signout", signOutHandler(registry, logger))
		r.Post("/tenants", createTenantHandler(registry, logger))
		r.Put("/tenant/settings", updateSettingsHandler(registry, logger))
		r.Put("/tenant/subscription", updateSubscriptionHandler(registry, logger))

		// =============================================
		// Clientes e veículos
		// =============================================
		r.Get("/clients", listClientsHandler(registry, logger))
		r.Post("/clients", createClientHandler(registry, logger))
		r.Put("/clients/{clientId}", updateClientHandler(registry, logger))
		r.Delete("/clients/{clientId}", deleteClientHandler(registry, logger))
		r.Get("/clients/{clientId}/points", clientPointsHandler(registry, logger))
		r.Post("/clients/{clientId}/points", addManualPointsHandler(registry, logger))
		r.Post("/vehicles", createVehicleHandler(registry, logger))
		r.Put("/vehicles/{vehicleId}", updateVehicleHandler(registry, logger))
		r.Delete("/vehicles/{vehicleId}", deleteVehicleHandler(registry, logger))

		// =============================================
		// Ordens de serviço
		// =============================================
		r.Get("/work-orders", listWorkOrdersHandler(registry, logger))
		r.Post("/work-orders", createWorkOrderHandler(registry, logger))
		r.Put("/work-orders/{orderId}", updateWorkOrderHandler(registry, logger))
		r.Post("/work-orders/{orderId}/complete", completeWorkOrderHandler(registry, logger))
		r.Delete("/work-orders/{orderId}", deleteWorkOrderHandler(registry, logger))

		// =============================================
		// Catálogo e estoque
		// =============================================
		r.Get("/services", listServicesHandler(registry, logger))
		r.Post("/services", createServiceHandler(registry, logger))
		r.Put("/services/{serviceId}", updateServiceHandler(registry, logger))
		r.Delete("/services/{serviceId}", deleteServiceHandler(registry, logger))
		r.Get("/services/{serviceId}/cost", serviceCostHandler(registry, logger))
		r.Patch("/services/{serviceId}/prices", updateServicePriceHandler(registry, logger))
		r.Get("/inventory", listInventoryHandler(registry, logger))
		r.Post("/inventory", createInventoryItemHandler(registry, logger))
		r.Put("/inventory/{itemId}", updateInventoryItemHandler(registry, logger))
		r.Delete("/inventory/{itemId}", deleteInventoryItemHandler(registry, logger))

		// =============================================
		// Funcionários e ledgers
		// =============================================
		r.Get("/employees", listEmployeesHandler(registry, logger))
		r.Post("/employees", createEmployeeHandler(registry, logger))
		r.Put("/employees/{employeeId}", updateEmployeeHandler(registry, logger))
		r.Delete("/employees/{employeeId}", deleteEmployeeHandler(registry, logger))
		r.Get("/employees/transactions", listEmployeeTransactionsHandler(registry, logger))
		r.Post("/employees/transactions", createEmployeeTransactionHandler(registry, logger))
		r.Put("/employees/transactions/{txId}", updateEmployeeTransactionHandler(registry, logger))
		r.Delete("/employees/transactions/{txId}", deleteEmployeeTransactionHandler(registry, logger))
		r.Get("/finance", listFinanceEntriesHandler(registry, logger))
		r.Post("/finance", createFinanceEntryHandler(registry, logger))
		r.Delete("/finance/{entryId}", deleteFinanceEntryHandler(registry, logger))

		// =============================================
		// Fidelidade
		// =============================================
		r.Get("/rewards", listRewardsHandler(registry, logger))
		r.Post("/rewards/{rewardId}/claim", claimRewardHandler(registry, logger))
		r.Get("/vouchers/{code}", voucherDetailsHandler(registry, logger))
		r.Post("/vouchers/{code}/use", useVoucherHandler(registry, logger))

		// =============================================
		// Alertas e métricas
		// =============================================
		r.Get("/alerts", listAlertsHandler(registry, logger))
		r.Post("/alerts/{alertId}/resolve", resolveAlertHandler(registry, logger))
		r.Get("/metrics/core", coreMetricsHandler(metrics, logger))
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

func healthzHandler(pinger Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := "healthy"
		code := http.StatusOK
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				logger.Warn("healthz: remote store unreachable", zap.Error(err))
				status = "degraded"
			}
		}
		writeJSON(w, code, map[string]string{"status": status})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func coreMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetCoreSnapshot())
	}
}
