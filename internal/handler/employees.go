package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Funcionários
// ============================================================

func listEmployeesHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": sess.Store().Employees()})
	}
}

func createEmployeeHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/employees")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var e domain.Employee
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddEmployee(ctx, e)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateEmployeeHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/employees/{employeeId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var e domain.Employee
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		e.ID = chi.URLParam(r, "employeeId")

		writeOutcome(w, sess.UpdateEmployee(ctx, e))
	}
}

func deleteEmployeeHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/employees/{employeeId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteEmployee(ctx, chi.URLParam(r, "employeeId")))
	}
}

// ============================================================
// Ledger de pagamentos de funcionários
// ============================================================

func listEmployeeTransactionsHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": sess.Store().EmployeeTransactions()})
	}
}

func createEmployeeTransactionHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/employees/transactions")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var t domain.EmployeeTransaction
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddEmployeeTransaction(ctx, t)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateEmployeeTransactionHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/employees/transactions/{txId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var t domain.EmployeeTransaction
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}
		t.ID = chi.URLParam(r, "txId")

		writeOutcome(w, sess.UpdateEmployeeTransaction(ctx, t))
	}
}

func deleteEmployeeTransactionHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/employees/transactions/{txId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeOutcome(w, sess.DeleteEmployeeTransaction(ctx, chi.URLParam(r, "txId")))
	}
}

// ============================================================
// Financeiro (loja)
// ============================================================

func listFinanceEntriesHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": sess.Store().FinanceEntries()})
	}
}

func createFinanceEntryHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/finance")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		var t domain.FinancialTransaction
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "body", Message: "invalid request body"}, logger)
			return
		}

		created, ok := sess.AddFinanceEntry(ctx, t)
		if !ok {
			writeOutcome(w, false)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func deleteFinanceEntryHandler(registry *service.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/finance/{entryId}")
		defer span.End()

		sess := readySession(w, r, registry)
		if sess == nil {
			return
		}

		entryID, err := strconv.ParseInt(chi.URLParam(r, "entryId"), 10, 64)
		if err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "entryId", Message: "must be numeric"}, logger)
			return
		}
		writeOutcome(w, sess.DeleteFinanceEntry(ctx, entryID))
	}
}
