package domain

import "time"

// Salary models.
const (
	SalaryTypeCommission = "commission"
	SalaryTypeFixed      = "fixed"
	SalaryTypeMixed      = "mixed"
)

// Employee transaction types. Credits are positive, debits negative.
const (
	EmployeeTxCommission = "commission"
	EmployeeTxSalary     = "salary"
	EmployeeTxAdvance    = "advance"
	EmployeeTxPayment    = "payment"
)

// Employee is a staff member. Balance is never written directly by callers;
// it accumulates through EmployeeTransaction entries and always equals the
// sum of their signed amounts.
type Employee struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	SalaryType     string  `json:"salary_type"`
	BaseSalary     float64 `json:"base_salary"`
	CommissionRate float64 `json:"commission_rate"` // percentage, e.g. 10 = 10%
	Balance        float64 `json:"balance"`
}

// EarnsCommission reports whether completed orders credit this employee.
func (e *Employee) EarnsCommission() bool {
	return e.SalaryType == SalaryTypeCommission || e.SalaryType == SalaryTypeMixed
}

// EmployeeTransaction is an append-only ledger entry for staff pay.
type EmployeeTransaction struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	EmployeeID  string    `json:"employee_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"` // signed
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	WorkOrderID string    `json:"work_order_id,omitempty"`
}

// FinancialTransaction is a shop-level ledger entry. Its numeric ID space is
// independent from every other entity.
type FinancialTransaction struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Type        string    `json:"type"` // "income" or "expense"
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}
