package domain

// ActionResult is the structured outcome of actions that need to surface a
// human-readable reason (e.g. insufficient points). Errors never cross the
// store boundary for these flows.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ClaimResult is the outcome of a reward claim. Code is set on success.
type ClaimResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// BootstrapState is the session resolution state machine.
type BootstrapState string

const (
	StateUnauthenticated BootstrapState = "unauthenticated"
	StateAuthenticating  BootstrapState = "authenticating"
	StateTenantResolving BootstrapState = "tenant_resolving"
	StateReady           BootstrapState = "ready"
	StateNeedsOnboarding BootstrapState = "needs_onboarding"
	StateFailed          BootstrapState = "failed"
)

// Snapshot is a consistent point-in-time copy of every collection in the
// session store. Derivations (points, occupancy, revenue per hour) take a
// snapshot argument instead of reading shared state, so they stay pure.
type Snapshot struct {
	Tenant               Tenant
	Clients              []Client
	Vehicles             []Vehicle
	WorkOrders           []WorkOrder
	InventoryItems       []InventoryItem
	Services             []ServiceCatalogItem
	Employees            []Employee
	EmployeeTransactions []EmployeeTransaction
	FinanceEntries       []FinancialTransaction
	PointEntries         []PointEntry
	Rewards              []Reward
	Redemptions          []Redemption
	Alerts               []SystemAlert
}
