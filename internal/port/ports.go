// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// TenantStore defines all remote persistence operations of the core.
// Implemented by the Supabase adapter (or any other persistence layer).
// Every operation is scoped by tenant id; reads return (nil, nil) when a
// single expected row does not exist.
type TenantStore interface {
	// Tenant resolution and lifecycle
	ResolveTenantByOwner(ctx context.Context, ownerID string) (*domain.Tenant, error)
	CreateTenant(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	UpdateTenantSettings(ctx context.Context, tenantID string, settings domain.TenantSettings) error
	UpdateSubscription(ctx context.Context, tenantID string, sub domain.Subscription) error

	// Clients and vehicles
	ListClients(ctx context.Context, tenantID string) ([]domain.Client, error)
	CreateClient(ctx context.Context, c *domain.Client) error
	UpdateClient(ctx context.Context, c *domain.Client) error
	DeleteClient(ctx context.Context, tenantID, clientID string) error
	ListVehicles(ctx context.Context, tenantID string) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, tenantID, vehicleID string) error

	// Work orders
	ListWorkOrders(ctx context.Context, tenantID string) ([]domain.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error
	UpdateWorkOrder(ctx context.Context, w *domain.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, tenantID, orderID string) error

	// Inventory
	ListInventory(ctx context.Context, tenantID string) ([]domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, i *domain.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, i *domain.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, tenantID, itemID string) error

	// Service catalog
	ListServices(ctx context.Context, tenantID string) ([]domain.ServiceCatalogItem, error)
	CreateService(ctx context.Context, s *domain.ServiceCatalogItem) error
	UpdateService(ctx context.Context, s *domain.ServiceCatalogItem) error
	DeleteService(ctx context.Context, tenantID, serviceID string) error
	UpdateServicePrices(ctx context.Context, tenantID, serviceID string, prices []domain.PriceMatrixEntry) error

	// Employees and their ledger
	ListEmployees(ctx context.Context, tenantID string) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	UpdateEmployee(ctx context.Context, e *domain.Employee) error
	DeleteEmployee(ctx context.Context, tenantID, employeeID string) error
	ListEmployeeTransactions(ctx context.Context, tenantID string) ([]domain.EmployeeTransaction, error)
	CreateEmployeeTransaction(ctx context.Context, t *domain.EmployeeTransaction) error
	UpdateEmployeeTransaction(ctx context.Context, t *domain.EmployeeTransaction) error
	DeleteEmployeeTransaction(ctx context.Context, tenantID, txID string) error

	// Shop-level finance ledger
	ListFinanceEntries(ctx context.Context, tenantID string) ([]domain.FinancialTransaction, error)
	CreateFinanceEntry(ctx context.Context, t *domain.FinancialTransaction) error
	DeleteFinanceEntry(ctx context.Context, tenantID string, entryID int64) error

	// Loyalty
	ListRewards(ctx context.Context, tenantID string) ([]domain.Reward, error)
	ListPointEntries(ctx context.Context, tenantID string) ([]domain.PointEntry, error)
	CreatePointEntry(ctx context.Context, e *domain.PointEntry) error
	ListRedemptions(ctx context.Context, tenantID string) ([]domain.Redemption, error)
	CreateRedemption(ctx context.Context, r *domain.Redemption) error
	UpdateRedemption(ctx context.Context, r *domain.Redemption) error

	// Alerts
	ListAlerts(ctx context.Context, tenantID string) ([]domain.SystemAlert, error)
	CreateAlert(ctx context.Context, a *domain.SystemAlert) error
	ResolveAlert(ctx context.Context, tenantID, alertID string) error
}

// SessionVerifier validates an access token issued by the external identity
// provider and returns the identity it belongs to.
type SessionVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// AlertNotifier delivers high-severity alerts out of band (SMS).
type AlertNotifier interface {
	Notify(ctx context.Context, phone string, alert domain.SystemAlert) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
