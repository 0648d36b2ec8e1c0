// Package state holds the session-scoped entity store: every collection of
// one tenant, kept in memory for the lifetime of the session. The store is
// the optimistic side of the mutation pipeline — services apply changes here
// first, persist remotely, and roll back on failure. A new store is built on
// every bootstrap, so switching tenants can never leak entities.
package state

import (
	"sort"
	"strconv"
	"sync"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// collection is a plain map wrapper. Locking lives on the Store so
// multi-collection operations stay consistent.
type collection[T any] struct {
	items map[string]T
}

func newCollection[T any]() collection[T] {
	return collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id string, v T) { c.items[id] = v }

func (c *collection[T]) del(id string) { delete(c.items, id) }

func (c *collection[T]) replace(items map[string]T) {
	c.items = items
}

func listSorted[T any](c *collection[T]) []T {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}

// Store is the in-memory entity store of one tenant session.
type Store struct {
	mu sync.RWMutex

	tenant domain.Tenant

	clients     collection[domain.Client]
	vehicles    collection[domain.Vehicle]
	workOrders  collection[domain.WorkOrder]
	inventory   collection[domain.InventoryItem]
	services    collection[domain.ServiceCatalogItem]
	employees   collection[domain.Employee]
	employeeTxs collection[domain.EmployeeTransaction]
	finance     collection[domain.FinancialTransaction]
	points      collection[domain.PointEntry]
	rewards     collection[domain.Reward]
	redemptions collection[domain.Redemption]
	alerts      collection[domain.SystemAlert]

	// processed guards completion side effects: key is "orderID:effect".
	processed map[string]bool
}

// New creates an empty store for the given tenant.
func New(tenant domain.Tenant) *Store {
	return &Store{
		tenant:      tenant.Clone(),
		clients:     newCollection[domain.Client](),
		vehicles:    newCollection[domain.Vehicle](),
		workOrders:  newCollection[domain.WorkOrder](),
		inventory:   newCollection[domain.InventoryItem](),
		services:    newCollection[domain.ServiceCatalogItem](),
		employees:   newCollection[domain.Employee](),
		employeeTxs: newCollection[domain.EmployeeTransaction](),
		finance:     newCollection[domain.FinancialTransaction](),
		points:      newCollection[domain.PointEntry](),
		rewards:     newCollection[domain.Reward](),
		redemptions: newCollection[domain.Redemption](),
		alerts:      newCollection[domain.SystemAlert](),
		processed:   make(map[string]bool),
	}
}

// Collections carries the bulk-loaded contents of every collection,
// produced by the bootstrapper.
type Collections struct {
	Clients              []domain.Client
	Vehicles             []domain.Vehicle
	WorkOrders           []domain.WorkOrder
	InventoryItems       []domain.InventoryItem
	Services             []domain.ServiceCatalogItem
	Employees            []domain.Employee
	EmployeeTransactions []domain.EmployeeTransaction
	FinanceEntries       []domain.FinancialTransaction
	PointEntries         []domain.PointEntry
	Rewards              []domain.Reward
	Redemptions          []domain.Redemption
	Alerts               []domain.SystemAlert
}

// Populate replaces every collection with the loaded rows.
func (s *Store) Populate(c Collections) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients.replace(indexBy(c.Clients, func(v domain.Client) string { return v.ID }))
	s.vehicles.replace(indexBy(c.Vehicles, func(v domain.Vehicle) string { return v.ID }))
	s.workOrders.replace(indexBy(cloneAll(c.WorkOrders), func(v domain.WorkOrder) string { return v.ID }))
	s.inventory.replace(indexBy(c.InventoryItems, func(v domain.InventoryItem) string { return v.ID }))
	s.services.replace(indexBy(cloneAll(c.Services), func(v domain.ServiceCatalogItem) string { return v.ID }))
	s.employees.replace(indexBy(c.Employees, func(v domain.Employee) string { return v.ID }))
	s.employeeTxs.replace(indexBy(c.EmployeeTransactions, func(v domain.EmployeeTransaction) string { return v.ID }))
	s.finance.replace(indexBy(c.FinanceEntries, func(v domain.FinancialTransaction) string { return financeKey(v.ID) }))
	s.points.replace(indexBy(c.PointEntries, func(v domain.PointEntry) string { return v.ID }))
	s.rewards.replace(indexBy(c.Rewards, func(v domain.Reward) string { return v.ID }))
	s.redemptions.replace(indexBy(c.Redemptions, func(v domain.Redemption) string { return v.ID }))
	s.alerts.replace(indexBy(c.Alerts, func(v domain.SystemAlert) string { return v.ID }))
}

// cloneAll deep-copies every element of a listed collection. Entities with
// list-valued fields (work orders, catalog services, the tenant) must never
// hand their backing arrays out: a caller editing a returned slice in place
// would write through to the store and to every prior snapshot, bypassing
// the lock.
func cloneAll[T interface{ Clone() T }](items []T) []T {
	for i := range items {
		items[i] = items[i].Clone()
	}
	return items
}

func indexBy[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, v := range items {
		m[key(v)] = v
	}
	return m
}

func financeKey(id int64) string { return strconv.FormatInt(id, 10) }

// Tenant returns a copy of the tenant record.
func (s *Store) Tenant() domain.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant.Clone()
}

// SetTenant replaces the tenant record.
func (s *Store) SetTenant(t domain.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = t.Clone()
}

// Snapshot returns a consistent copy of every collection. Derivations run
// over snapshots, never over the live store.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Snapshot{
		Tenant:               s.tenant.Clone(),
		Clients:              listSorted(&s.clients),
		Vehicles:             listSorted(&s.vehicles),
		WorkOrders:           cloneAll(listSorted(&s.workOrders)),
		InventoryItems:       listSorted(&s.inventory),
		Services:             cloneAll(listSorted(&s.services)),
		Employees:            listSorted(&s.employees),
		EmployeeTransactions: listSorted(&s.employeeTxs),
		FinanceEntries:       listSorted(&s.finance),
		PointEntries:         listSorted(&s.points),
		Rewards:              listSorted(&s.rewards),
		Redemptions:          listSorted(&s.redemptions),
		Alerts:               listSorted(&s.alerts),
	}
}

// MarkEffect records a completion side effect. It returns false when the
// effect was already processed for this key, making re-completion a no-op.
func (s *Store) MarkEffect(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processed[key] {
		return false
	}
	s.processed[key] = true
	return true
}

// UnmarkEffect clears a processed effect, used when the effect's optimistic
// application had to be rolled back entirely.
func (s *Store) UnmarkEffect(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processed, key)
}

// NextFinanceID returns the next free ID of the finance ledger's own
// numeric ID space.
func (s *Store) NextFinanceID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for _, e := range s.finance.items {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// ---- Clients ----

func (s *Store) Client(id string) (domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients.get(id)
}

func (s *Store) PutClient(c domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients.put(c.ID, c)
}

func (s *Store) DeleteClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients.del(id)
}

func (s *Store) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.clients)
}

// ---- Vehicles ----

func (s *Store) Vehicle(id string) (domain.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vehicles.get(id)
}

func (s *Store) PutVehicle(v domain.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles.put(v.ID, v)
}

func (s *Store) DeleteVehicle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles.del(id)
}

func (s *Store) Vehicles() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.vehicles)
}

// ---- Work orders ----

func (s *Store) WorkOrder(id string) (domain.WorkOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workOrders.get(id)
	return w.Clone(), ok
}

func (s *Store) PutWorkOrder(w domain.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders.put(w.ID, w.Clone())
}

func (s *Store) DeleteWorkOrder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders.del(id)
}

func (s *Store) WorkOrders() []domain.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(listSorted(&s.workOrders))
}

// ---- Inventory ----

func (s *Store) InventoryItem(id string) (domain.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory.get(id)
}

func (s *Store) PutInventoryItem(i domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.put(i.ID, i)
}

func (s *Store) DeleteInventoryItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.del(id)
}

func (s *Store) InventoryItems() []domain.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.inventory)
}

// ---- Service catalog ----

func (s *Store) Service(id string) (domain.ServiceCatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.services.get(id)
	return item.Clone(), ok
}

func (s *Store) PutService(item domain.ServiceCatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services.put(item.ID, item.Clone())
}

func (s *Store) DeleteService(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services.del(id)
}

func (s *Store) Services() []domain.ServiceCatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(listSorted(&s.services))
}

// ---- Employees ----

func (s *Store) Employee(id string) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees.get(id)
}

func (s *Store) PutEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees.put(e.ID, e)
}

func (s *Store) DeleteEmployee(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees.del(id)
}

func (s *Store) Employees() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.employees)
}

// ---- Employee transactions ----

func (s *Store) EmployeeTransaction(id string) (domain.EmployeeTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employeeTxs.get(id)
}

func (s *Store) PutEmployeeTransaction(t domain.EmployeeTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeTxs.put(t.ID, t)
}

func (s *Store) DeleteEmployeeTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeTxs.del(id)
}

func (s *Store) EmployeeTransactions() []domain.EmployeeTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.employeeTxs)
}

// ---- Finance ledger ----

func (s *Store) FinanceEntry(id int64) (domain.FinancialTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finance.get(financeKey(id))
}

func (s *Store) PutFinanceEntry(t domain.FinancialTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finance.put(financeKey(t.ID), t)
}

func (s *Store) DeleteFinanceEntry(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finance.del(financeKey(id))
}

func (s *Store) FinanceEntries() []domain.FinancialTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.finance)
}

// ---- Loyalty ----

func (s *Store) PutPointEntry(e domain.PointEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points.put(e.ID, e)
}

func (s *Store) DeletePointEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points.del(id)
}

func (s *Store) PointEntries() []domain.PointEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.points)
}

func (s *Store) Reward(id string) (domain.Reward, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.get(id)
}

func (s *Store) Rewards() []domain.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.rewards)
}

func (s *Store) Redemption(id string) (domain.Redemption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.redemptions.get(id)
}

// RedemptionByCode looks a redemption up by its voucher code.
func (s *Store) RedemptionByCode(code string) (domain.Redemption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.redemptions.items {
		if r.Code == code {
			return r, true
		}
	}
	return domain.Redemption{}, false
}

func (s *Store) PutRedemption(r domain.Redemption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redemptions.put(r.ID, r)
}

func (s *Store) DeleteRedemption(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redemptions.del(id)
}

func (s *Store) Redemptions() []domain.Redemption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.redemptions)
}

// ---- Alerts ----

func (s *Store) Alert(id string) (domain.SystemAlert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alerts.get(id)
}

func (s *Store) PutAlert(a domain.SystemAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts.put(a.ID, a)
}

func (s *Store) DeleteAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts.del(id)
}

func (s *Store) Alerts() []domain.SystemAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSorted(&s.alerts)
}

// HasUnresolvedAlert reports whether an unresolved alert with the same type
// and message already exists. This is the logical uniqueness check run
// before persisting scan results.
func (s *Store) HasUnresolvedAlert(alertType, message string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts.items {
		if !a.Resolved && a.Type == alertType && a.Message == message {
			return true
		}
	}
	return false
}
