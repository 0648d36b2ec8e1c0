// Package domain holds the entities of the tenant session: the store
// (tenant), its clients and vehicles, work orders, inventory, service
// catalog, employees, ledgers and alerts. All entities are scoped by
// TenantID; nothing here talks to the network.
package domain

import "time"

// Identity is the authenticated user as resolved by the external identity
// provider. It owns at most one tenant.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tenant is one isolated store/account. Every other entity carries its ID.
type Tenant struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Name         string         `json:"name"`
	Settings     TenantSettings `json:"settings"`
	Subscription Subscription   `json:"subscription"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TenantSettings is the nested configuration document stored on the tenant
// row. Read and written as a single JSON column.
type TenantSettings struct {
	LoyaltyEnabled   bool          `json:"loyalty_enabled"`
	PointsMultiplier float64       `json:"points_multiplier"`
	Tiers            []LoyaltyTier `json:"tiers"`
	CommissionBasis  string        `json:"commission_basis"` // "gross" or "net"
	AlertPhone       string        `json:"alert_phone,omitempty"`
}

// Clone returns a copy whose settings document has its own backing arrays.
func (t Tenant) Clone() Tenant {
	out := t
	out.Settings = t.Settings.Clone()
	return out
}

// Clone returns a copy whose tier list has its own backing array.
func (s TenantSettings) Clone() TenantSettings {
	out := s
	out.Tiers = append([]LoyaltyTier(nil), s.Tiers...)
	return out
}

// CommissionBasis values.
const (
	CommissionBasisGross = "gross"
	CommissionBasisNet   = "net"
)

// LoyaltyTier is a loyalty level gated by a points threshold.
type LoyaltyTier struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// Subscription is the tenant's plan document.
type Subscription struct {
	Plan         string `json:"plan"`
	TokenBalance int    `json:"token_balance"`
	Status       string `json:"status"`
}
