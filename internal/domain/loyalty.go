package domain

import "time"

// Loyalty point entry types. Service points are credited on order
// completion; manual entries are signed operator adjustments.
const (
	PointEntryService = "service"
	PointEntryManual  = "manual"
)

// PointEntry is one row of the append-only loyalty ledger.
type PointEntry struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ClientID    string    `json:"client_id"`
	Type        string    `json:"type"`
	Points      int       `json:"points"` // signed
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reward is a redeemable benefit gated by a points cost.
type Reward struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	Name           string `json:"name"`
	RequiredPoints int    `json:"required_points"`
	Description    string `json:"description"`
}

// Redemption statuses. The transition active → used is one-way.
const (
	RedemptionActive = "active"
	RedemptionUsed   = "used"
)

// Redemption is a claimed reward represented by a single-use code.
type Redemption struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ClientID    string     `json:"client_id"`
	RewardID    string     `json:"reward_id"`
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UsedAt      *time.Time `json:"used_at"`
	WorkOrderID string     `json:"work_order_id,omitempty"`
}

// ClientPoints is fully derived from the ledger, never stored.
type ClientPoints struct {
	ClientID     string `json:"client_id"`
	TotalPoints  int    `json:"total_points"`
	Tier         string `json:"tier"`
	CurrentLevel int    `json:"current_level"` // 1-based ascending tier index
}

// VoucherDetails pairs a redemption with its reward definition.
type VoucherDetails struct {
	Redemption Redemption `json:"redemption"`
	Reward     Reward     `json:"reward"`
}
