package domain

import "time"

// Client statuses and segments are derived on every load from LastVisit,
// LTV and VisitCount. They are never the source of truth in the database.
const (
	ClientStatusActive   = "ativo"
	ClientStatusInactive = "inativo"

	ClientSegmentNew     = "novo"
	ClientSegmentRegular = "regular"
	ClientSegmentVIP     = "vip"
)

// Client is a customer of the shop. LTV is monotonically non-decreasing
// except through explicit corrections.
type Client struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	Address    string     `json:"address"`
	LTV        float64    `json:"ltv"`
	VisitCount int        `json:"visit_count"`
	LastVisit  *time.Time `json:"last_visit"`
	CreatedAt  time.Time  `json:"created_at"`

	// Derived, recomputed on load and after every mutation.
	Status  string `json:"-"`
	Segment string `json:"-"`
}

// Derive recomputes the client's status and segment relative to now.
func (c *Client) Derive(now time.Time) {
	c.Status = ClientStatusActive
	if c.LastVisit == nil || now.Sub(*c.LastVisit) > 90*24*time.Hour {
		c.Status = ClientStatusInactive
	}

	switch {
	case c.LTV >= 5000:
		c.Segment = ClientSegmentVIP
	case c.VisitCount >= 3:
		c.Segment = ClientSegmentRegular
	default:
		c.Segment = ClientSegmentNew
	}
}

// Vehicle belongs to a client. Size selects the row of the price matrix.
type Vehicle struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	ClientID string `json:"client_id"`
	Plate    string `json:"plate"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Size     string `json:"size"` // "pequeno", "medio", "grande"
}
