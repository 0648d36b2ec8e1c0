package domain

// ServiceCatalogItem is a service the shop sells. Prices and material
// consumption are nested documents on the service row.
type ServiceCatalogItem struct {
	ID              string               `json:"id"`
	TenantID        string               `json:"tenant_id"`
	Name            string               `json:"name"`
	DurationMinutes int                  `json:"duration_minutes"`
	Prices          []PriceMatrixEntry   `json:"prices"`
	Consumption     []ServiceConsumption `json:"consumption"`
}

// PriceMatrixEntry is the price of a service for one vehicle size.
type PriceMatrixEntry struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// PriceFor resolves the matrix entry for a size. ok is false when the
// service has no price configured for that size.
func (s *ServiceCatalogItem) PriceFor(size string) (float64, bool) {
	for _, p := range s.Prices {
		if p.Size == size {
			return p.Price, true
		}
	}
	return 0, false
}

// Clone returns a copy whose price matrix and consumption list have their
// own backing arrays.
func (s ServiceCatalogItem) Clone() ServiceCatalogItem {
	out := s
	out.Prices = append([]PriceMatrixEntry(nil), s.Prices...)
	out.Consumption = append([]ServiceConsumption(nil), s.Consumption...)
	return out
}

// ServiceConsumption links a service to the inventory quantity it consumes
// on completion (bill of materials).
type ServiceConsumption struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// Inventory item statuses, derived from stock vs. minimum stock.
const (
	InventoryStatusOK       = "ok"
	InventoryStatusWarning  = "warning"
	InventoryStatusCritical = "critical"
)

// InventoryItem is a stocked material. Stock is clamped at zero on
// deduction; Status is derived, never persisted as truth.
type InventoryItem struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenant_id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"min_stock"`
	UnitCost float64 `json:"unit_cost"`

	Status string `json:"-"`
}

// Derive recomputes the stock status. Critical at or below half the
// minimum, warning at or below the minimum.
func (i *InventoryItem) Derive() {
	switch {
	case i.Stock <= i.MinStock/2:
		i.Status = InventoryStatusCritical
	case i.Stock <= i.MinStock:
		i.Status = InventoryStatusWarning
	default:
		i.Status = InventoryStatusOK
	}
}
