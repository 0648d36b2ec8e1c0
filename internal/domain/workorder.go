package domain

import "time"

// Work order statuses. The set of non-terminal values is open (shops add
// their own); only the two terminal values carry semantics in the core.
const (
	WorkOrderStatusQuote      = "Orçamento"
	WorkOrderStatusInProgress = "Em Andamento"
	WorkOrderStatusCompleted  = "Concluído"
	WorkOrderStatusCancelled  = "Cancelado"
)

// Payment statuses on a work order.
const (
	PaymentStatusPending = "pendente"
	PaymentStatusPaid    = "pago"
)

// WorkOrder is the hybrid row: scalar columns for the frequently filtered
// fields, plus one nested Details document for the structured extras.
// Completion-triggered side effects (stock, points, commission) fire once
// per order.
type WorkOrder struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	ClientID      string     `json:"client_id"`
	VehicleID     string     `json:"vehicle_id"`
	Status        string     `json:"status"`
	TotalValue    float64    `json:"total_value"`
	TechnicianID  string     `json:"technician_id"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	ServiceIDs    []string   `json:"service_ids"`
	Deadline      *time.Time `json:"deadline"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`

	Details WorkOrderDetails `json:"details"`
}

// IsTerminal reports whether the order can no longer change status.
func (w *WorkOrder) IsTerminal() bool {
	return w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCancelled
}

// Clone returns a copy whose service list and details document have their
// own backing arrays.
func (w WorkOrder) Clone() WorkOrder {
	out := w
	out.ServiceIDs = append([]string(nil), w.ServiceIDs...)
	out.Details = w.Details.Clone()
	return out
}

// WorkOrderDetails is the nested document column: optional structured data
// that is never filtered on server-side.
type WorkOrderDetails struct {
	Damages   []Damage        `json:"damages,omitempty"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
	Tasks     []Task          `json:"tasks,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Clone returns a copy with its own backing arrays.
func (d WorkOrderDetails) Clone() WorkOrderDetails {
	out := d
	out.Damages = append([]Damage(nil), d.Damages...)
	out.Checklist = append([]ChecklistItem(nil), d.Checklist...)
	out.Tasks = append([]Task(nil), d.Tasks...)
	return out
}

// Damage is a pre-existing damage noted at vehicle intake.
type Damage struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

// ChecklistItem is one intake checklist entry.
type ChecklistItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Task is an internal to-do on the order.
type Task struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}
