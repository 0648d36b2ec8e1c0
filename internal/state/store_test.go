package state_test

import (
	"testing"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/state"
)

func newStore() *state.Store {
	return state.New(domain.Tenant{ID: "t1", Name: "Estética Centro"})
}

func TestStore_PopulateAndSnapshot(t *testing.T) {
	s := newStore()
	s.Populate(state.Collections{
		Clients: []domain.Client{
			{ID: "c2", TenantID: "t1", Name: "Bruno"},
			{ID: "c1", TenantID: "t1", Name: "Ana"},
		},
		InventoryItems: []domain.InventoryItem{
			{ID: "i1", TenantID: "t1", Name: "Cera", Stock: 10},
		},
	})

	snap := s.Snapshot()
	if len(snap.Clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(snap.Clients))
	}
	if snap.Clients[0].ID != "c1" || snap.Clients[1].ID != "c2" {
		t.Errorf("expected snapshot sorted by id, got %s, %s", snap.Clients[0].ID, snap.Clients[1].ID)
	}
	if snap.Tenant.ID != "t1" {
		t.Errorf("expected tenant t1, got %s", snap.Tenant.ID)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := newStore()
	s.PutClient(domain.Client{ID: "c1", Name: "Ana", LTV: 100})

	snap := s.Snapshot()
	snap.Clients[0].LTV = 9999

	got, _ := s.Client("c1")
	if got.LTV != 100 {
		t.Errorf("snapshot mutation leaked into store: ltv=%f", got.LTV)
	}
}

func TestStore_ReadsDoNotShareBackingArrays(t *testing.T) {
	s := newStore()
	s.PutService(domain.ServiceCatalogItem{
		ID:   "svc1",
		Name: "Lavagem",
		Prices: []domain.PriceMatrixEntry{
			{Size: "pequeno", Price: 50},
		},
	})

	snap := s.Snapshot()

	// Writing through a fetched copy's slice must reach neither the store
	// entity nor a snapshot taken earlier.
	svc, _ := s.Service("svc1")
	svc.Prices[0].Price = 999

	stored, _ := s.Service("svc1")
	if stored.Prices[0].Price != 50 {
		t.Errorf("in-place edit reached the store entity: price=%.0f", stored.Prices[0].Price)
	}
	if snap.Services[0].Prices[0].Price != 50 {
		t.Errorf("in-place edit reached a prior snapshot: price=%.0f", snap.Services[0].Prices[0].Price)
	}
}

func TestStore_PutCopiesListFields(t *testing.T) {
	s := newStore()

	ids := []string{"svc1"}
	s.PutWorkOrder(domain.WorkOrder{ID: "w1", ServiceIDs: ids})
	ids[0] = "svc-mutated"

	w, _ := s.WorkOrder("w1")
	if w.ServiceIDs[0] != "svc1" {
		t.Errorf("caller slice aliased into the store: %q", w.ServiceIDs[0])
	}
}

func TestStore_TenantTiersAreCopied(t *testing.T) {
	s := state.New(domain.Tenant{
		ID: "t1",
		Settings: domain.TenantSettings{
			Tiers: []domain.LoyaltyTier{{Name: "bronze", MinPoints: 0}},
		},
	})

	tenant := s.Tenant()
	tenant.Settings.Tiers[0].MinPoints = 1000

	if got := s.Tenant().Settings.Tiers[0].MinPoints; got != 0 {
		t.Errorf("tier edit through a returned copy reached the store: %d", got)
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	s := newStore()
	s.PutWorkOrder(domain.WorkOrder{ID: "w1", Status: domain.WorkOrderStatusQuote})

	w, ok := s.WorkOrder("w1")
	if !ok || w.Status != domain.WorkOrderStatusQuote {
		t.Fatalf("expected stored order, got ok=%v status=%q", ok, w.Status)
	}

	s.DeleteWorkOrder("w1")
	if _, ok := s.WorkOrder("w1"); ok {
		t.Fatal("expected order to be deleted")
	}
}

func TestStore_TenantIsolation(t *testing.T) {
	s1 := state.New(domain.Tenant{ID: "t1"})
	s1.PutClient(domain.Client{ID: "c1", TenantID: "t1"})

	// Switching tenants builds a fresh store; nothing from t1 is visible.
	s2 := state.New(domain.Tenant{ID: "t2"})
	if len(s2.Clients()) != 0 {
		t.Fatal("expected new tenant store to be empty")
	}
	if _, ok := s2.Client("c1"); ok {
		t.Fatal("client from t1 visible in t2 store")
	}
}

func TestStore_MarkEffect(t *testing.T) {
	s := newStore()

	if !s.MarkEffect("w1:commission") {
		t.Fatal("expected first mark to succeed")
	}
	if s.MarkEffect("w1:commission") {
		t.Fatal("expected second mark to be rejected")
	}

	s.UnmarkEffect("w1:commission")
	if !s.MarkEffect("w1:commission") {
		t.Fatal("expected mark after unmark to succeed")
	}
}

func TestStore_NextFinanceID(t *testing.T) {
	s := newStore()
	if got := s.NextFinanceID(); got != 1 {
		t.Fatalf("expected first id 1, got %d", got)
	}

	s.PutFinanceEntry(domain.FinancialTransaction{ID: 7, Type: "income", Amount: 50})
	if got := s.NextFinanceID(); got != 8 {
		t.Fatalf("expected next id 8, got %d", got)
	}
}

func TestStore_RedemptionByCode(t *testing.T) {
	s := newStore()
	s.PutRedemption(domain.Redemption{ID: "r1", Code: "ABC123", Status: domain.RedemptionActive})

	r, ok := s.RedemptionByCode("ABC123")
	if !ok || r.ID != "r1" {
		t.Fatalf("expected redemption r1, got ok=%v id=%q", ok, r.ID)
	}
	if _, ok := s.RedemptionByCode("XYZ999"); ok {
		t.Fatal("expected unknown code to miss")
	}
}

func TestStore_HasUnresolvedAlert(t *testing.T) {
	s := newStore()
	s.PutAlert(domain.SystemAlert{
		ID:        "a1",
		Type:      domain.AlertTypeAgenda,
		Message:   "Agenda ociosa nos próximos 7 dias",
		Resolved:  false,
		CreatedAt: time.Now(),
	})

	if !s.HasUnresolvedAlert(domain.AlertTypeAgenda, "Agenda ociosa nos próximos 7 dias") {
		t.Fatal("expected unresolved alert match")
	}
	if s.HasUnresolvedAlert(domain.AlertTypeClient, "Agenda ociosa nos próximos 7 dias") {
		t.Fatal("expected no match for different type")
	}

	resolved, _ := s.Alert("a1")
	resolved.Resolved = true
	s.PutAlert(resolved)
	if s.HasUnresolvedAlert(domain.AlertTypeAgenda, "Agenda ociosa nos próximos 7 dias") {
		t.Fatal("expected resolved alert not to block new ones")
	}
}
