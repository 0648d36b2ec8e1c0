package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/service"
)

func TestCalculatePoints_CombinesBaseLedgerAndRedemptions(t *testing.T) {
	settings := testTenant().Settings
	client := domain.Client{ID: "c1", LTV: 450}
	entries := []domain.PointEntry{
		{ClientID: "c1", Points: 100},
		{ClientID: "c1", Points: 50},
		{ClientID: "other", Points: 999},
	}
	rewards := []domain.Reward{{ID: "r1", RequiredPoints: 100}}
	redemptions := []domain.Redemption{{ClientID: "c1", RewardID: "r1"}}

	got := service.CalculatePoints(client, settings, entries, redemptions, rewards)

	// 450 base + 150 ledger - 100 redeemed = 500, exactly the silver threshold.
	if got.TotalPoints != 500 {
		t.Errorf("expected 500 points, got %d", got.TotalPoints)
	}
	if got.Tier != "silver" {
		t.Errorf("expected silver, got %q", got.Tier)
	}
	if got.CurrentLevel != 2 {
		t.Errorf("expected level 2, got %d", got.CurrentLevel)
	}
}

func TestCalculatePoints_BalanceNeverNegative(t *testing.T) {
	settings := testTenant().Settings
	client := domain.Client{ID: "c1", LTV: 0}
	entries := []domain.PointEntry{{ClientID: "c1", Points: -50}}

	got := service.CalculatePoints(client, settings, entries, nil, nil)
	if got.TotalPoints != 0 {
		t.Errorf("expected clamp at 0, got %d", got.TotalPoints)
	}
	if got.Tier != "bronze" || got.CurrentLevel != 1 {
		t.Errorf("zero balance still meets the zero-threshold tier, got %q level %d", got.Tier, got.CurrentLevel)
	}
}

func TestCalculatePoints_NoTiersConfigured(t *testing.T) {
	settings := domain.TenantSettings{PointsMultiplier: 1}
	got := service.CalculatePoints(domain.Client{ID: "c1", LTV: 300}, settings, nil, nil, nil)
	if got.Tier != "" || got.CurrentLevel != 0 {
		t.Errorf("expected no tier, got %q level %d", got.Tier, got.CurrentLevel)
	}
}

func TestCalculatePoints_MultiplierScalesBase(t *testing.T) {
	settings := testTenant().Settings
	settings.PointsMultiplier = 1.5
	got := service.CalculatePoints(domain.Client{ID: "c1", LTV: 101}, settings, nil, nil, nil)
	if got.TotalPoints != 151 { // floor(101 * 1.5)
		t.Errorf("expected 151 points, got %d", got.TotalPoints)
	}
}

func TestAddManualPoints_AppendsLedgerEntry(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.clients = []domain.Client{{ID: "c1", TenantID: "tenant-1", Name: "Ana"}}
	sess := readySession(t, remote)

	entry, ok := sess.AddManualPoints(context.Background(), "c1", -30, "ajuste")
	if !ok {
		t.Fatal("expected manual adjustment to succeed")
	}
	if entry.Type != domain.PointEntryManual || entry.Points != -30 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if remote.callCount("CreatePointEntry") != 1 {
		t.Errorf("expected 1 CreatePointEntry call, got %d", remote.callCount("CreatePointEntry"))
	}
}

func TestAddManualPoints_UnknownClientRefused(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := readySession(t, remote)

	if _, ok := sess.AddManualPoints(context.Background(), "ghost", 10, "ajuste"); ok {
		t.Error("adjustment for an unknown client must be refused")
	}
}

func TestClaimReward_Succeeds(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.clients = []domain.Client{{ID: "c1", TenantID: "tenant-1", LTV: 2000}}
	remote.rewards = []domain.Reward{{ID: "r1", TenantID: "tenant-1", Name: "Lavagem grátis", RequiredPoints: 500}}
	sess := readySession(t, remote)

	result := sess.ClaimReward(context.Background(), "c1", "r1")
	if !result.Success {
		t.Fatalf("expected claim to succeed, got %q", result.Message)
	}
	if len(result.Code) != 8 {
		t.Errorf("expected an 8-char voucher code, got %q", result.Code)
	}
	if remote.callCount("CreateRedemption") != 1 {
		t.Errorf("expected 1 CreateRedemption call, got %d", remote.callCount("CreateRedemption"))
	}

	// The claim immediately lowers the derived balance.
	points, _ := sess.ClientPoints("c1")
	if points.TotalPoints != 1500 {
		t.Errorf("expected 1500 points after claim, got %d", points.TotalPoints)
	}
}

func TestClaimReward_InsufficientPoints(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.clients = []domain.Client{{ID: "c1", TenantID: "tenant-1", LTV: 100}}
	remote.rewards = []domain.Reward{{ID: "r1", TenantID: "tenant-1", RequiredPoints: 1000}}
	sess := readySession(t, remote)

	result := sess.ClaimReward(context.Background(), "c1", "r1")
	if result.Success {
		t.Fatal("expected claim to be refused")
	}
	if result.Message != "pontos insuficientes" {
		t.Errorf("unexpected message: %q", result.Message)
	}
	if remote.callCount("CreateRedemption") != 0 {
		t.Error("refused claim must not write a redemption")
	}
}

func TestClaimReward_LoyaltyDisabled(t *testing.T) {
	tenant := testTenant()
	tenant.Settings.LoyaltyEnabled = false
	remote := newMockStore(tenant)
	remote.clients = []domain.Client{{ID: "c1", TenantID: "tenant-1", LTV: 2000}}
	remote.rewards = []domain.Reward{{ID: "r1", TenantID: "tenant-1", RequiredPoints: 100}}
	sess := readySession(t, remote)

	result := sess.ClaimReward(context.Background(), "c1", "r1")
	if result.Success || result.Message != "programa de fidelidade desativado" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestUseVoucher_ConsumesOnce(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.rewards = []domain.Reward{{ID: "r1", TenantID: "tenant-1", RequiredPoints: 100}}
	remote.redemptions = []domain.Redemption{{
		ID: "rd1", TenantID: "tenant-1", ClientID: "c1", RewardID: "r1",
		Code: "BRILHO22", Status: domain.RedemptionActive, CreatedAt: time.Now(),
	}}
	sess := readySession(t, remote)

	if !sess.UseVoucher(context.Background(), "BRILHO22", "wo-9") {
		t.Fatal("expected first use to succeed")
	}
	if sess.UseVoucher(context.Background(), "BRILHO22", "wo-10") {
		t.Error("a used voucher must not be usable again")
	}

	got, _ := sess.Store().Redemption("rd1")
	if got.Status != domain.RedemptionUsed {
		t.Errorf("expected status used, got %q", got.Status)
	}
	if got.WorkOrderID != "wo-9" {
		t.Errorf("voucher bound to wrong order: %q", got.WorkOrderID)
	}
	if got.UsedAt == nil {
		t.Error("UsedAt not set")
	}
	if remote.callCount("UpdateRedemption") != 1 {
		t.Errorf("expected 1 UpdateRedemption call, got %d", remote.callCount("UpdateRedemption"))
	}
}

func TestUseVoucher_PersistFailureKeepsActive(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.redemptions = []domain.Redemption{{
		ID: "rd1", TenantID: "tenant-1", Code: "BRILHO22", Status: domain.RedemptionActive,
	}}
	remote.fail["UpdateRedemption"] = true
	sess := readySession(t, remote)

	if sess.UseVoucher(context.Background(), "BRILHO22", "wo-9") {
		t.Fatal("expected use to fail")
	}
	got, _ := sess.Store().Redemption("rd1")
	if got.Status != domain.RedemptionActive {
		t.Errorf("failed use must leave the voucher active, got %q", got.Status)
	}
}

func TestVoucherDetails_PairsRedemptionWithReward(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.rewards = []domain.Reward{{ID: "r1", TenantID: "tenant-1", Name: "Cera premium", RequiredPoints: 300}}
	remote.redemptions = []domain.Redemption{{
		ID: "rd1", TenantID: "tenant-1", RewardID: "r1", Code: "BRILHO22", Status: domain.RedemptionActive,
	}}
	sess := readySession(t, remote)

	details, ok := sess.VoucherDetails("BRILHO22")
	if !ok {
		t.Fatal("expected voucher to be found")
	}
	if details.Reward.Name != "Cera premium" {
		t.Errorf("wrong reward paired: %q", details.Reward.Name)
	}

	if _, ok := sess.VoucherDetails("NOPE"); ok {
		t.Error("unknown code must not resolve")
	}
}
