package service

import (
	"context"
	"crypto/rand"
	"math"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalculatePoints derives a client's loyalty balance from the ledger:
// floor(LTV x multiplier) base points, plus the signed ledger entries,
// minus the cost of every claimed reward. The balance never goes negative.
// Tier is the highest configured tier whose threshold the balance meets;
// CurrentLevel is its 1-based position in ascending threshold order.
func CalculatePoints(
	client domain.Client,
	settings domain.TenantSettings,
	entries []domain.PointEntry,
	redemptions []domain.Redemption,
	rewards []domain.Reward,
) domain.ClientPoints {
	total := int(math.Floor(client.LTV * settings.PointsMultiplier))

	for _, e := range entries {
		if e.ClientID == client.ID {
			total += e.Points
		}
	}

	rewardCost := make(map[string]int, len(rewards))
	for _, r := range rewards {
		rewardCost[r.ID] = r.RequiredPoints
	}
	for _, r := range redemptions {
		if r.ClientID == client.ID {
			total -= rewardCost[r.RewardID]
		}
	}

	if total < 0 {
		total = 0
	}

	cp := domain.ClientPoints{ClientID: client.ID, TotalPoints: total}
	for i, tier := range sortedTiers(settings.Tiers) {
		if total >= tier.MinPoints {
			cp.Tier = tier.Name
			cp.CurrentLevel = i + 1
		}
	}
	return cp
}

func sortedTiers(tiers []domain.LoyaltyTier) []domain.LoyaltyTier {
	out := make([]domain.LoyaltyTier, len(tiers))
	copy(out, tiers)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].MinPoints < out[j-1].MinPoints; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// ClientPoints derives the loyalty balance of one client.
func (s *Session) ClientPoints(clientID string) (domain.ClientPoints, bool) {
	store := s.Store()
	if store == nil {
		return domain.ClientPoints{}, false
	}
	client, ok := store.Client(clientID)
	if !ok {
		return domain.ClientPoints{}, false
	}
	snap := store.Snapshot()
	return CalculatePoints(client, snap.Tenant.Settings, snap.PointEntries, snap.Redemptions, snap.Rewards), true
}

// AddManualPoints appends a signed operator adjustment to the ledger.
func (s *Session) AddManualPoints(ctx context.Context, clientID string, points int, description string) (*domain.PointEntry, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddManualPoints")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}
	if _, ok := store.Client(clientID); !ok {
		return nil, false
	}

	entry := domain.PointEntry{
		ID:          uuid.New().String(),
		TenantID:    store.Tenant().ID,
		ClientID:    clientID,
		Type:        domain.PointEntryManual,
		Points:      points,
		Description: description,
		CreatedAt:   time.Now(),
	}

	ok := s.mutate(ctx, "point_entry",
		func() { store.PutPointEntry(entry) },
		func() { store.DeletePointEntry(entry.ID) },
		func(ctx context.Context) error { return s.remote.CreatePointEntry(ctx, &entry) },
	)
	if !ok {
		return nil, false
	}
	return &entry, true
}

// ClaimReward exchanges points for a single-use voucher code. The claim is
// refused, with a message rather than an error, when the client's balance
// does not cover the reward.
func (s *Session) ClaimReward(ctx context.Context, clientID, rewardID string) domain.ClaimResult {
	ctx, span := actionTracer.Start(ctx, "Session.ClaimReward")
	defer span.End()

	store := s.Store()
	if store == nil {
		return domain.ClaimResult{Message: "sessão não está pronta"}
	}
	if !store.Tenant().Settings.LoyaltyEnabled {
		return domain.ClaimResult{Message: "programa de fidelidade desativado"}
	}

	reward, ok := store.Reward(rewardID)
	if !ok {
		return domain.ClaimResult{Message: "recompensa não encontrada"}
	}
	points, ok := s.ClientPoints(clientID)
	if !ok {
		return domain.ClaimResult{Message: "cliente não encontrado"}
	}
	if points.TotalPoints < reward.RequiredPoints {
		s.logger.Info("reward claim refused",
			zap.String("client_id", clientID),
			zap.String("reward_id", rewardID),
			zap.Error(&domain.ErrInsufficientPoints{Available: points.TotalPoints, Required: reward.RequiredPoints}),
		)
		return domain.ClaimResult{Message: "pontos insuficientes"}
	}

	redemption := domain.Redemption{
		ID:        uuid.New().String(),
		TenantID:  store.Tenant().ID,
		ClientID:  clientID,
		RewardID:  rewardID,
		Code:      newVoucherCode(),
		Status:    domain.RedemptionActive,
		CreatedAt: time.Now(),
	}

	ok = s.mutate(ctx, "redemption",
		func() { store.PutRedemption(redemption) },
		func() { store.DeleteRedemption(redemption.ID) },
		func(ctx context.Context) error { return s.remote.CreateRedemption(ctx, &redemption) },
	)
	if !ok {
		return domain.ClaimResult{Message: "falha ao registrar o resgate"}
	}
	return domain.ClaimResult{Success: true, Code: redemption.Code}
}

// UseVoucher consumes an active voucher, binding it to a work order. The
// active to used transition happens at most once per code.
func (s *Session) UseVoucher(ctx context.Context, code, orderID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UseVoucher")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.RedemptionByCode(code)
	if !ok || prev.Status != domain.RedemptionActive {
		return false
	}

	used := prev
	used.Status = domain.RedemptionUsed
	now := time.Now()
	used.UsedAt = &now
	used.WorkOrderID = orderID

	return s.mutate(ctx, "redemption",
		func() { store.PutRedemption(used) },
		func() { store.PutRedemption(prev) },
		func(ctx context.Context) error { return s.remote.UpdateRedemption(ctx, &used) },
	)
}

// VoucherDetails looks a voucher up by code, pairing it with its reward.
func (s *Session) VoucherDetails(code string) (*domain.VoucherDetails, bool) {
	store := s.Store()
	if store == nil {
		return nil, false
	}

	redemption, ok := store.RedemptionByCode(code)
	if !ok {
		return nil, false
	}
	reward, ok := store.Reward(redemption.RewardID)
	if !ok {
		return nil, false
	}
	return &domain.VoucherDetails{Redemption: redemption, Reward: reward}, true
}

const voucherAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newVoucherCode generates a short human-readable code. The ambiguous
// characters 0/O, 1/I are excluded from the alphabet.
func newVoucherCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on supported platforms never fails; fall back to a UUID
		// fragment if it somehow does.
		return uuid.New().String()[:8]
	}
	for i, b := range buf {
		buf[i] = voucherAlphabet[int(b)%len(voucherAlphabet)]
	}
	return string(buf)
}
