package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Shop-level finance ledger — its own numeric id space
// ============================================================

func (c *Client) ListFinanceEntries(ctx context.Context, tenantID string) ([]domain.FinancialTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListFinanceEntries")
	defer span.End()

	path := fmt.Sprintf("financial_transactions?tenant_id=eq.%s&order=date.desc", tenantID)
	return fetchList[domain.FinancialTransaction](ctx, c, path)
}

func (c *Client) CreateFinanceEntry(ctx context.Context, t *domain.FinancialTransaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateFinanceEntry")
	defer span.End()

	_, err := insertOne(ctx, c, "financial_transactions", *t)
	return err
}

func (c *Client) DeleteFinanceEntry(ctx context.Context, tenantID string, entryID int64) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteFinanceEntry")
	defer span.End()

	path := fmt.Sprintf("financial_transactions?tenant_id=eq.%s&id=eq.%d", tenantID, entryID)
	return c.doDelete(ctx, path)
}
