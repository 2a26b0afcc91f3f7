package etl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/pos-insights/internal/domain"
)

type recordingRepo struct {
	sales     []domain.SaleRecord
	snapshots []domain.StockSnapshot
	settings  []domain.OrderSettings
}

func (r *recordingRepo) InsertSaleRecords(ctx context.Context, records []domain.SaleRecord) error {
	r.sales = append(r.sales, records...)
	return nil
}

func (r *recordingRepo) UpsertStockSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error {
	r.snapshots = append(r.snapshots, snapshots...)
	return nil
}

func (r *recordingRepo) UpsertOrderSettings(ctx context.Context, settings []domain.OrderSettings) error {
	r.settings = append(r.settings, settings...)
	return nil
}

func TestIngestSalesCSV(t *testing.T) {
	csv := strings.Join([]string{
		"symbol,name,sold_at,updated_at,net_value,gross_value,quantity,source",
		"SKU-1,Widget,2024-03-04T10:00:00Z,2024-03-04T10:00:00Z,100,123,2,transaction",
		"SKU-2,Gadget,,2024-03-05,50,61.5,1,",
	}, "\n")

	repo := &recordingRepo{}
	in := NewIngestor(repo, nil)

	require.NoError(t, in.Ingest(context.Background(), strings.NewReader(csv)))
	require.Len(t, repo.sales, 2)

	first := repo.sales[0]
	assert.Equal(t, "SKU-1", first.Symbol)
	assert.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), first.SoldAt)
	assert.Equal(t, 100.0, first.NetValue)
	assert.Equal(t, domain.SourceTransaction, first.Source)

	// Missing sold_at stays zero; missing source defaults to transaction.
	second := repo.sales[1]
	assert.True(t, second.SoldAt.IsZero())
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), second.UpdatedAt)
	assert.Equal(t, domain.SourceTransaction, second.Source)
}

func TestIngestSnapshotCSV(t *testing.T) {
	csv := strings.Join([]string{
		"symbol,name,current_stock,stock_value,unit_cost,last_movement_at,first_stocked_at,sales_90d,lifetime_sales",
		"SKU-1,Widget,12,144,12,2024-02-01,2023-01-01,30,250",
	}, "\n")

	repo := &recordingRepo{}
	in := NewIngestor(repo, nil)

	require.NoError(t, in.Ingest(context.Background(), strings.NewReader(csv)))
	require.Len(t, repo.snapshots, 1)

	snap := repo.snapshots[0]
	assert.Equal(t, "SKU-1", snap.Symbol)
	assert.Equal(t, 12.0, snap.CurrentStock)
	assert.Equal(t, 30.0, snap.Sales90Days)
	assert.Equal(t, 250.0, snap.LifetimeSales)
}

func TestIngestRejectsUnknownHeader(t *testing.T) {
	in := NewIngestor(&recordingRepo{}, nil)
	err := in.Ingest(context.Background(), strings.NewReader("foo,bar\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized CSV header")
}
