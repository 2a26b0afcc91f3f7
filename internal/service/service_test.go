package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/storage"
)

var testNow = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

type mockSalesRepo struct {
	records []domain.SaleRecord
	err     error
	calls   int
}

func (m *mockSalesRepo) GetSaleRecords(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(filter.Symbols) == 0 {
		return m.records, nil
	}
	want := make(map[string]bool, len(filter.Symbols))
	for _, s := range filter.Symbols {
		want[s] = true
	}
	var out []domain.SaleRecord
	for _, r := range m.records {
		if want[r.Symbol] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockSalesRepo) GetSymbols(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range m.records {
		if !seen[r.Symbol] {
			seen[r.Symbol] = true
			out = append(out, r.Symbol)
		}
	}
	return out, nil
}

type mockStockRepo struct {
	snapshots []domain.StockSnapshot
	calls     int
}

func (m *mockStockRepo) GetStockSnapshots(ctx context.Context, symbols []string) ([]domain.StockSnapshot, error) {
	m.calls++
	return m.snapshots, nil
}

type mockSettingsRepo struct {
	settings map[string]domain.OrderSettings
	saved    []domain.OrderSettings
}

func (m *mockSettingsRepo) Get(ctx context.Context, symbol string) (*domain.OrderSettings, error) {
	if s, ok := m.settings[symbol]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *mockSettingsRepo) GetAll(ctx context.Context) (map[string]domain.OrderSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings domain.OrderSettings) error {
	m.saved = append(m.saved, settings)
	return nil
}

type mockStore struct {
	uploads map[string][]byte
}

func (m *mockStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *mockStore) DownloadObject(ctx context.Context, key string, destPath string) error {
	return nil
}

func (m *mockStore) UploadObject(ctx context.Context, key string, data []byte) error {
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[key] = data
	return nil
}

func newRedisTestCache(t *testing.T) cache.AnalyticsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisAnalyticsCache(client, time.Minute)
}

func TestSalesServiceSummaryCaches(t *testing.T) {
	repo := &mockSalesRepo{records: []domain.SaleRecord{
		{Symbol: "A", SoldAt: testNow, NetValue: 100, GrossValue: 123, Quantity: 2},
		{Symbol: "A", SoldAt: testNow, NetValue: 50, GrossValue: 61.5, Quantity: 1},
	}}
	svc := NewSalesService(repo, newRedisTestCache(t))
	svc.now = func() time.Time { return testNow }

	ctx := context.Background()
	summary, err := svc.GetSummary(ctx, domain.SalesFilter{}, metrics.GranularityDay)
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, 150.0, summary.Buckets[0].TotalNet)
	assert.Equal(t, 1, repo.calls)

	// Second call must come from the cache.
	summary, err = svc.GetSummary(ctx, domain.SalesFilter{}, metrics.GranularityDay)
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, 1, repo.calls)

	// A different granularity is a different cache entry.
	_, err = svc.GetSummary(ctx, domain.SalesFilter{}, metrics.GranularityMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestSalesServiceSeasonality(t *testing.T) {
	repo := &mockSalesRepo{records: []domain.SaleRecord{
		{Symbol: "A", SoldAt: testNow.AddDate(0, 0, -7), Quantity: 52},
	}}
	svc := NewSalesService(repo, nil)
	svc.now = func() time.Time { return testNow }

	profile, err := svc.GetSeasonality(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, profile.HasData)
	assert.InDelta(t, 1.0, profile.AnnualAverage, 1e-9)
}

func TestInventoryServiceMinStock(t *testing.T) {
	salesRepo := &mockSalesRepo{records: []domain.SaleRecord{
		{Symbol: "A", SoldAt: testNow.AddDate(0, 0, -7), Quantity: 520},
	}}
	stockRepo := &mockStockRepo{snapshots: []domain.StockSnapshot{
		{Symbol: "A", CurrentStock: 5},
		{Symbol: "B", CurrentStock: 3},
	}}

	sales := NewSalesService(salesRepo, nil)
	sales.now = func() time.Time { return testNow }
	inv := NewInventoryService(stockRepo, sales, nil, nil)
	inv.now = func() time.Time { return testNow }

	recs, err := inv.GetMinStock(context.Background(), nil, metrics.MinStockPolicy{StockWeeks: 1, DeliveryWeeks: 1})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	bySymbol := map[string]domain.MinStockRecommendation{}
	for _, r := range recs {
		bySymbol[r.Symbol] = r
	}
	assert.Positive(t, bySymbol["A"].RecommendedMinimum)
	assert.Zero(t, bySymbol["B"].RecommendedMinimum, "product without sales history recommends nothing")
}

func TestInventoryServiceRotationCaches(t *testing.T) {
	stockRepo := &mockStockRepo{snapshots: []domain.StockSnapshot{
		{Symbol: "A", CurrentStock: 10, StockValue: 100, Sales90Days: 90,
			LifetimeSales: 500, LastMovementAt: testNow.AddDate(0, 0, -2), FirstStockedAt: testNow.AddDate(-1, 0, 0)},
		{Symbol: "B", CurrentStock: 4, StockValue: 250,
			LifetimeSales: 1, LastMovementAt: testNow.AddDate(0, 0, -120), FirstStockedAt: testNow.AddDate(-2, 0, 0)},
	}}
	inv := NewInventoryService(stockRepo, nil, newRedisTestCache(t), nil)
	inv.now = func() time.Time { return testNow }

	ctx := context.Background()
	report, err := inv.GetRotation(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalProducts)
	assert.InDelta(t, 350.0, report.TotalValue, 1e-9)
	assert.Equal(t, 1, stockRepo.calls)

	var deadCount int
	for _, cat := range report.Categories {
		if cat.Category == domain.RotationDead {
			deadCount = cat.ProductCount
		}
	}
	assert.Equal(t, 1, deadCount)

	_, err = inv.GetRotation(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stockRepo.calls, "second rotation call served from cache")
}

func TestProposalServiceUsesOverrides(t *testing.T) {
	stockRepo := &mockStockRepo{snapshots: []domain.StockSnapshot{
		{Symbol: "A", Sales90Days: 900, CurrentStock: 50, UnitCost: 2},
	}}
	settingsRepo := &mockSettingsRepo{settings: map[string]domain.OrderSettings{
		"A": {Symbol: "A", DeliveryTimeDays: 3, OrderFrequencyDays: 7},
	}}
	svc := NewProposalService(stockRepo, settingsRepo, nil)

	proposal, err := svc.GetProposal(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, proposal.Items, 1)
	assert.Equal(t, 3, proposal.Items[0].DeliveryTimeDays)
	assert.InDelta(t, 100.0, proposal.Items[0].MinimumStock, 1e-9)
	assert.Equal(t, 50, proposal.Items[0].QuantityToOrder)
	assert.InDelta(t, 100.0, proposal.Summary.TotalPurchaseValue, 1e-9)
}

func TestProposalServiceSettingsFallback(t *testing.T) {
	svc := NewProposalService(&mockStockRepo{}, &mockSettingsRepo{}, nil)

	settings, err := svc.GetSettings(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Equal(t, 7, settings.DeliveryTimeDays)
	assert.Equal(t, 14, settings.OrderFrequencyDays)
}

func TestProposalServiceExportUploadsCSV(t *testing.T) {
	stockRepo := &mockStockRepo{snapshots: []domain.StockSnapshot{
		{Symbol: "A", Name: "Widget", Sales90Days: 900, CurrentStock: 50},
	}}
	store := &mockStore{}
	svc := NewProposalService(stockRepo, &mockSettingsRepo{}, store)
	svc.now = func() time.Time { return testNow }

	key, err := svc.ExportProposal(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "exports/proposal-20240615-000000.csv", key)

	payload := string(store.uploads[key])
	assert.Contains(t, payload, "symbol,name,daily_consumption")
	assert.Contains(t, payload, "A,Widget,10.00,210.00,50.00,160,BELOW")
}

func TestInventoryServiceExportRotationUploadsCSV(t *testing.T) {
	stockRepo := &mockStockRepo{snapshots: []domain.StockSnapshot{
		{Symbol: "A", CurrentStock: 4, StockValue: 250,
			LifetimeSales: 1, LastMovementAt: testNow.AddDate(0, 0, -120), FirstStockedAt: testNow.AddDate(-2, 0, 0)},
	}}
	store := &mockStore{}
	inv := NewInventoryService(stockRepo, nil, nil, store)
	inv.now = func() time.Time { return testNow }

	key, err := inv.ExportRotation(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "exports/rotation-20240615-000000.csv", key)

	payload := string(store.uploads[key])
	assert.Contains(t, payload, "category,label,product_count")
	assert.Contains(t, payload, "DEAD,")
}

func TestProposalServiceExportWithoutStorage(t *testing.T) {
	svc := NewProposalService(&mockStockRepo{}, &mockSettingsRepo{}, nil)
	_, err := svc.ExportProposal(context.Background(), nil)
	assert.Error(t, err)
}

func TestProposalServiceSaveSettingsValidation(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewProposalService(&mockStockRepo{}, repo, nil)
	ctx := context.Background()

	assert.Error(t, svc.SaveSettings(ctx, domain.OrderSettings{}))
	assert.Error(t, svc.SaveSettings(ctx, domain.OrderSettings{Symbol: "A", DeliveryTimeDays: -1}))

	require.NoError(t, svc.SaveSettings(ctx, domain.OrderSettings{Symbol: "A", DeliveryTimeDays: 5}))
	require.Len(t, repo.saved, 1)
}
