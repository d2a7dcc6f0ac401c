package services

import (
	"testing"
	"time"

	"resale_tracker_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedgerAndReports(t *testing.T) (LedgerService, ReportService) {
	t.Helper()
	ledger := newTestLedger(t)
	return ledger, NewReportService(ledger)
}

func TestSellerReport_GroupsAndTotals(t *testing.T) {
	l, r := newTestLedgerAndReports(t)
	addItem(t, l, AddItemRequest{Name: "a", Seller: "Alice", BuyCost: 100, ShipInCost: 10, ListPrice: 150})
	addItem(t, l, AddItemRequest{Name: "b", Seller: "Alice", BuyCost: 50, ShipInCost: 5})
	addItem(t, l, AddItemRequest{Name: "c", BuyCost: 20})

	report := r.SellerReport()
	require.Len(t, report.Groups, 2)

	alice := report.Groups[0]
	assert.Equal(t, "Alice", alice.Seller)
	assert.Equal(t, 165.0, alice.Spent)
	assert.Equal(t, 205.0, alice.Worth) // 150 configured + 55 derived
	assert.Equal(t, 40.0, alice.Profit)

	orphans := report.Groups[1]
	assert.Equal(t, models.NoSellerBucket, orphans.Seller)
	assert.Equal(t, 20.0, orphans.Spent)

	assert.Equal(t, 185.0, report.TotalSpent)
	assert.Equal(t, 225.0, report.TotalWorth)
	assert.Equal(t, 40.0, report.TotalProfit)
}

func sellTo(t *testing.T, l LedgerService, name, buyer string, price float64) models.SoldRecord {
	t.Helper()
	listing, err := l.AddListing(AddListingRequest{Name: name, ListPrice: price})
	require.NoError(t, err)
	record, err := l.MarkSold(listing.ID, buyer)
	require.NoError(t, err)
	require.NotNil(t, record)
	return *record
}

func TestBuyerReport_NetSubtractsShippingFee(t *testing.T) {
	l, r := newTestLedgerAndReports(t)
	first := sellTo(t, l, "a", "X", 100)
	second := sellTo(t, l, "b", "X", 200)
	require.NoError(t, l.MarkPaid(first.ID))
	require.NoError(t, l.MarkPaid(second.ID))
	require.NoError(t, l.SetShippingFee("X", 50))

	report := r.BuyerReport()
	require.Len(t, report.Groups, 1)

	x := report.Groups[0]
	assert.Equal(t, 300.0, x.Gross)
	assert.Equal(t, 250.0, x.Net)
	assert.True(t, x.AllPaid)
}

func TestBuyerReport_PaidGroupsSortLast(t *testing.T) {
	l, r := newTestLedgerAndReports(t)
	paid := sellTo(t, l, "a", "PaidBuyer", 10)
	require.NoError(t, l.MarkPaid(paid.ID))
	sellTo(t, l, "b", "OwingBuyer", 20)

	report := r.BuyerReport()
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "OwingBuyer", report.Groups[0].Buyer)
	assert.Equal(t, "PaidBuyer", report.Groups[1].Buyer)
}

func TestBuyerReport_PaidLastOffSortsByRecency(t *testing.T) {
	l, r := newTestLedgerAndReports(t)
	require.NoError(t, l.SetPreferences(models.Preferences{PaidLast: false}))

	paid := sellTo(t, l, "a", "PaidBuyer", 10)
	time.Sleep(2 * time.Millisecond) // distinct SoldAt timestamps
	sellTo(t, l, "b", "OwingBuyer", 20)
	require.NoError(t, l.MarkPaid(paid.ID))

	report := r.BuyerReport()
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "OwingBuyer", report.Groups[0].Buyer, "most recent sale first when paid-last is off")
}

func TestCashReport_GrandTotalInvariant(t *testing.T) {
	l, r := newTestLedgerAndReports(t)

	_, err := l.AddCashEntry(AddCashRequest{Source: models.SourceGCash, Amount: 500})
	require.NoError(t, err)
	_, err = l.AddCashEntry(AddCashRequest{Source: models.SourceCash, Amount: -120})
	require.NoError(t, err)

	paid := sellTo(t, l, "a", "X", 300)
	require.NoError(t, l.MarkPaid(paid.ID))
	sellTo(t, l, "b", "Y", 75) // stays pending

	report := r.CashReport()
	assert.Equal(t, 500.0, report.BySource[models.SourceGCash])
	assert.Equal(t, -120.0, report.BySource[models.SourceCash])
	assert.Equal(t, 380.0, report.OnHand)
	assert.Equal(t, 300.0, report.PaidRevenue)
	assert.Equal(t, 75.0, report.PendingRevenue)
	assert.Equal(t, 680.0, report.GrandTotal, "grand total = on hand + paid revenue, pending excluded")
}

func TestCashReport_InvariantHoldsAcrossInterleavedOperations(t *testing.T) {
	l, r := newTestLedgerAndReports(t)

	check := func() {
		report := r.CashReport()
		onHand := 0.0
		for _, e := range l.CashEntries() {
			onHand += e.Amount
		}
		paid := 0.0
		for _, rec := range l.SoldRecords() {
			if rec.Status == models.StatusPaid {
				paid += rec.Price
			}
		}
		assert.Equal(t, onHand+paid, report.GrandTotal)
	}

	check()
	_, err := l.AddCashEntry(AddCashRequest{Source: models.SourceSeaBank, Amount: 42})
	require.NoError(t, err)
	check()
	record := sellTo(t, l, "a", "X", 99)
	check()
	require.NoError(t, l.MarkPaid(record.ID))
	check()
	entry, err := l.AddCashEntry(AddCashRequest{Source: models.SourceCash, Amount: -10})
	require.NoError(t, err)
	check()
	require.NoError(t, l.DeleteCashEntry(entry.ID))
	check()
}
