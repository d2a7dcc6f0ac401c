package services

import (
	"testing"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotPair(t *testing.T) (LedgerService, SnapshotService, *storage.Persistence) {
	t.Helper()
	primary, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewPersistence("test", primary, nil)
	return NewLedgerService(store), NewSnapshotService(store), store
}

func TestBuildSnapshot_CapturesEverything(t *testing.T) {
	ledger, snapshots, _ := newTestSnapshotPair(t)

	_, err := ledger.AddItem(AddItemRequest{Name: "camera", Seller: "Alice", BuyCost: 100})
	require.NoError(t, err)
	listing, err := ledger.AddListing(AddListingRequest{Name: "cup", ListPrice: 5})
	require.NoError(t, err)
	_, err = ledger.MarkSold(listing.ID, "X")
	require.NoError(t, err)
	_, err = ledger.AddCashEntry(AddCashRequest{Source: models.SourceCash, Amount: 10})
	require.NoError(t, err)
	require.NoError(t, ledger.SetShippingFee("X", 30))

	snap := snapshots.BuildSnapshot(false)

	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.NotEmpty(t, snap.ExportedAt)
	assert.False(t, snap.Auto)
	require.NotNil(t, snap.Bought)
	assert.Len(t, *snap.Bought, 1)
	require.NotNil(t, snap.Sold)
	assert.Len(t, *snap.Sold, 1)
	require.NotNil(t, snap.Cash)
	assert.Len(t, *snap.Cash, 1)
	require.NotNil(t, snap.Sellers)
	assert.Equal(t, []string{"Alice"}, *snap.Sellers)
	require.NotNil(t, snap.Shipping)
	assert.Equal(t, map[string]float64{"X": 30}, *snap.Shipping)
	require.NotNil(t, snap.Buyers)
	assert.Equal(t, []string{"X"}, *snap.Buyers)
}

func TestRestore_IsIdempotent(t *testing.T) {
	ledger, snapshots, _ := newTestSnapshotPair(t)
	_, err := ledger.AddItem(AddItemRequest{Name: "camera", Seller: "Alice", BuyCost: 100})
	require.NoError(t, err)
	_, err = ledger.AddCashEntry(AddCashRequest{Source: models.SourceGCash, Amount: 7})
	require.NoError(t, err)

	snap := snapshots.BuildSnapshot(false)

	require.NoError(t, snapshots.Restore(snap))
	afterOnce := snapshots.BuildSnapshot(false)
	require.NoError(t, snapshots.Restore(snap))
	afterTwice := snapshots.BuildSnapshot(false)

	assert.Equal(t, *afterOnce.Bought, *afterTwice.Bought)
	assert.Equal(t, *afterOnce.Cash, *afterTwice.Cash)
	assert.Equal(t, *afterOnce.Sellers, *afterTwice.Sellers)
}

func TestRestore_OverwritesLiveState(t *testing.T) {
	ledger, snapshots, _ := newTestSnapshotPair(t)
	_, err := ledger.AddItem(AddItemRequest{Name: "before", Seller: "Alice"})
	require.NoError(t, err)
	snap := snapshots.BuildSnapshot(false)

	// Diverge, then restore.
	_, err = ledger.AddItem(AddItemRequest{Name: "divergence"})
	require.NoError(t, err)
	require.Len(t, ledger.Items(), 2)

	require.NoError(t, snapshots.Restore(snap))
	require.Len(t, ledger.Items(), 1)
	assert.Equal(t, "before", ledger.Items()[0].Name)
}

func TestRestore_AbsentFieldsLeftUntouched(t *testing.T) {
	ledger, snapshots, _ := newTestSnapshotPair(t)
	_, err := ledger.AddCashEntry(AddCashRequest{Source: models.SourceCash, Amount: 99})
	require.NoError(t, err)

	empty := []models.InventoryItem{}
	require.NoError(t, snapshots.Restore(models.Snapshot{Bought: &empty}))

	assert.Len(t, ledger.CashEntries(), 1, "cash was not in the snapshot and must survive")
	assert.Empty(t, ledger.Items())
}
