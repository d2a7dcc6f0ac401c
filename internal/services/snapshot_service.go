package services

import (
	"time"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/storage"
)

// SnapshotService serializes the full ledger state into one payload and
// restores it verbatim. Restore overwrites only the fields present in the
// snapshot; the field writes are not transactional.
type SnapshotService interface {
	BuildSnapshot(auto bool) models.Snapshot
	Restore(snap models.Snapshot) error
}

type snapshotService struct {
	store *storage.Persistence
	now   func() time.Time
}

// NewSnapshotService creates a SnapshotService over the given persistence layer.
func NewSnapshotService(store *storage.Persistence) SnapshotService {
	return &snapshotService{store: store, now: time.Now}
}

func (s *snapshotService) BuildSnapshot(auto bool) models.Snapshot {
	bought := storage.Load(s.store, keyBought, []models.InventoryItem{})
	forsale := storage.Load(s.store, keyForSale, []models.Listing{})
	sold := storage.Load(s.store, keySold, []models.SoldRecord{})
	cash := storage.Load(s.store, keyCash, []models.CashEntry{})
	sellers := storage.Load(s.store, keySellers, []string{})
	shipping := storage.Load(s.store, keyShipping, map[string]float64{})
	buyers := storage.Load(s.store, keyBuyers, []string{})

	return models.Snapshot{
		Bought:     &bought,
		ForSale:    &forsale,
		Sold:       &sold,
		Cash:       &cash,
		Sellers:    &sellers,
		Shipping:   &shipping,
		Buyers:     &buyers,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Version:    models.SnapshotVersion,
		Auto:       auto,
	}
}

func (s *snapshotService) Restore(snap models.Snapshot) error {
	if snap.Bought != nil {
		if err := s.store.Save(keyBought, *snap.Bought); err != nil {
			return err
		}
	}
	if snap.ForSale != nil {
		if err := s.store.Save(keyForSale, *snap.ForSale); err != nil {
			return err
		}
	}
	if snap.Sold != nil {
		if err := s.store.Save(keySold, *snap.Sold); err != nil {
			return err
		}
	}
	if snap.Cash != nil {
		if err := s.store.Save(keyCash, *snap.Cash); err != nil {
			return err
		}
	}
	if snap.Sellers != nil {
		if err := s.store.Save(keySellers, *snap.Sellers); err != nil {
			return err
		}
	}
	if snap.Shipping != nil {
		if err := s.store.Save(keyShipping, *snap.Shipping); err != nil {
			return err
		}
	}
	if snap.Buyers != nil {
		if err := s.store.Save(keyBuyers, *snap.Buyers); err != nil {
			return err
		}
	}
	return nil
}
