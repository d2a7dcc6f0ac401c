package services

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/storage"

	"github.com/google/uuid"
)

// Collection and scalar keys in the persistence namespace.
const (
	keyBought     = "bought"
	keyForSale    = "forsale"
	keySold       = "sold"
	keyCash       = "cash"
	keySellers    = "sellers"
	keyBuyers     = "buyers"
	keyShipping   = "shipping"
	keyGreeting   = "pref:greeting"
	keyPaidLast   = "pref:paidLast"
	keyLastSeller = "last:seller"
	keyLastBuyer  = "last:buyer"
)

// DefaultBuyerName is assigned when a listing is sold without a buyer.
const DefaultBuyerName = "Unknown"

// --- DTOs ---

type AddItemRequest struct {
	Seller     string  `json:"seller"`
	Name       string  `json:"name" binding:"required"`
	BuyCost    float64 `json:"buy_cost"`
	ShipInCost float64 `json:"ship_in_cost"`
	ListPrice  float64 `json:"list_price"`
	ImageRef   string  `json:"image_ref"`
}

type AddListingRequest struct {
	Name      string  `json:"name" binding:"required"`
	ListPrice float64 `json:"list_price"`
	Seller    string  `json:"seller"`
	ImageRef  string  `json:"image_ref"`
}

type AddCashRequest struct {
	Source models.CashSource `json:"source" binding:"required"`
	Amount float64           `json:"amount"`
	Note   string            `json:"note"`
}

// --- LedgerService Interface ---

// LedgerService owns the four record collections plus the name registries
// and shipping-fee map. Every mutating operation loads the current
// collection snapshot, applies the change, and persists the result; no
// caller-held snapshot is live.
type LedgerService interface {
	Items() []models.InventoryItem
	AddItem(req AddItemRequest) (*models.InventoryItem, error)
	DeleteItem(id string) error
	MoveToListing(itemID string) (*models.Listing, error)
	BulkMoveSellerToListing(seller string) (int, error)

	Listings() []models.Listing
	AddListing(req AddListingRequest) (*models.Listing, error)
	DeleteListing(id string) error
	MarkSold(listingID, buyer string) (*models.SoldRecord, error)

	SoldRecords() []models.SoldRecord
	DeleteSold(id string) error
	MarkPaid(soldID string) error
	MarkAllPaidForBuyer(buyer string) (int, error)

	SetShippingFee(buyer string, amount float64) error
	ShippingFees() map[string]float64

	CashEntries() []models.CashEntry
	AddCashEntry(req AddCashRequest) (*models.CashEntry, error)
	AddBuyerTotalToCash(buyer string, source models.CashSource) (*models.CashEntry, error)
	DeleteCashEntry(id string) error

	Sellers() []string
	Buyers() []string
	RenameParty(kind models.PartyKind, oldName, newName string) (int, error)
	DeleteParty(kind models.PartyKind, name, reassignTo string) error

	Preferences() models.Preferences
	SetPreferences(prefs models.Preferences) error
	Pointers() models.Pointers
}

type ledgerService struct {
	store *storage.Persistence
	mu    sync.Mutex
	now   func() time.Time
}

// NewLedgerService creates a LedgerService over the given persistence layer.
func NewLedgerService(store *storage.Persistence) LedgerService {
	return &ledgerService{store: store, now: time.Now}
}

// --- Snapshot accessors ---

func (s *ledgerService) items() []models.InventoryItem {
	return storage.Load(s.store, keyBought, []models.InventoryItem{})
}

func (s *ledgerService) listings() []models.Listing {
	return storage.Load(s.store, keyForSale, []models.Listing{})
}

func (s *ledgerService) sold() []models.SoldRecord {
	return storage.Load(s.store, keySold, []models.SoldRecord{})
}

func (s *ledgerService) cash() []models.CashEntry {
	return storage.Load(s.store, keyCash, []models.CashEntry{})
}

func (s *ledgerService) shipping() map[string]float64 {
	return storage.Load(s.store, keyShipping, map[string]float64{})
}

func (s *ledgerService) names(key string) []string {
	return storage.Load(s.store, key, []string{})
}

func (s *ledgerService) Items() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items()
}

func (s *ledgerService) Listings() []models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings()
}

func (s *ledgerService) SoldRecords() []models.SoldRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sold()
}

func (s *ledgerService) CashEntries() []models.CashEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cash()
}

func (s *ledgerService) ShippingFees() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping()
}

func (s *ledgerService) Sellers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names(keySellers)
}

func (s *ledgerService) Buyers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names(keyBuyers)
}

// --- Inventory ---

func (s *ledgerService) AddItem(req AddItemRequest) (*models.InventoryItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: item name cannot be empty", ErrValidation)
	}
	if !finite(req.BuyCost) || !finite(req.ShipInCost) || !finite(req.ListPrice) {
		return nil, fmt.Errorf("%w: costs must be finite numbers", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.InventoryItem{
		ID:         uuid.NewString(),
		Seller:     strings.TrimSpace(req.Seller),
		Name:       strings.TrimSpace(req.Name),
		BuyCost:    req.BuyCost,
		ShipInCost: req.ShipInCost,
		ListPrice:  req.ListPrice,
		ImageRef:   req.ImageRef,
		CreatedAt:  s.now(),
	}

	items := append(s.items(), item)
	if err := s.store.Save(keyBought, items); err != nil {
		return nil, err
	}
	if item.Seller != "" {
		s.registerName(keySellers, keyLastSeller, item.Seller)
	}
	return &item, nil
}

func (s *ledgerService) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items()
	idx := indexOf(items, func(it models.InventoryItem) bool { return it.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: inventory item %s", ErrNotFound, id)
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.store.Save(keyBought, items)
}

// MoveToListing removes the inventory item and inserts a listing with a
// fresh id. The list price defaults to the item's configured sell price if
// set, otherwise buy cost plus ship-in cost. The acquisition cost is carried
// forward as a single buy figure.
func (s *ledgerService) MoveToListing(itemID string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items()
	idx := indexOf(items, func(it models.InventoryItem) bool { return it.ID == itemID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: inventory item %s", ErrNotFound, itemID)
	}

	listing := s.listingFromItem(items[idx])
	items = append(items[:idx], items[idx+1:]...)
	listings := append(s.listings(), listing)

	if err := s.store.Save(keyBought, items); err != nil {
		return nil, err
	}
	if err := s.store.Save(keyForSale, listings); err != nil {
		return nil, err
	}
	return &listing, nil
}

// BulkMoveSellerToListing moves every inventory item of the given seller to
// the for-sale collection in one persisted pair. An empty seller selects the
// "(No seller)" bucket. Returns the number of items moved.
func (s *ledgerService) BulkMoveSellerToListing(seller string) (int, error) {
	seller = strings.TrimSpace(seller)
	if seller == models.NoSellerBucket {
		seller = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items()
	listings := s.listings()

	kept := items[:0]
	moved := 0
	for _, it := range items {
		if it.Seller == seller {
			listings = append(listings, s.listingFromItem(it))
			moved++
			continue
		}
		kept = append(kept, it)
	}
	if moved == 0 {
		return 0, nil
	}

	if err := s.store.Save(keyBought, kept); err != nil {
		return 0, err
	}
	if err := s.store.Save(keyForSale, listings); err != nil {
		return 0, err
	}
	return moved, nil
}

func (s *ledgerService) listingFromItem(it models.InventoryItem) models.Listing {
	price := it.ListPrice
	if price <= 0 {
		price = it.BuyCost + it.ShipInCost
	}
	return models.Listing{
		ID:         uuid.NewString(),
		Name:       it.Name,
		ListPrice:  price,
		BuyCost:    it.BuyCost + it.ShipInCost,
		ShipInCost: it.ShipInCost,
		Seller:     it.Seller,
		ImageRef:   it.ImageRef,
		CreatedAt:  s.now(),
	}
}

// --- Listings ---

func (s *ledgerService) AddListing(req AddListingRequest) (*models.Listing, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: listing name cannot be empty", ErrValidation)
	}
	if !finite(req.ListPrice) {
		return nil, fmt.Errorf("%w: list price must be a finite number", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listing := models.Listing{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		ListPrice: req.ListPrice,
		Seller:    strings.TrimSpace(req.Seller),
		ImageRef:  req.ImageRef,
		CreatedAt: s.now(),
	}
	listings := append(s.listings(), listing)
	if err := s.store.Save(keyForSale, listings); err != nil {
		return nil, err
	}
	if listing.Seller != "" {
		s.registerName(keySellers, keyLastSeller, listing.Seller)
	}
	return &listing, nil
}

func (s *ledgerService) DeleteListing(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := s.listings()
	idx := indexOf(listings, func(l models.Listing) bool { return l.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: listing %s", ErrNotFound, id)
	}
	listings = append(listings[:idx], listings[idx+1:]...)
	return s.store.Save(keyForSale, listings)
}

// MarkSold removes the listing and inserts a pending sold record for the
// buyer ("Unknown" when not supplied). A missing listing id is a silent
// no-op and returns a nil record.
func (s *ledgerService) MarkSold(listingID, buyer string) (*models.SoldRecord, error) {
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		buyer = DefaultBuyerName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listings := s.listings()
	idx := indexOf(listings, func(l models.Listing) bool { return l.ID == listingID })
	if idx < 0 {
		return nil, nil
	}

	l := listings[idx]
	record := models.SoldRecord{
		ID:       uuid.NewString(),
		Name:     l.Name,
		Price:    l.ListPrice,
		Buyer:    buyer,
		ImageRef: l.ImageRef,
		SoldAt:   s.now(),
		Status:   models.StatusPending,
	}
	listings = append(listings[:idx], listings[idx+1:]...)
	sold := append(s.sold(), record)

	if err := s.store.Save(keyForSale, listings); err != nil {
		return nil, err
	}
	if err := s.store.Save(keySold, sold); err != nil {
		return nil, err
	}
	s.registerName(keyBuyers, keyLastBuyer, buyer)
	return &record, nil
}

// --- Sold records ---

func (s *ledgerService) DeleteSold(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sold := s.sold()
	idx := indexOf(sold, func(r models.SoldRecord) bool { return r.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: sold record %s", ErrNotFound, id)
	}
	sold = append(sold[:idx], sold[idx+1:]...)
	return s.store.Save(keySold, sold)
}

func (s *ledgerService) MarkPaid(soldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sold := s.sold()
	idx := indexOf(sold, func(r models.SoldRecord) bool { return r.ID == soldID })
	if idx < 0 {
		return fmt.Errorf("%w: sold record %s", ErrNotFound, soldID)
	}
	if sold[idx].Status == models.StatusPaid {
		return nil
	}
	sold[idx].Status = models.StatusPaid
	return s.store.Save(keySold, sold)
}

// MarkAllPaidForBuyer flips every pending record of the buyer to paid and
// returns the count. Zero means there was nothing to do; that is not an
// error.
func (s *ledgerService) MarkAllPaidForBuyer(buyer string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sold := s.sold()
	changed := 0
	for i := range sold {
		if sold[i].Buyer == buyer && sold[i].Status == models.StatusPending {
			sold[i].Status = models.StatusPaid
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.store.Save(keySold, sold); err != nil {
		return 0, err
	}
	return changed, nil
}

// --- Shipping fees ---

func (s *ledgerService) SetShippingFee(buyer string, amount float64) error {
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return fmt.Errorf("%w: buyer name cannot be empty", ErrValidation)
	}
	if !finite(amount) {
		return fmt.Errorf("%w: shipping fee must be a finite number", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fees := s.shipping()
	fees[buyer] = amount
	return s.store.Save(keyShipping, fees)
}

// --- Cash ledger ---

func (s *ledgerService) AddCashEntry(req AddCashRequest) (*models.CashEntry, error) {
	if !models.ValidCashSource(req.Source) {
		return nil, fmt.Errorf("%w: unknown cash source %q", ErrValidation, req.Source)
	}
	if !finite(req.Amount) {
		return nil, fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendCashEntry(req.Source, req.Amount, req.Note)
}

// AddBuyerTotalToCash inserts a positive cash entry equal to the buyer's
// paid total. The buyer must have sold records and all of them must be paid.
func (s *ledgerService) AddBuyerTotalToCash(buyer string, source models.CashSource) (*models.CashEntry, error) {
	if !models.ValidCashSource(source) {
		return nil, fmt.Errorf("%w: unknown cash source %q", ErrValidation, source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	count := 0
	for _, r := range s.sold() {
		if r.Buyer != buyer {
			continue
		}
		count++
		if r.Status != models.StatusPaid {
			return nil, fmt.Errorf("%w: buyer %q still has pending records", ErrValidation, buyer)
		}
		total += r.Price
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: buyer %q has no sold records", ErrValidation, buyer)
	}
	return s.appendCashEntry(source, total, "From buyer "+buyer)
}

func (s *ledgerService) appendCashEntry(source models.CashSource, amount float64, note string) (*models.CashEntry, error) {
	entry := models.CashEntry{
		ID:        uuid.NewString(),
		Source:    source,
		Amount:    amount,
		Note:      note,
		CreatedAt: s.now(),
	}
	cash := append(s.cash(), entry)
	if err := s.store.Save(keyCash, cash); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *ledgerService) DeleteCashEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cash := s.cash()
	idx := indexOf(cash, func(e models.CashEntry) bool { return e.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: cash entry %s", ErrNotFound, id)
	}
	cash = append(cash[:idx], cash[idx+1:]...)
	return s.store.Save(keyCash, cash)
}

// --- Name registries ---

// RenameParty renames a seller or buyer and cascades the rename into every
// referencing record and the matching last-used pointer. Returns the number
// of records touched. Renaming to the same or an empty name is a no-op.
func (s *ledgerService) RenameParty(kind models.PartyKind, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || oldName == newName {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var registryKey, pointerKey string
	switch kind {
	case models.PartySeller:
		registryKey, pointerKey = keySellers, keyLastSeller
	case models.PartyBuyer:
		registryKey, pointerKey = keyBuyers, keyLastBuyer
	default:
		return 0, fmt.Errorf("%w: unknown party kind %q", ErrValidation, kind)
	}

	touched := 0
	if kind == models.PartySeller {
		items := s.items()
		for i := range items {
			if items[i].Seller == oldName {
				items[i].Seller = newName
				touched++
			}
		}
		listings := s.listings()
		for i := range listings {
			if listings[i].Seller == oldName {
				listings[i].Seller = newName
				touched++
			}
		}
		if err := s.store.Save(keyBought, items); err != nil {
			return 0, err
		}
		if err := s.store.Save(keyForSale, listings); err != nil {
			return 0, err
		}
	} else {
		sold := s.sold()
		for i := range sold {
			if sold[i].Buyer == oldName {
				sold[i].Buyer = newName
				touched++
			}
		}
		if err := s.store.Save(keySold, sold); err != nil {
			return 0, err
		}
		fees := s.shipping()
		if fee, ok := fees[oldName]; ok {
			delete(fees, oldName)
			fees[newName] += fee
			if err := s.store.Save(keyShipping, fees); err != nil {
				return 0, err
			}
		}
	}

	names := s.names(registryKey)
	out := names[:0]
	seen := false
	for _, n := range names {
		if n == oldName {
			n = newName
		}
		if n == newName {
			if seen {
				continue
			}
			seen = true
		}
		out = append(out, n)
	}
	if err := s.store.Save(registryKey, out); err != nil {
		return 0, err
	}

	if storage.Load(s.store, pointerKey, "") == oldName {
		if err := s.store.Save(pointerKey, newName); err != nil {
			return 0, err
		}
	}
	return touched, nil
}

// DeleteParty removes the name from its registry. Referencing records are
// reassigned when reassignTo is given, otherwise their party field is
// cleared. A buyer's shipping fee follows the reassignment or is dropped.
func (s *ledgerService) DeleteParty(kind models.PartyKind, name, reassignTo string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: party name cannot be empty", ErrValidation)
	}
	reassignTo = strings.TrimSpace(reassignTo)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case models.PartySeller:
		items := s.items()
		for i := range items {
			if items[i].Seller == name {
				items[i].Seller = reassignTo
			}
		}
		listings := s.listings()
		for i := range listings {
			if listings[i].Seller == name {
				listings[i].Seller = reassignTo
			}
		}
		if err := s.store.Save(keyBought, items); err != nil {
			return err
		}
		if err := s.store.Save(keyForSale, listings); err != nil {
			return err
		}
		if err := s.removeFromRegistry(keySellers, name, reassignTo); err != nil {
			return err
		}
		return s.clearPointer(keyLastSeller, name, reassignTo)
	case models.PartyBuyer:
		sold := s.sold()
		for i := range sold {
			if sold[i].Buyer == name {
				sold[i].Buyer = reassignTo
			}
		}
		if err := s.store.Save(keySold, sold); err != nil {
			return err
		}
		fees := s.shipping()
		if fee, ok := fees[name]; ok {
			delete(fees, name)
			if reassignTo != "" {
				fees[reassignTo] += fee
			}
			if err := s.store.Save(keyShipping, fees); err != nil {
				return err
			}
		}
		if err := s.removeFromRegistry(keyBuyers, name, reassignTo); err != nil {
			return err
		}
		return s.clearPointer(keyLastBuyer, name, reassignTo)
	default:
		return fmt.Errorf("%w: unknown party kind %q", ErrValidation, kind)
	}
}

func (s *ledgerService) removeFromRegistry(registryKey, name, reassignTo string) error {
	names := s.names(registryKey)
	out := names[:0]
	hasReassign := false
	for _, n := range names {
		if n == name {
			continue
		}
		if n == reassignTo {
			hasReassign = true
		}
		out = append(out, n)
	}
	if reassignTo != "" && !hasReassign {
		out = append(out, reassignTo)
	}
	return s.store.Save(registryKey, out)
}

func (s *ledgerService) clearPointer(pointerKey, name, reassignTo string) error {
	if storage.Load(s.store, pointerKey, "") != name {
		return nil
	}
	return s.store.Save(pointerKey, reassignTo)
}

// registerName adds the name to the registry if absent and updates the
// last-used pointer. Save failures here are logged by the storage layer but
// do not fail the operation that triggered the registration.
func (s *ledgerService) registerName(registryKey, pointerKey, name string) {
	names := s.names(registryKey)
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		names = append(names, name)
		_ = s.store.Save(registryKey, names)
	}
	_ = s.store.Save(pointerKey, name)
}

// --- Preferences and pointers ---

func (s *ledgerService) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Preferences{
		Greeting: storage.Load(s.store, keyGreeting, ""),
		PaidLast: storage.Load(s.store, keyPaidLast, true),
	}
}

func (s *ledgerService) SetPreferences(prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(keyGreeting, prefs.Greeting); err != nil {
		return err
	}
	return s.store.Save(keyPaidLast, prefs.PaidLast)
}

func (s *ledgerService) Pointers() models.Pointers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Pointers{
		LastSeller: storage.Load(s.store, keyLastSeller, ""),
		LastBuyer:  storage.Load(s.store, keyLastBuyer, ""),
	}
}

// --- helpers ---

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}
