package services

import (
	"sort"

	"resale_tracker_backend/internal/models"
)

// ReportService derives view models from ledger snapshots. All methods are
// pure reads; nothing here persists.
type ReportService interface {
	SellerReport() models.SellerReport
	BuyerReport() models.BuyerReport
	CashReport() models.CashReport
}

type reportService struct {
	ledger LedgerService
}

// NewReportService creates a ReportService over the given ledger.
func NewReportService(ledger LedgerService) ReportService {
	return &reportService{ledger: ledger}
}

// SellerReport groups inventory by seller, in order of first appearance,
// with an explicit "(No seller)" bucket for items without a seller.
func (s *reportService) SellerReport() models.SellerReport {
	report := models.SellerReport{Groups: []models.SellerGroup{}}
	index := map[string]int{}

	for _, it := range s.ledger.Items() {
		seller := it.Seller
		if seller == "" {
			seller = models.NoSellerBucket
		}
		i, ok := index[seller]
		if !ok {
			i = len(report.Groups)
			index[seller] = i
			report.Groups = append(report.Groups, models.SellerGroup{Seller: seller, Items: []models.InventoryItem{}})
		}

		g := &report.Groups[i]
		g.Items = append(g.Items, it)
		g.Spent += it.BuyCost + it.ShipInCost
		g.Worth += sellPrice(it)
	}

	for i := range report.Groups {
		g := &report.Groups[i]
		g.Profit = g.Worth - g.Spent
		report.TotalSpent += g.Spent
		report.TotalWorth += g.Worth
		report.TotalProfit += g.Profit
	}
	return report
}

// sellPrice is what an item is expected to sell for: the configured sell
// price when set, otherwise its acquisition cost.
func sellPrice(it models.InventoryItem) float64 {
	if it.ListPrice > 0 {
		return it.ListPrice
	}
	return it.BuyCost + it.ShipInCost
}

// BuyerReport groups sold records by buyer. Groups are sorted by most recent
// sale first; when the paid-last preference is on, fully-paid groups sort
// after groups still owing.
func (s *reportService) BuyerReport() models.BuyerReport {
	fees := s.ledger.ShippingFees()
	paidLast := s.ledger.Preferences().PaidLast

	report := models.BuyerReport{Groups: []models.BuyerGroup{}}
	index := map[string]int{}

	for _, r := range s.ledger.SoldRecords() {
		i, ok := index[r.Buyer]
		if !ok {
			i = len(report.Groups)
			index[r.Buyer] = i
			report.Groups = append(report.Groups, models.BuyerGroup{
				Buyer:       r.Buyer,
				Records:     []models.SoldRecord{},
				ShippingFee: fees[r.Buyer],
				AllPaid:     true,
			})
		}

		g := &report.Groups[i]
		g.Records = append(g.Records, r)
		g.Gross += r.Price
		if r.Status != models.StatusPaid {
			g.AllPaid = false
		}
	}

	for i := range report.Groups {
		g := &report.Groups[i]
		g.Net = g.Gross - g.ShippingFee
	}

	latest := func(g models.BuyerGroup) int64 {
		var max int64
		for _, r := range g.Records {
			if t := r.SoldAt.UnixNano(); t > max {
				max = t
			}
		}
		return max
	}
	sort.SliceStable(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i], report.Groups[j]
		if paidLast && a.AllPaid != b.AllPaid {
			return !a.AllPaid
		}
		return latest(a) > latest(b)
	})
	return report
}

// CashReport sums the cash ledger per source. The grand total is cash on
// hand plus paid sold revenue; pending revenue is reported separately and
// never counted into the total.
func (s *reportService) CashReport() models.CashReport {
	report := models.CashReport{BySource: map[models.CashSource]float64{}}

	for _, e := range s.ledger.CashEntries() {
		report.BySource[e.Source] += e.Amount
		report.OnHand += e.Amount
	}
	for _, r := range s.ledger.SoldRecords() {
		if r.Status == models.StatusPaid {
			report.PaidRevenue += r.Price
		} else {
			report.PendingRevenue += r.Price
		}
	}
	report.GrandTotal = report.OnHand + report.PaidRevenue
	return report
}
