package core

import (
	"sort"
	"strings"
)

// ProductGroup collects every warehouse offer for one product. Products are
// identified by the exact (item code, item name) pair. WarehouseCount counts
// distinct warehouses, not offers.
type ProductGroup struct {
	ItemCode        string            `json:"itemCode"`
	ItemName        string            `json:"itemName"`
	Warehouses      []WarehouseRecord `json:"warehouses"`
	HighestDiscount WarehouseRecord   `json:"highestDiscount"`
	LowestDiscount  WarehouseRecord   `json:"lowestDiscount"`
	BestPrice       WarehouseRecord   `json:"bestPrice"`
	TotalStock      float64           `json:"totalStock"`
	WarehouseCount  int               `json:"warehouseCount"`
}

// SearchResult distinguishes "no query entered" (Searched=false) from a query
// that matched nothing (Searched=true, no groups).
type SearchResult struct {
	Query    string         `json:"query"`
	Searched bool           `json:"searched"`
	Groups   []ProductGroup `json:"groups"`
}

type productKey struct {
	code string
	name string
}

// ProductSearchEngine answers product queries over the repository's merged
// index.
type ProductSearchEngine struct {
	repo *WarehouseRepository
}

// NewProductSearchEngine creates an engine reading from repo.
func NewProductSearchEngine(repo *WarehouseRepository) *ProductSearchEngine {
	return &ProductSearchEngine{repo: repo}
}

// Search runs query against the current merged index.
func (e *ProductSearchEngine) Search(query string) SearchResult {
	return SearchRecords(e.repo.MergedIndex(), query)
}

// SearchRecords matches records whose item code or item name contains the
// trimmed query, case-insensitively, and groups them by product. Groups are
// returned in the order their first record appears.
func SearchRecords(records []WarehouseRecord, query string) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResult{Query: query, Groups: []ProductGroup{}}
	}

	var keys []productKey
	members := make(map[productKey][]WarehouseRecord)
	for _, rec := range records {
		if !strings.Contains(strings.ToLower(rec.ItemCode), q) &&
			!strings.Contains(strings.ToLower(rec.ItemName), q) {
			continue
		}
		k := productKey{code: rec.ItemCode, name: rec.ItemName}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], rec)
	}

	groups := make([]ProductGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, buildGroup(k, members[k]))
	}
	return SearchResult{Query: query, Searched: true, Groups: groups}
}

// buildGroup computes the group extrema over recs in merged-index order, so
// ties go to the first occurrence, then sorts a copy by descending discount
// for display.
func buildGroup(k productKey, recs []WarehouseRecord) ProductGroup {
	g := ProductGroup{
		ItemCode:        k.code,
		ItemName:        k.name,
		HighestDiscount: recs[0],
		LowestDiscount:  recs[0],
		BestPrice:       recs[0],
	}
	seen := make(map[string]struct{}, len(recs))
	for i, rec := range recs {
		seen[rec.WarehouseID] = struct{}{}
		if rec.Stock != nil {
			g.TotalStock += *rec.Stock
		}
		if i == 0 {
			continue
		}
		if rec.BaseDiscount > g.HighestDiscount.BaseDiscount {
			g.HighestDiscount = rec
		}
		if rec.BaseDiscount < g.LowestDiscount.BaseDiscount {
			g.LowestDiscount = rec
		}
		if rec.FinalPrice < g.BestPrice.FinalPrice {
			g.BestPrice = rec
		}
	}

	g.WarehouseCount = len(seen)

	sorted := make([]WarehouseRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BaseDiscount > sorted[j].BaseDiscount
	})
	g.Warehouses = sorted
	return g
}
