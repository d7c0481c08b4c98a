package transform

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"fleximart/internal/normalize"
	"fleximart/internal/quality"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Products cleans the raw product records. Policy, in order:
//   - drop duplicate product_id values, keeping the first occurrence
//   - impute a missing or unparseable price with the median price of the
//     row's raw category; fall back to the global median when the category
//     has no priced rows (missing and empty prices are counted as missing
//     values handled)
//   - standardize categories through the synonym table; rows with no
//     category at all are dropped (counted as missing values handled)
//   - default a missing or unparseable stock count to zero (counted as
//     missing values handled)
//
// Medians are computed over the post-dedup batch, grouped by the raw
// category value, before any standardization merges synonym groups.
func Products(in []records.Record, qt *quality.Tracker) []schema.Product {
	kept, removed := dedupFirst(in, "product_id")

	type row struct {
		rec      records.Record
		price    float64
		hasPrice bool
	}
	rows := make([]row, 0, len(kept))
	var allPrices []float64
	catPrices := make(map[string][]float64)
	missingPrices := 0

	for _, rec := range kept {
		r := row{rec: rec}
		if rec.Missing("price") {
			missingPrices++
		} else {
			if p, err := strconv.ParseFloat(strings.TrimSpace(rec.Str("price")), 64); err == nil {
				r.price = p
				r.hasPrice = true
				allPrices = append(allPrices, p)
				if !rec.Missing("category") {
					cat := strings.TrimSpace(rec.Str("category"))
					catPrices[cat] = append(catPrices[cat], p)
				}
			}
		}
		rows = append(rows, r)
	}

	globalMedian := median(allPrices)
	catMedian := make(map[string]float64, len(catPrices))
	for cat, prices := range catPrices {
		catMedian[cat] = median(prices)
	}

	nullCategory := 0
	zeroedStock := 0
	out := make([]schema.Product, 0, len(rows))
	for _, r := range rows {
		price := r.price
		if !r.hasPrice {
			price = globalMedian
			if !r.rec.Missing("category") {
				if m, ok := catMedian[strings.TrimSpace(r.rec.Str("category"))]; ok {
					price = m
				}
			}
		}

		category, ok := normalize.Category(r.rec.Str("category"))
		if !ok {
			nullCategory++
			continue
		}

		stock, ok := parseStock(r.rec)
		if !ok {
			zeroedStock++
			stock = 0
		}

		out = append(out, schema.Product{
			OldID:    r.rec.Str("product_id"),
			Name:     strings.TrimSpace(r.rec.Str("product_name")),
			Category: category,
			Price:    price,
			Stock:    stock,
		})
	}

	qt.RecordDuplicates(quality.TableProducts, removed)
	qt.RecordMissing(quality.TableProducts, missingPrices+nullCategory+zeroedStock)
	log.Printf("transform: products %d -> %d (duplicates=%d, missing_prices=%d, dropped_categories=%d, zeroed_stock=%d)",
		len(in), len(out), removed, missingPrices, nullCategory, zeroedStock)
	return out
}

func parseStock(rec records.Record) (int, bool) {
	if rec.Missing("stock") {
		return 0, false
	}
	s := strings.TrimSpace(rec.Str("stock"))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// Stock occasionally arrives as a float literal ("5.0"); truncate it.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// median returns the middle value of vals (mean of the two middle values for
// even counts), or 0 when vals is empty.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
