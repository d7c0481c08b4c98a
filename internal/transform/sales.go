package transform

import (
	"log"
	"strconv"
	"strings"

	"fleximart/internal/normalize"
	"fleximart/internal/quality"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Sales cleans the raw sales records. Policy, in order per row:
//   - drop duplicate transaction_id values, keeping the first occurrence
//   - drop rows missing customer_id, then product_id (each counted as a
//     missing value handled)
//   - drop rows whose transaction_date cannot be parsed (counted likewise)
//   - drop rows whose quantity is not a positive integer or whose unit_price
//     is not a non-negative number; each bad field counts separately
//
// Surviving rows get a computed subtotal and a title-cased status. Referential
// checks against the loaded customers and products happen later, at load time,
// once the surrogate-key maps exist.
func Sales(in []records.Record, qt *quality.Tracker) []schema.Sale {
	kept, removed := dedupFirst(in, "transaction_id")

	missing := 0
	out := make([]schema.Sale, 0, len(kept))
	for _, rec := range kept {
		if rec.Missing("customer_id") {
			missing++
			continue
		}
		if rec.Missing("product_id") {
			missing++
			continue
		}
		date, ok := normalize.Date(rec.Str("transaction_date"))
		if !ok {
			missing++
			continue
		}

		qty, qtyErr := strconv.Atoi(strings.TrimSpace(rec.Str("quantity")))
		badQty := qtyErr != nil || qty <= 0
		price, priceErr := strconv.ParseFloat(strings.TrimSpace(rec.Str("unit_price")), 64)
		badPrice := priceErr != nil || price < 0
		if badQty {
			missing++
		}
		if badPrice {
			missing++
		}
		if badQty || badPrice {
			continue
		}

		out = append(out, schema.Sale{
			OldCustomerID: rec.Str("customer_id"),
			OldProductID:  rec.Str("product_id"),
			Date:          date,
			Quantity:      qty,
			UnitPrice:     price,
			Subtotal:      float64(qty) * price,
			Status:        normalize.Title(strings.TrimSpace(rec.Str("status"))),
		})
	}

	qt.RecordDuplicates(quality.TableSales, removed)
	qt.RecordMissing(quality.TableSales, missing)
	log.Printf("transform: sales %d -> %d (duplicates=%d, missing_or_invalid=%d)",
		len(in), len(out), removed, missing)
	return out
}
