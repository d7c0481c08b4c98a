// Package extract reads the three raw CSV sources into record sets. Each
// extractor enforces its table's required-column contract and reports the row
// count to the quality tracker. Structural problems (unreadable file, broken
// CSV, missing columns) are fatal; data-quality problems are left for the
// transformers.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fleximart/internal/quality"
	"fleximart/pkg/records"
)

// Error indicates a source was unreadable or malformed. It aborts the
// pipeline; per-row data problems never surface as an Error.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string { return fmt.Sprintf("extract %s: %v", e.Source, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Required column sets per source table, canonical (lowercased) form.
var (
	customerColumns = []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	productColumns  = []string{"product_id", "product_name", "category", "price", "stock"}
	salesColumns    = []string{"transaction_id", "customer_id", "product_id", "transaction_date", "quantity", "unit_price", "status"}
)

const utf8BOM = "\uFEFF"

// Customers reads the raw customers CSV.
func Customers(path string, qt *quality.Tracker) ([]records.Record, error) {
	return read(path, quality.TableCustomers, customerColumns, qt)
}

// Products reads the raw products CSV.
func Products(path string, qt *quality.Tracker) ([]records.Record, error) {
	return read(path, quality.TableProducts, productColumns, qt)
}

// Sales reads the raw sales CSV.
func Sales(path string, qt *quality.Tracker) ([]records.Record, error) {
	return read(path, quality.TableSales, salesColumns, qt)
}

func read(path, table string, required []string, qt *quality.Tracker) ([]records.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Source: path, Err: err}
	}
	defer f.Close()

	recs, err := parse(f, required)
	if err != nil {
		return nil, &Error{Source: path, Err: err}
	}

	qt.RecordRead(table, len(recs))
	log.Printf("extract: read %d %s records from %s", len(recs), table, path)
	return recs, nil
}

// parse consumes CSV from r, normalizes headers, verifies the required
// columns, and returns one Record per data row with empty cells as nil.
func parse(r io.Reader, required []string) ([]records.Record, error) {
	cr := csv.NewReader(r)

	rawHeader, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(rawHeader)

	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[h] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var out []records.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec := make(records.Record, len(headers))
		for i, val := range row {
			val = strings.TrimSpace(val)
			if val == "" {
				rec[headers[i]] = nil
			} else {
				rec[headers[i]] = val
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// normalizeHeaders produces canonical header keys: BOM stripped from the
// first cell, trimmed, lowercased, spaces to underscores.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
