// Package load writes cleaned entities into the destination schema. Customers
// and products load row-by-row so each generated surrogate key can be captured
// into an IDMap; sales are aggregated into orders plus order items, with the
// item rows bulk-inserted. Each load operation owns its transactions and rolls
// back on failure.
package load

import (
	"context"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"

	"fleximart/internal/quality"
	"fleximart/internal/schema"
	"fleximart/internal/storage"
)

// Error indicates a load failed and its transaction was rolled back. Nothing
// from the failed operation remains in the destination.
type Error struct {
	Table string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("load %s: %v", e.Table, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// IDMap maps a source identifier to the surrogate key the sink generated.
type IDMap map[string]int64

var (
	customerColumns  = []string{"first_name", "last_name", "email", "phone", "city", "registration_date"}
	productColumns   = []string{"product_name", "category", "price", "stock_quantity"}
	orderColumns     = []string{"customer_id", "order_date", "total_amount", "status"}
	orderItemColumns = []string{"order_id", "product_id", "quantity", "unit_price", "subtotal"}
)

// Customers inserts the cleaned customers in one transaction and returns the
// old-id to surrogate-key map.
func Customers(ctx context.Context, repo storage.Repository, customers []schema.Customer, qt *quality.Tracker) (IDMap, error) {
	tx, err := repo.Begin(ctx)
	if err != nil {
		return nil, &Error{Table: schema.TableCustomers, Err: err}
	}

	ids := make(IDMap, len(customers))
	for _, c := range customers {
		var phone any
		if c.Phone != nil {
			phone = *c.Phone
		}
		row := []any{c.FirstName, c.LastName, c.Email, phone, c.City, c.RegistrationDate}
		id, err := tx.InsertReturningID(ctx, schema.TableCustomers, customerColumns, "customer_id", row)
		if err != nil {
			tx.Rollback(ctx)
			return nil, &Error{Table: schema.TableCustomers, Err: err}
		}
		ids[c.OldID] = id
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &Error{Table: schema.TableCustomers, Err: err}
	}

	qt.RecordLoaded(quality.TableCustomers, len(customers))
	log.Printf("load: %s customers", humanize.Comma(int64(len(customers))))
	return ids, nil
}

// Products inserts the cleaned products in one transaction and returns the
// old-id to surrogate-key map.
func Products(ctx context.Context, repo storage.Repository, products []schema.Product, qt *quality.Tracker) (IDMap, error) {
	tx, err := repo.Begin(ctx)
	if err != nil {
		return nil, &Error{Table: schema.TableProducts, Err: err}
	}

	ids := make(IDMap, len(products))
	for _, p := range products {
		row := []any{p.Name, p.Category, p.Price, p.Stock}
		id, err := tx.InsertReturningID(ctx, schema.TableProducts, productColumns, "product_id", row)
		if err != nil {
			tx.Rollback(ctx)
			return nil, &Error{Table: schema.TableProducts, Err: err}
		}
		ids[p.OldID] = id
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &Error{Table: schema.TableProducts, Err: err}
	}

	qt.RecordLoaded(quality.TableProducts, len(products))
	log.Printf("load: %s products", humanize.Comma(int64(len(products))))
	return ids, nil
}

// orderKey identifies one synthesized order: all of a customer's surviving
// sales on one date with one status collapse into it.
type orderKey struct {
	customerID int64
	date       string
	status     string
}

// Sales remaps each sale's old customer and product ids through the maps from
// the preceding loads, aggregates the survivors into orders, and writes orders
// then order items. Sales referencing an unknown customer or product are
// dropped and counted as missing values handled; records loaded counts order
// items, not orders.
//
// Orders commit in their own transaction before items load. A failure while
// loading items therefore leaves the committed orders in place; only the
// item transaction rolls back.
func Sales(ctx context.Context, repo storage.Repository, sales []schema.Sale, customerIDs, productIDs IDMap, qt *quality.Tracker) error {
	unmapped := 0
	type mappedSale struct {
		sale      schema.Sale
		productID int64
	}

	// Group into orders in first-appearance order.
	var keys []orderKey
	groups := make(map[orderKey][]mappedSale)
	for _, s := range sales {
		custID, ok := customerIDs[s.OldCustomerID]
		if !ok {
			unmapped++
			continue
		}
		prodID, ok := productIDs[s.OldProductID]
		if !ok {
			unmapped++
			continue
		}
		key := orderKey{customerID: custID, date: s.Date, status: s.Status}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], mappedSale{sale: s, productID: prodID})
	}
	qt.RecordMissing(quality.TableSales, unmapped)

	tx, err := repo.Begin(ctx)
	if err != nil {
		return &Error{Table: schema.TableOrders, Err: err}
	}
	orderIDs := make(map[orderKey]int64, len(keys))
	for _, key := range keys {
		var total float64
		for _, m := range groups[key] {
			total += m.sale.Subtotal
		}
		row := []any{key.customerID, key.date, total, key.status}
		id, err := tx.InsertReturningID(ctx, schema.TableOrders, orderColumns, "order_id", row)
		if err != nil {
			tx.Rollback(ctx)
			return &Error{Table: schema.TableOrders, Err: err}
		}
		orderIDs[key] = id
	}
	if err := tx.Commit(ctx); err != nil {
		return &Error{Table: schema.TableOrders, Err: err}
	}

	var itemRows [][]any
	for _, key := range keys {
		for _, m := range groups[key] {
			itemRows = append(itemRows, []any{
				orderIDs[key], m.productID, m.sale.Quantity, m.sale.UnitPrice, m.sale.Subtotal,
			})
		}
	}
	itemTx, err := repo.Begin(ctx)
	if err != nil {
		return &Error{Table: schema.TableOrderItems, Err: err}
	}
	inserted, err := itemTx.CopyFrom(ctx, schema.TableOrderItems, orderItemColumns, itemRows)
	if err != nil {
		itemTx.Rollback(ctx)
		return &Error{Table: schema.TableOrderItems, Err: err}
	}
	if err := itemTx.Commit(ctx); err != nil {
		return &Error{Table: schema.TableOrderItems, Err: err}
	}

	qt.RecordLoaded(quality.TableSales, int(inserted))
	log.Printf("load: %s orders, %s order items",
		humanize.Comma(int64(len(keys))), humanize.Comma(inserted))
	return nil
}
