package schema

import (
	"context"
	"fmt"
	"log"

	"fleximart/internal/storage"
)

// Error indicates the destination schema could not be (re)created. It is
// fatal: the pipeline aborts before touching any data.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("schema: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Table names of the destination schema, in dependency order.
const (
	TableCustomers  = "customers"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)

// dropOrder reverses FK dependencies so drops never violate constraints.
var dropOrder = []string{TableOrderItems, TableOrders, TableProducts, TableCustomers}

// dialectTypes carries the few type spellings that differ across backends.
type dialectTypes struct {
	autoPK  string // auto-incrementing primary key column definition
	fkInt   string // integer type matching the generated keys
	decimal string // money columns
	date    string
}

func typesFor(dialect string) (dialectTypes, error) {
	switch dialect {
	case "mysql":
		return dialectTypes{
			autoPK:  "INT PRIMARY KEY AUTO_INCREMENT",
			fkInt:   "INT",
			decimal: "DECIMAL(10,2)",
			date:    "DATE",
		}, nil
	case "postgres":
		return dialectTypes{
			autoPK:  "BIGSERIAL PRIMARY KEY",
			fkInt:   "BIGINT",
			decimal: "NUMERIC(10,2)",
			date:    "DATE",
		}, nil
	case "sqlite":
		// Dates are stored as ISO text; NUMERIC affinity covers DECIMAL.
		return dialectTypes{
			autoPK:  "INTEGER PRIMARY KEY AUTOINCREMENT",
			fkInt:   "INTEGER",
			decimal: "DECIMAL(10,2)",
			date:    "TEXT",
		}, nil
	default:
		return dialectTypes{}, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// CreateStatements renders the four CREATE TABLE statements for dialect, in
// dependency order (customers, products, orders, order_items).
func CreateStatements(dialect string) ([]string, error) {
	t, err := typesFor(dialect)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE customers (
    customer_id %s,
    first_name VARCHAR(50) NOT NULL,
    last_name VARCHAR(50) NOT NULL,
    email VARCHAR(100) UNIQUE NOT NULL,
    phone VARCHAR(20),
    city VARCHAR(50),
    registration_date %s
)`, t.autoPK, t.date),
		fmt.Sprintf(`CREATE TABLE products (
    product_id %s,
    product_name VARCHAR(100) NOT NULL,
    category VARCHAR(50) NOT NULL,
    price %s NOT NULL,
    stock_quantity INT DEFAULT 0
)`, t.autoPK, t.decimal),
		fmt.Sprintf(`CREATE TABLE orders (
    order_id %s,
    customer_id %s NOT NULL,
    order_date %s NOT NULL,
    total_amount %s NOT NULL,
    status VARCHAR(20) DEFAULT 'Pending',
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
)`, t.autoPK, t.fkInt, t.date, t.decimal),
		fmt.Sprintf(`CREATE TABLE order_items (
    order_item_id %s,
    order_id %s NOT NULL,
    product_id %s NOT NULL,
    quantity INT NOT NULL,
    unit_price %s NOT NULL,
    subtotal %s NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(order_id),
    FOREIGN KEY (product_id) REFERENCES products(product_id)
)`, t.autoPK, t.fkInt, t.fkInt, t.decimal, t.decimal),
	}, nil
}

// DropStatements renders the DROP TABLE statements in reverse dependency
// order.
func DropStatements() []string {
	stmts := make([]string, 0, len(dropOrder))
	for _, table := range dropOrder {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+table)
	}
	return stmts
}

// Reset drops (if present) and recreates the destination schema. It must run
// before any load in a pipeline execution; every run starts from a clean
// slate.
func Reset(ctx context.Context, repo storage.Repository) error {
	creates, err := CreateStatements(repo.Dialect())
	if err != nil {
		return &Error{Op: "render ddl", Err: err}
	}
	for _, stmt := range DropStatements() {
		if err := repo.Exec(ctx, stmt); err != nil {
			return &Error{Op: "drop tables", Err: err}
		}
	}
	for _, stmt := range creates {
		if err := repo.Exec(ctx, stmt); err != nil {
			return &Error{Op: "create tables", Err: err}
		}
	}
	log.Printf("schema: reset complete (dialect=%s, tables=%d)", repo.Dialect(), len(creates))
	return nil
}
