// Package schema defines the cleaned entity models and owns the fixed
// four-table destination schema: DDL rendering per SQL dialect and the
// drop-and-recreate reset that precedes every load.
package schema

// Customer is a cleaned customer row ready for load. OldID is the source
// identifier captured before the sink assigns a surrogate key.
type Customer struct {
	OldID            string
	FirstName        string  `db:"first_name"`
	LastName         string  `db:"last_name"`
	Email            string  `db:"email"`
	Phone            *string `db:"phone"` // canonical +91-XXXXXXXXXX, nil when absent
	City             string  `db:"city"`
	RegistrationDate string  `db:"registration_date"` // ISO YYYY-MM-DD
}

// Product is a cleaned product row. Price is always resolved by the
// transformer (category median, then global median).
type Product struct {
	OldID    string
	Name     string  `db:"product_name"`
	Category string  `db:"category"`
	Price    float64 `db:"price"`
	Stock    int     `db:"stock_quantity"`
}

// Sale is a cleaned sales-transaction row. The old customer/product ids are
// remapped to surrogate keys during load.
type Sale struct {
	OldCustomerID string
	OldProductID  string
	Date          string `db:"transaction_date"` // ISO YYYY-MM-DD
	Quantity      int    `db:"quantity"`
	UnitPrice     float64
	Subtotal      float64 // Quantity * UnitPrice, derived by the transformer
	Status        string  // title-cased free text
}

// Order is synthesized during load: one per distinct
// (customer_id, order_date, status) group of sales rows.
type Order struct {
	CustomerID  int64   `db:"customer_id"`
	OrderDate   string  `db:"order_date"`
	TotalAmount float64 `db:"total_amount"`
	Status      string  `db:"status"`
}

// OrderItem is one surviving sales row attached to its order.
type OrderItem struct {
	OrderID   int64   `db:"order_id"`
	ProductID int64   `db:"product_id"`
	Quantity  int     `db:"quantity"`
	UnitPrice float64 `db:"unit_price"`
	Subtotal  float64 `db:"subtotal"`
}
