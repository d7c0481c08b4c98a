package transform

import (
	"testing"

	"fleximart/internal/quality"
	"fleximart/pkg/records"
)

func rec(pairs ...string) records.Record {
	r := make(records.Record, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			r[pairs[i]] = nil
		} else {
			r[pairs[i]] = pairs[i+1]
		}
	}
	return r
}

func customer(id, email, date string) records.Record {
	return rec(
		"customer_id", id,
		"first_name", "Asha",
		"last_name", "Rao",
		"email", email,
		"phone", "9876543210",
		"city", "Pune",
		"registration_date", date,
	)
}

func TestCustomersDedupKeepsFirst(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Customers([]records.Record{
		customer("C001", "first@example.com", "2024-01-15"),
		customer("C001", "second@example.com", "2024-01-16"),
		customer("C002", "other@example.com", "2024-01-17"),
	}, qt)

	if len(out) != 2 {
		t.Fatalf("got %d customers, want 2", len(out))
	}
	if out[0].Email != "first@example.com" {
		t.Fatalf("kept wrong duplicate: %q", out[0].Email)
	}
	if got := qt.Snapshot()[quality.TableCustomers].DuplicatesRemoved; got != 1 {
		t.Fatalf("duplicates_removed = %d, want 1", got)
	}
}

func TestCustomersDropsMissingEmailAndBadDate(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Customers([]records.Record{
		customer("C001", "", "2024-01-15"),
		customer("C002", "c2@example.com", "2024-02-30"),
		customer("C003", "c3@example.com", "15/01/2024"),
	}, qt)

	if len(out) != 1 || out[0].OldID != "C003" {
		t.Fatalf("got %+v, want only C003", out)
	}
	if out[0].RegistrationDate != "2024-01-15" {
		t.Fatalf("registration_date = %q, want 2024-01-15", out[0].RegistrationDate)
	}
	if got := qt.Snapshot()[quality.TableCustomers].MissingValuesHandled; got != 2 {
		t.Fatalf("missing_values_handled = %d, want 2", got)
	}
}

func TestCustomersDropRepeatedEmail(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Customers([]records.Record{
		customer("C001", "same@example.com", "2024-01-15"),
		customer("C002", "Same@Example.com", "2024-01-16"),
	}, qt)

	if len(out) != 1 || out[0].OldID != "C001" {
		t.Fatalf("got %+v, want only C001", out)
	}
	if got := qt.Snapshot()[quality.TableCustomers].DuplicatesRemoved; got != 1 {
		t.Fatalf("duplicates_removed = %d, want 1", got)
	}
}

func TestCustomersPhoneCanonicalOrNil(t *testing.T) {
	t.Parallel()

	good := customer("C001", "a@example.com", "2024-01-15")
	good["phone"] = "09876543210"
	bad := customer("C002", "b@example.com", "2024-01-15")
	bad["phone"] = "12345"
	absent := customer("C003", "c@example.com", "2024-01-15")
	absent["phone"] = nil

	out := Customers([]records.Record{good, bad, absent}, quality.New())
	if out[0].Phone == nil || *out[0].Phone != "+91-9876543210" {
		t.Fatalf("phone = %v, want +91-9876543210", out[0].Phone)
	}
	if out[1].Phone != nil {
		t.Fatalf("short phone should be nil, got %q", *out[1].Phone)
	}
	if out[2].Phone != nil {
		t.Fatalf("absent phone should be nil, got %q", *out[2].Phone)
	}
}

func product(id, name, category, price, stock string) records.Record {
	return rec(
		"product_id", id,
		"product_name", name,
		"category", category,
		"price", price,
		"stock", stock,
	)
}

func TestProductsCategoryMedianImputation(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Products([]records.Record{
		product("P001", "Lamp", "furniture", "100", "5"),
		product("P002", "Desk", "furniture", "300", "2"),
		product("P003", "Chair", "furniture", "", "1"),
		product("P004", "Pen", "stationery", "10", "50"),
	}, qt)

	if len(out) != 4 {
		t.Fatalf("got %d products, want 4", len(out))
	}
	if out[2].Price != 200 {
		t.Fatalf("imputed price = %v, want category median 200", out[2].Price)
	}
	if got := qt.Snapshot()[quality.TableProducts].MissingValuesHandled; got != 1 {
		t.Fatalf("missing_values_handled = %d, want 1", got)
	}
}

func TestProductsGlobalMedianFallback(t *testing.T) {
	t.Parallel()

	out := Products([]records.Record{
		product("P001", "Lamp", "furniture", "100", "5"),
		product("P002", "Pen", "stationery", "20", "50"),
		product("P003", "Mixer", "kitchen", "", "1"),
	}, quality.New())

	// kitchen has no priced rows, so the global median of {20, 100} applies.
	if out[2].Price != 60 {
		t.Fatalf("imputed price = %v, want global median 60", out[2].Price)
	}
}

func TestProductsCategoryStandardizationAndDrop(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Products([]records.Record{
		product("P001", "Desk", "furnitures", "100", "5"),
		product("P002", "Mixer", "Kitchen Appliances", "200", "2"),
		product("P003", "Widget", "gizmos", "50", "1"),
		product("P004", "Mystery", "", "50", "1"),
	}, qt)

	if len(out) != 3 {
		t.Fatalf("got %d products, want 3", len(out))
	}
	if out[0].Category != "Furniture" || out[1].Category != "Kitchen Appliances" {
		t.Fatalf("categories = %q, %q", out[0].Category, out[1].Category)
	}
	// Unknown categories pass through title-cased; only absent ones drop.
	if out[2].Category != "Gizmos" {
		t.Fatalf("unknown category = %q, want Gizmos", out[2].Category)
	}
	if got := qt.Snapshot()[quality.TableProducts].MissingValuesHandled; got != 1 {
		t.Fatalf("missing_values_handled = %d, want 1", got)
	}
}

func TestProductsStockDefaultsToZero(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Products([]records.Record{
		product("P001", "Lamp", "furniture", "100", ""),
		product("P002", "Desk", "furniture", "100", "n/a"),
		product("P003", "Chair", "furniture", "100", "7.0"),
	}, qt)

	if out[0].Stock != 0 || out[1].Stock != 0 {
		t.Fatalf("stock = %d, %d, want 0, 0", out[0].Stock, out[1].Stock)
	}
	if out[2].Stock != 7 {
		t.Fatalf("stock = %d, want 7", out[2].Stock)
	}
	if got := qt.Snapshot()[quality.TableProducts].MissingValuesHandled; got != 2 {
		t.Fatalf("missing_values_handled = %d, want 2", got)
	}
}

func sale(txn, cust, prod, date, qty, price, status string) records.Record {
	return rec(
		"transaction_id", txn,
		"customer_id", cust,
		"product_id", prod,
		"transaction_date", date,
		"quantity", qty,
		"unit_price", price,
		"status", status,
	)
}

func TestSalesDropAndCountPolicy(t *testing.T) {
	t.Parallel()

	qt := quality.New()
	out := Sales([]records.Record{
		sale("T001", "C001", "P001", "2024-01-15", "2", "100.50", "completed"),
		sale("T001", "C009", "P009", "2024-01-15", "1", "10", "completed"), // dup txn
		sale("T002", "", "P001", "2024-01-15", "1", "10", "completed"),     // no customer
		sale("T003", "C001", "", "2024-01-15", "1", "10", "completed"),     // no product
		sale("T004", "C001", "P001", "not-a-date", "1", "10", "completed"), // bad date
		sale("T005", "C001", "P001", "2024-01-15", "0", "10", "completed"), // qty <= 0
		sale("T006", "C001", "P001", "2024-01-15", "x", "-1", "completed"), // both bad
	}, qt)

	if len(out) != 1 {
		t.Fatalf("got %d sales, want 1", len(out))
	}
	got := qt.Snapshot()[quality.TableSales]
	if got.DuplicatesRemoved != 1 {
		t.Fatalf("duplicates_removed = %d, want 1", got.DuplicatesRemoved)
	}
	// T002, T003, T004, T005 count one each; T006 counts both bad fields.
	if got.MissingValuesHandled != 6 {
		t.Fatalf("missing_values_handled = %d, want 6", got.MissingValuesHandled)
	}
}

func TestSalesComputesSubtotalAndTitleCasesStatus(t *testing.T) {
	t.Parallel()

	out := Sales([]records.Record{
		sale("T001", "C001", "P001", "15/01/2024", "3", "99.99", "completed"),
		sale("T002", "C001", "P001", "2024-01-16", "1", "10", ""),
	}, quality.New())

	if len(out) != 2 {
		t.Fatalf("got %d sales, want 2", len(out))
	}
	if out[0].Date != "2024-01-15" {
		t.Fatalf("date = %q, want 2024-01-15", out[0].Date)
	}
	if out[0].Subtotal != 3*99.99 {
		t.Fatalf("subtotal = %v, want %v", out[0].Subtotal, 3*99.99)
	}
	if out[0].Status != "Completed" {
		t.Fatalf("status = %q, want Completed", out[0].Status)
	}
	if out[1].Status != "" {
		t.Fatalf("empty status should stay empty, got %q", out[1].Status)
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{5}, 5},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, tc := range cases {
		if got := median(tc.in); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
