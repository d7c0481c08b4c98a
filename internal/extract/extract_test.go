package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fleximart/internal/quality"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCustomersReadsRecordsAndCounts(t *testing.T) {
	t.Parallel()

	csv := "customer_id,first_name,last_name,email,phone,city,registration_date\n" +
		"C001,Asha,Rao,asha@example.com,9876543210,Pune,2024-01-15\n" +
		"C002,Ravi,Iyer,,,Mumbai,15/01/2024\n"
	path := writeFile(t, "customers_raw.csv", csv)

	qt := quality.New()
	recs, err := Customers(path, qt)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if got := qt.Snapshot()[quality.TableCustomers].RecordsRead; got != 2 {
		t.Fatalf("records_read = %d, want 2", got)
	}
	if recs[0].Str("email") != "asha@example.com" {
		t.Fatalf("email = %q", recs[0].Str("email"))
	}
	// Empty cells come through as nil so missing-value policy can see them.
	if !recs[1].Missing("email") {
		t.Fatalf("expected missing email on second record")
	}
}

func TestHeaderNormalization(t *testing.T) {
	t.Parallel()

	csv := "\uFEFFCustomer ID,First Name,Last Name,Email,Phone,City,Registration Date\n" +
		"C001,Asha,Rao,asha@example.com,9876543210,Pune,2024-01-15\n"
	path := writeFile(t, "customers_raw.csv", csv)

	recs, err := Customers(path, quality.New())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if recs[0].Str("customer_id") != "C001" {
		t.Fatalf("customer_id = %q, want C001", recs[0].Str("customer_id"))
	}
}

func TestMissingRequiredColumnsIsFatal(t *testing.T) {
	t.Parallel()

	csv := "product_id,product_name,category\nP001,Lamp,furniture\n"
	path := writeFile(t, "products_raw.csv", csv)

	_, err := Products(path, quality.New())
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("error %v is not *extract.Error", err)
	}
	if !strings.Contains(err.Error(), "price") || !strings.Contains(err.Error(), "stock") {
		t.Fatalf("error does not name missing columns: %v", err)
	}
}

func TestUnreadableSourceIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Sales(filepath.Join(t.TempDir(), "nope.csv"), quality.New())
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("error %v is not *extract.Error", err)
	}
}

func TestMalformedRowIsFatal(t *testing.T) {
	t.Parallel()

	csv := "transaction_id,customer_id,product_id,transaction_date,quantity,unit_price,status\n" +
		"T001,C001,P001,2024-01-15,2,100.00,completed\n" +
		"T002,C001\n" // wrong field count
	path := writeFile(t, "sales_raw.csv", csv)

	if _, err := Sales(path, quality.New()); err == nil {
		t.Fatal("expected error for malformed row")
	}
}
