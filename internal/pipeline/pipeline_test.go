package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fleximart/internal/config"
	"fleximart/internal/quality"

	_ "fleximart/internal/storage/sqlite"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunEndToEndSQLite(t *testing.T) {
	dir := t.TempDir()

	customers := "customer_id,first_name,last_name,email,phone,city,registration_date\n" +
		"C001,Asha,Rao,asha@example.com,9876543210,Pune,2024-01-15\n" +
		"C001,Asha,Rao,asha@example.com,9876543210,Pune,2024-01-15\n" + // dup id
		"C002,Ravi,Iyer,,9876500000,Mumbai,2024-01-16\n" + // missing email
		"C003,Meera,Shah,meera@example.com,09123456789,Delhi,15/01/2024\n"
	products := "product_id,product_name,category,price,stock\n" +
		"P001,Lamp,furnitures,499.99,10\n" +
		"P002,Pen,stationery,,5\n" // price imputed
	sales := "transaction_id,customer_id,product_id,transaction_date,quantity,unit_price,status\n" +
		"T001,C001,P001,2024-01-15,2,100.00,completed\n" +
		"T002,C001,P002,2024-01-15,1,50.00,completed\n" +
		"T003,C003,P001,2024-01-16,1,100.00,pending\n" +
		"T004,C002,P001,2024-01-16,1,100.00,completed\n" // C002 never loaded

	dbPath := filepath.Join(dir, "fleximart.db")
	cfg := config.Pipeline{
		Job: "e2e-test",
		Sources: config.Sources{
			Customers: writeFixture(t, dir, "customers_raw.csv", customers),
			Products:  writeFixture(t, dir, "products_raw.csv", products),
			Sales:     writeFixture(t, dir, "sales_raw.csv", sales),
		},
		Storage: config.Storage{Kind: "sqlite", DB: config.DBConfig{DSN: dbPath}},
		Report:  config.Report{Path: filepath.Join(dir, "report.txt")},
	}

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open result db: %v", err)
	}
	defer db.Close()

	counts := map[string]int{
		"customers":   2, // dup and missing-email rows dropped
		"products":    2,
		"orders":      2, // same customer/date/status collapses
		"order_items": 3, // C002's sale dropped as unmapped
	}
	for table, want := range counts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var total float64
	if err := db.QueryRow("SELECT total_amount FROM orders WHERE status = 'Completed'").Scan(&total); err != nil {
		t.Fatalf("query completed order: %v", err)
	}
	if total != 250 {
		t.Errorf("total_amount = %v, want 250", total)
	}

	var price float64
	if err := db.QueryRow("SELECT price FROM products WHERE product_name = 'Pen'").Scan(&price); err != nil {
		t.Fatalf("query imputed price: %v", err)
	}
	if price != 499.99 {
		t.Errorf("imputed price = %v, want 499.99", price)
	}

	sc := res.Snapshot[quality.TableSales]
	if sc.RecordsRead != 4 || sc.RecordsLoaded != 3 || sc.MissingValuesHandled != 1 {
		t.Errorf("sales counts = %+v", sc)
	}

	data, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Table: SALES") || !strings.Contains(string(data), "END OF REPORT") {
		t.Errorf("report content unexpected:\n%s", data)
	}

	// A rerun starts from a dropped-and-recreated schema, so nothing
	// accumulates across runs.
	db.Close()
	res2, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res2.Snapshot[quality.TableSales] != res.Snapshot[quality.TableSales] {
		t.Errorf("rerun changed sales counts: %+v vs %+v",
			res2.Snapshot[quality.TableSales], res.Snapshot[quality.TableSales])
	}
}

func TestRunUnknownStorageKind(t *testing.T) {
	t.Parallel()

	cfg := config.Pipeline{
		Job:     "bad",
		Storage: config.Storage{Kind: "oracle", DB: config.DBConfig{DSN: "x"}},
	}
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown storage kind")
	}
}
