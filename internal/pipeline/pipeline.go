// Package pipeline orchestrates a full run: schema reset, concurrent
// extraction of the three sources, cleaning, ordered loads, and the quality
// report. Stage boundaries are also the metrics boundaries.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fleximart/internal/config"
	"fleximart/internal/extract"
	"fleximart/internal/load"
	"fleximart/internal/metrics"
	"fleximart/internal/quality"
	"fleximart/internal/report"
	"fleximart/internal/schema"
	"fleximart/internal/storage"
	"fleximart/internal/transform"
	"fleximart/pkg/records"
)

// Result carries the final per-table counts and the report location.
type Result struct {
	RunID      string
	Snapshot   map[string]quality.Counts
	ReportPath string
}

// Run executes the pipeline described by cfg. The destination schema is
// dropped and recreated first; loads happen in dependency order (customers,
// products, then sales) so the surrogate-key maps exist before sales remap.
func Run(ctx context.Context, cfg config.Pipeline) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	log.Printf("pipeline: job %s starting (run %s, storage %s)", cfg.Job, runID, cfg.Storage.Kind)

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DB.DSN})
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	qt := quality.New()

	// stage wraps each phase so timing and success/failure are recorded
	// uniformly.
	stage := func(name string, fn func() error) error {
		t0 := time.Now()
		err := fn()
		metrics.RecordStage(cfg.Job, name, err, time.Since(t0))
		if err != nil {
			log.Printf("pipeline: stage %s failed: %v", name, err)
		}
		return err
	}

	if err := stage("schema", func() error {
		return schema.Reset(ctx, repo)
	}); err != nil {
		return nil, err
	}

	var rawCustomers, rawProducts, rawSales []records.Record
	if err := stage("extract", func() error {
		// The three sources are independent files; read them concurrently.
		var g errgroup.Group
		g.Go(func() error {
			var err error
			rawCustomers, err = extract.Customers(cfg.Sources.Customers, qt)
			return err
		})
		g.Go(func() error {
			var err error
			rawProducts, err = extract.Products(cfg.Sources.Products, qt)
			return err
		})
		g.Go(func() error {
			var err error
			rawSales, err = extract.Sales(cfg.Sources.Sales, qt)
			return err
		})
		return g.Wait()
	}); err != nil {
		return nil, err
	}

	var (
		customers []schema.Customer
		products  []schema.Product
		sales     []schema.Sale
	)
	if err := stage("transform", func() error {
		customers = transform.Customers(rawCustomers, qt)
		products = transform.Products(rawProducts, qt)
		sales = transform.Sales(rawSales, qt)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage("load", func() error {
		customerIDs, err := load.Customers(ctx, repo, customers, qt)
		if err != nil {
			return err
		}
		productIDs, err := load.Products(ctx, repo, products, qt)
		if err != nil {
			return err
		}
		return load.Sales(ctx, repo, sales, customerIDs, productIDs, qt)
	}); err != nil {
		return nil, err
	}

	snapshot := qt.Snapshot()
	for _, table := range qt.Tables() {
		metrics.RecordCounts(cfg.Job, table, snapshot[table])
	}
	if err := stage("report", func() error {
		return report.Write(cfg.Report.Path, snapshot, qt.Tables())
	}); err != nil {
		return nil, err
	}

	if err := metrics.Flush(); err != nil {
		// A dead pushgateway must not fail a completed run.
		log.Printf("pipeline: metrics flush failed: %v", err)
	}

	log.Printf("pipeline: job %s completed in %s (run %s)", cfg.Job, time.Since(start).Round(time.Millisecond), runID)
	return &Result{RunID: runID, Snapshot: snapshot, ReportPath: cfg.Report.Path}, nil
}
