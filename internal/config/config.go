// Package config defines the canonical, JSON-serializable configuration model
// for the pipeline. It is intentionally small, explicit, and dependency-free
// so that jobs can be loaded from disk and passed through the program without
// additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in job files
//     under configs/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library.
//
// Example:
//
//	{
//	  "job": "fleximart-nightly",
//	  "sources": {
//	    "customers": "data/customers_raw.csv",
//	    "products":  "data/products_raw.csv",
//	    "sales":     "data/sales_raw.csv"
//	  },
//	  "storage": { "kind": "mysql", "db": { "dsn": "user:pass@tcp(db:3306)/fleximart" } },
//	  "report":  { "path": "data_quality_report.txt" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Pipeline describes one full run: the three raw sources, the destination
// database, and the report location. It is the top-level object decoded from
// a job file.
type Pipeline struct {
	// Job names the run; it is used for metrics labeling and log context.
	Job string `json:"job"`

	// Sources locates the three raw CSV inputs.
	Sources Sources `json:"sources"`

	// Storage describes the destination database.
	Storage Storage `json:"storage"`

	// Report configures the data quality report output.
	Report Report `json:"report"`
}

// Sources holds the paths to the raw CSV files.
type Sources struct {
	Customers string `json:"customers"`
	Products  string `json:"products"`
	Sales     string `json:"sales"`
}

// Storage selects the sink used to persist the cleaned data.
type Storage struct {
	// Kind selects the storage implementation: "mysql", "postgres", "sqlite".
	Kind string `json:"kind"`

	// DB carries connection options for the selected kind.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the backend-specific connection string.
	DSN string `json:"dsn"`
}

// Report configures the quality report output.
type Report struct {
	// Path is where the report text file is written. Empty selects the
	// default "data_quality_report.txt" in the working directory.
	Path string `json:"path"`
}

// DefaultReportPath is used when report.path is not configured.
const DefaultReportPath = "data_quality_report.txt"

// Load decodes a Pipeline from the JSON job file at path.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a Pipeline from JSON. Unknown fields are rejected so typos
// in job files surface immediately instead of silently using defaults.
func Decode(r io.Reader) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	if p.Report.Path == "" {
		p.Report.Path = DefaultReportPath
	}
	return p, nil
}
