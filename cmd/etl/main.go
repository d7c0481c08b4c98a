package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"fleximart/internal/config"
	"fleximart/internal/extract"
	"fleximart/internal/load"
	"fleximart/internal/metrics"
	"fleximart/internal/metrics/prompush"
	"fleximart/internal/pipeline"
	"fleximart/internal/schema"

	// register all backends with the storage factory. The config selects
	// which one to use, but the binary carries support for all of them.
	_ "fleximart/internal/storage/all"
)

// Exit codes distinguish failure classes for schedulers and wrapper scripts.
const (
	exitOther   = 1
	exitExtract = 2
	exitLoad    = 3
	exitSchema  = 4
)

// main is the entry point for the ETL binary. It loads the job config,
// optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/fleximart.json", "job config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(exitOther)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		// Decide Pushgateway URL: flag → env → default.
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}

		b, err := prompush.NewBackend(p.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: backend=%s url=%s job=%s", backendName, gwURL, p.Job)
			}
			metrics.SetBackend(b)
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	if *verbose {
		log.Printf("pipeline: job=%s storage=%s report=%s", p.Job, p.Storage.Kind, p.Report.Path)
	}

	if _, err := pipeline.Run(context.Background(), p); err != nil {
		log.Printf("%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the failed stage to its exit code.
func exitCode(err error) int {
	var (
		xerr *extract.Error
		lerr *load.Error
		serr *schema.Error
	)
	switch {
	case errors.As(err, &xerr):
		return exitExtract
	case errors.As(err, &lerr):
		return exitLoad
	case errors.As(err, &serr):
		return exitSchema
	default:
		return exitOther
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(exitOther)
}
