package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wallet-credit-score/internal/config"
	"wallet-credit-score/internal/ingestion"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/pipeline"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: score [flags] <input.json | postgres://... | clickhouse://...> <output.csv>")
	flag.PrintDefaults()
}

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Optional YAML config file")
	featuresOut := flag.String("features-out", "", "Also write per-wallet features and score breakdown CSV to this path")
	reportOut := flag.String("report-out", "", "Also write a Markdown run summary to this path")
	manifestOut := flag.String("manifest-out", "", "Also write a YAML run manifest to this path")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	verbose := flag.Bool("verbose", false, "Log diagnostics to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags override config and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "features-out":
			cfg.FeaturesOut = *featuresOut
		case "report-out":
			cfg.ReportOut = *reportOut
		case "manifest-out":
			cfg.ManifestOut = *manifestOut
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "verbose":
			cfg.Verbose = *verbose
		}
	})

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "[score] ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := ingestion.OpenSource(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	inputRef := ingestion.RedactInput(input)
	logger.Printf("Reading %s input %s", ingestion.SourceKind(input), inputRef)

	var metrics *observability.Metrics
	if cfg.MetricsFile != "" {
		metrics = observability.NewMetrics(cfg.Namespace)
	}

	p := pipeline.NewScoringPipeline(source, output).
		WithLogger(logger).
		WithInputRef(inputRef).
		WithFeaturesOutput(cfg.FeaturesOut).
		WithReportOutput(cfg.ReportOut).
		WithManifestOutput(cfg.ManifestOut).
		WithMetrics(metrics).
		WithProgress(func(loaded int) {
			fmt.Printf("Loaded %d transactions\n", loaded)
		})

	res, runErr := p.Run(ctx)

	// Metrics are written for failed runs too.
	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
		}
	}

	if runErr != nil {
		closeSource()
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Printf("Done. Scored %d wallets → %s\n", res.WalletsScored, output)
}
