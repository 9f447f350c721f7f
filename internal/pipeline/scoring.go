package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/features"
	"wallet-credit-score/internal/idhash"
	"wallet-credit-score/internal/ingestion"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/reporting"
	"wallet-credit-score/internal/scoring"
	"wallet-credit-score/internal/storage"
)

// GeneratorVersion identifies the tool that produced a run's artifacts.
const GeneratorVersion = "1.0.0"

// ErrNoSource is returned when the pipeline has no transaction source.
var ErrNoSource = errors.New("no transaction source")

// Result summarizes one scoring run.
type Result struct {
	RecordsLoaded int
	WalletsScored int
	Skipped       features.SkipStats
	Results       []domain.ScoreResult
	DataVersion   string
}

// ScoringPipeline loads lending transactions, scores every wallet and writes
// the scores CSV plus optional features, report and manifest artifacts.
type ScoringPipeline struct {
	source       storage.TransactionReader
	outputPath   string
	featuresPath string
	reportPath   string
	manifestPath string
	inputRef     string
	logger       *log.Logger
	metrics      *observability.Metrics
	progress     func(loaded int)
	clock        func() time.Time
}

// NewScoringPipeline creates a new pipeline reading from source and writing
// scores to outputPath.
func NewScoringPipeline(source storage.TransactionReader, outputPath string) *ScoringPipeline {
	return &ScoringPipeline{
		source:     source,
		outputPath: outputPath,
		logger:     log.New(io.Discard, "", 0),
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithLogger sets the logger for diagnostics.
func (p *ScoringPipeline) WithLogger(logger *log.Logger) *ScoringPipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *ScoringPipeline) WithClock(clock func() time.Time) *ScoringPipeline {
	p.clock = clock
	return p
}

// WithMetrics records run metrics into m.
func (p *ScoringPipeline) WithMetrics(m *observability.Metrics) *ScoringPipeline {
	p.metrics = m
	return p
}

// WithFeaturesOutput also writes per-wallet features to path.
func (p *ScoringPipeline) WithFeaturesOutput(path string) *ScoringPipeline {
	p.featuresPath = path
	return p
}

// WithReportOutput also writes a Markdown run summary to path.
func (p *ScoringPipeline) WithReportOutput(path string) *ScoringPipeline {
	p.reportPath = path
	return p
}

// WithManifestOutput also writes a YAML run manifest to path.
func (p *ScoringPipeline) WithManifestOutput(path string) *ScoringPipeline {
	p.manifestPath = path
	return p
}

// WithInputRef records where the transactions came from. Pass a redacted
// reference for database sources.
func (p *ScoringPipeline) WithInputRef(ref string) *ScoringPipeline {
	p.inputRef = ref
	return p
}

// WithProgress sets a hook called once after the records are loaded.
func (p *ScoringPipeline) WithProgress(fn func(loaded int)) *ScoringPipeline {
	p.progress = fn
	return p
}

// Run executes the full pipeline. On any error no output file is written.
func (p *ScoringPipeline) Run(ctx context.Context) (*Result, error) {
	started := p.clock()

	res, err := p.run(ctx)

	finished := p.clock()
	if p.metrics != nil {
		status := observability.StatusSuccess
		if err != nil {
			status = observability.StatusError
		}
		p.metrics.RecordRun(status, finished.Sub(started), finished)
	}
	if err != nil {
		p.logger.Printf("Scoring run failed: %v", err)
		return nil, err
	}

	p.logger.Printf("Scoring run completed in %v: %d records, %d skipped, %d wallets",
		finished.Sub(started), res.RecordsLoaded, res.Skipped.Total(), res.WalletsScored)
	return res, nil
}

func (p *ScoringPipeline) run(ctx context.Context) (*Result, error) {
	if p.source == nil {
		return nil, ErrNoSource
	}

	// 1. Load
	loadStart := time.Now()
	txs, err := p.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	loadElapsed := time.Since(loadStart)
	p.logger.Printf("Loaded %d records from %s in %v", len(txs), p.sourceLabel(), loadElapsed)

	if p.progress != nil {
		p.progress(len(txs))
	}

	// 2. Aggregate
	agg, err := features.Aggregate(txs)
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}
	skipped := agg.Skipped()
	if skipped.Total() > 0 {
		p.logger.Printf("Skipped %d records (missing wallet: %d, missing timestamp: %d)",
			skipped.Total(), skipped.MissingWallet, skipped.MissingTimestamp)
	}

	// 3. Score
	walletFeatures := agg.Features()
	results := scoring.ScoreAll(walletFeatures)

	res := &Result{
		RecordsLoaded: len(txs),
		WalletsScored: len(results),
		Skipped:       skipped,
		Results:       results,
		DataVersion:   idhash.ComputeDataVersion(txs),
	}

	// 4. Render everything before touching the filesystem.
	scoresCSV, err := reporting.RenderScoresCSV(results)
	if err != nil {
		return nil, fmt.Errorf("render scores: %w", err)
	}

	var featuresCSV []byte
	if p.featuresPath != "" {
		featuresCSV, err = reporting.RenderFeaturesCSV(walletFeatures, results)
		if err != nil {
			return nil, fmt.Errorf("render features: %w", err)
		}
	}

	var reportMD string
	if p.reportPath != "" {
		report := reporting.BuildReport(walletFeatures, results, len(txs), skipped)
		report.GeneratedAt = p.clock()
		report.ModelVersion = scoring.ModelVersion
		report.DataVersion = idhash.ShortVersion(res.DataVersion)
		report.Input = p.inputRef
		reportMD = reporting.RenderMarkdown(report)
	}

	var manifestYAML []byte
	if p.manifestPath != "" {
		manifestYAML, err = MarshalManifest(p.buildManifest(res))
		if err != nil {
			return nil, err
		}
	}

	if p.manifestPath != "" {
		p.comparePreviousRun(res.DataVersion)
	}

	// 5. Write
	if err := os.WriteFile(p.outputPath, scoresCSV, 0644); err != nil {
		return nil, fmt.Errorf("write scores: %w", err)
	}
	if featuresCSV != nil {
		if err := os.WriteFile(p.featuresPath, featuresCSV, 0644); err != nil {
			return nil, fmt.Errorf("write features: %w", err)
		}
	}
	if p.reportPath != "" {
		if err := os.WriteFile(p.reportPath, []byte(reportMD), 0644); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}
	if manifestYAML != nil {
		if err := os.WriteFile(p.manifestPath, manifestYAML, 0644); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
	}

	// 6. Metrics
	if p.metrics != nil {
		p.metrics.RecordLoad(p.sourceLabel(), len(txs), loadElapsed)
		p.metrics.RecordSkipped(features.SkipMissingWallet, skipped.MissingWallet)
		p.metrics.RecordSkipped(features.SkipMissingTimestamp, skipped.MissingTimestamp)
		p.metrics.RecordScores(results)
	}

	return res, nil
}

// comparePreviousRun logs whether the input changed since the run that wrote
// the manifest about to be replaced.
func (p *ScoringPipeline) comparePreviousRun(dataVersion string) {
	prev, err := LoadManifest(p.manifestPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Printf("Ignoring previous manifest: %v", err)
		}
		return
	}
	if prev.DataVersion == dataVersion {
		p.logger.Printf("Input unchanged since previous run at %s (data version %s)",
			prev.GeneratedAt, idhash.ShortVersion(dataVersion))
		return
	}
	p.logger.Printf("Input changed since previous run at %s (data version %s -> %s)",
		prev.GeneratedAt, idhash.ShortVersion(prev.DataVersion), idhash.ShortVersion(dataVersion))
}

// sourceLabel names the source kind for logs and metrics.
func (p *ScoringPipeline) sourceLabel() string {
	if p.inputRef == "" {
		return "custom"
	}
	return ingestion.SourceKind(p.inputRef)
}

func (p *ScoringPipeline) buildManifest(res *Result) *Manifest {
	return &Manifest{
		GeneratorVersion: GeneratorVersion,
		ModelVersion:     scoring.ModelVersion,
		DataVersion:      res.DataVersion,
		GeneratedAt:      p.clock().Format(time.RFC3339),
		Input:            p.inputRef,
		Counts: ManifestCounts{
			RecordsLoaded:  res.RecordsLoaded,
			RecordsSkipped: map[string]int{
				features.SkipMissingWallet:    res.Skipped.MissingWallet,
				features.SkipMissingTimestamp: res.Skipped.MissingTimestamp,
			},
			WalletsScored: res.WalletsScored,
		},
		Outputs: ManifestOutputs{
			Scores:   p.outputPath,
			Features: p.featuresPath,
			Report:   p.reportPath,
		},
	}
}
