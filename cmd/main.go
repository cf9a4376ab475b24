package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/formsense/field-classifier/pkg/apiserver"
	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/config"
	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/feedback"
	"github.com/formsense/field-classifier/pkg/mlp"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/observability/metrics"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to the configuration file (optional)")
		apiPort    = flag.Int("api-port", 0, "Override the Classification API port")
	)
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		parsed, err := config.Parse(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = parsed
	}
	if *apiPort != 0 {
		cfg.APIPort = *apiPort
	}

	if _, err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	ctx := context.Background()

	// Taxonomy is the single source of truth everything else is sized by.
	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			logging.Fatalf("Failed to load taxonomy: %v", err)
		}
		tax = loaded
	}

	keywords := features.DefaultKeywords()
	if cfg.KeywordsPath != "" {
		loaded, err := features.LoadKeywordsFile(cfg.KeywordsPath)
		if err != nil {
			logging.Fatalf("Failed to load keyword table: %v", err)
		}
		keywords = loaded
	}
	encoder, err := features.NewEncoderWithKeywords(tax, keywords)
	if err != nil {
		logging.Fatalf("Failed to build feature encoder: %v", err)
	}

	rules := classification.DefaultRules()
	if cfg.RulesPath != "" {
		loaded, err := classification.LoadRulesFile(cfg.RulesPath)
		if err != nil {
			logging.Fatalf("Failed to load pattern rules: %v", err)
		}
		rules = loaded
	}
	patternClf, err := classification.NewPatternClassifierWithTables(tax, rules, nil, nil)
	if err != nil {
		logging.Fatalf("Failed to build pattern classifier: %v", err)
	}

	netCfg := cfg.Network
	netCfg.InputSize = encoder.Length()
	netCfg.OutputSize = tax.Size()
	network, err := mlp.New(netCfg)
	if err != nil {
		logging.Fatalf("Failed to build network: %v", err)
	}

	var journal *feedback.Journal
	if cfg.JournalPath != "" {
		journal, err = feedback.Open(ctx, cfg.JournalPath)
		if err != nil {
			logging.Warnf("Feedback journal unavailable, continuing without durability: %v", err)
			journal = nil
		} else {
			defer journal.Close()
		}
	}

	learnedClf, err := classification.NewLearnedClassifier(tax, encoder, network, cfg.ConfidenceFloor)
	if err != nil {
		logging.Fatalf("Failed to build learned classifier: %v", err)
	}

	// Load persisted weights if present. Any mismatch (version, architecture)
	// keeps the fresh random initialization and replays the feedback journal
	// so prior corrections are not lost: degraded, never failed closed.
	snapshotLoaded := false
	if cfg.SnapshotPath != "" {
		if snap, err := mlp.LoadSnapshotFile(cfg.SnapshotPath); err != nil {
			logging.Warnf("No usable model snapshot at %s: %v", cfg.SnapshotPath, err)
			metrics.RecordSnapshotLoad("missing")
		} else if err := network.Load(snap); err != nil {
			logging.Warnf("Rejected model snapshot: %v; reinitializing", err)
			metrics.RecordSnapshotLoad("rejected")
		} else {
			logging.Infof("Loaded model snapshot (%d training samples)", snap.TotalSamples)
			metrics.RecordSnapshotLoad("loaded")
			snapshotLoaded = true
		}
	}
	if !snapshotLoaded && journal != nil {
		applied, skipped, err := journal.Replay(ctx, learnedClf.Train)
		if err != nil {
			logging.Errorf("Feedback replay failed: %v", err)
		} else if applied+skipped > 0 {
			logging.Infof("Replayed feedback journal: %d applied, %d skipped", applied, skipped)
		}
	}

	arbiter := ensemble.NewArbiter(cfg.Ensemble)
	engine := ensemble.NewEngine(patternClf, learnedClf, arbiter, nil)
	engine.SetBatchWorkers(cfg.BatchWorkers)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		logging.Infof("Starting metrics server on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Errorf("Metrics server error: %v", err)
		}
	}()

	server := apiserver.New(engine, network, journal)
	if err := server.Start(cfg.APIPort); err != nil {
		logging.Fatalf("Classification API server error: %v", err)
	}
}
