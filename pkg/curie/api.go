// Package curie is the public API for running Ising Metropolis sweeps
// and querying their persisted results.
package curie

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"curie/internal/binning"
	"curie/internal/lattice"
	"curie/internal/model"
	"curie/internal/report"
	"curie/internal/simulation"
	"curie/internal/storage"
	"curie/internal/sweep"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "curie.db"
)

var ErrSweepNotFound = errors.New("sweep not found")

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
}

type Client struct {
	store        storage.Store
	artifactsDir string
}

// SweepRequest runs a full temperature sweep and persists the record.
type SweepRequest struct {
	Config model.SweepConfig

	// SweepID is generated from the wall clock when empty.
	SweepID string
	// Output is the CSV artifact path; defaults to
	// <artifacts dir>/<sweep id>.csv.
	Output string

	ProgressInterval int
	Hooks            sweep.Hooks
}

type SweepSummary struct {
	SweepID    string
	OutputPath string
	Results    []model.Result
}

// RunRequest runs a single temperature and returns its seven scalars.
type RunRequest struct {
	LatticeSize          int
	Temperature          float64
	ThermalizationSweeps int
	DecorrelationSweeps  int
	BinningLevels        int
	Seed                 int64

	ProgressInterval int
	Hooks            simulation.Hooks
}

type ExportRequest struct {
	SweepID string
	Latest  bool
	OutDir  string
}

type ExportSummary struct {
	SweepID string
	Path    string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(context.Background()); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}
	return &Client{store: store, artifactsDir: artifactsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Sweep(ctx context.Context, req SweepRequest) (SweepSummary, error) {
	if err := sweep.Validate(req.Config); err != nil {
		return SweepSummary{}, err
	}

	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = newSweepID()
	}
	output := req.Output
	if output == "" {
		if err := os.MkdirAll(c.artifactsDir, 0o755); err != nil {
			return SweepSummary{}, err
		}
		output = filepath.Join(c.artifactsDir, sweepID+".csv")
	}

	reporter := report.NewCSVReporter(output)
	if err := reporter.Init(); err != nil {
		return SweepSummary{}, fmt.Errorf("create results file: %w", err)
	}

	results, err := sweep.Execute(ctx, req.Config, reporter, sweep.Options{
		ProgressInterval: req.ProgressInterval,
		Hooks:            req.Hooks,
	})
	if err != nil {
		return SweepSummary{}, err
	}

	record := model.Sweep{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           sweepID,
		CreatedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Config:       req.Config,
		Results:      results,
	}
	if err := c.store.SaveSweep(ctx, record); err != nil {
		return SweepSummary{}, fmt.Errorf("persist sweep: %w", err)
	}
	if err := report.AppendSweepIndex(c.artifactsDir, report.SweepIndexEntry{
		SweepID:      sweepID,
		CreatedAtUTC: record.CreatedAtUTC,
		LatticeSize:  req.Config.LatticeSize,
		Temperatures: len(results),
		Seed:         req.Config.Seed,
		OutputPath:   output,
	}); err != nil {
		return SweepSummary{}, fmt.Errorf("update sweep index: %w", err)
	}

	return SweepSummary{SweepID: sweepID, OutputPath: output, Results: results}, nil
}

func (c *Client) Run(ctx context.Context, req RunRequest) (model.Result, error) {
	if req.BinningLevels < binning.DefaultErrorLevelOffset {
		return model.Result{}, fmt.Errorf("%w: got %d, need >= %d",
			sweep.ErrInvalidLevels, req.BinningLevels, binning.DefaultErrorLevelOffset)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	lat, err := lattice.New(req.LatticeSize, rng)
	if err != nil {
		return model.Result{}, err
	}

	run, err := simulation.New(lat, simulation.Params{
		Temperature:          req.Temperature,
		ThermalizationSweeps: req.ThermalizationSweeps,
		DecorrelationSweeps:  req.DecorrelationSweeps,
		BinningLevels:        req.BinningLevels,
		ProgressInterval:     req.ProgressInterval,
	}, rng, req.Hooks)
	if err != nil {
		return model.Result{}, err
	}
	if err := run.Execute(ctx); err != nil {
		return model.Result{}, err
	}
	return run.Result()
}

func (c *Client) Sweeps(ctx context.Context) ([]model.Sweep, error) {
	return c.store.ListSweeps(ctx)
}

func (c *Client) GetSweep(ctx context.Context, id string) (model.Sweep, error) {
	record, ok, err := c.store.GetSweep(ctx, id)
	if err != nil {
		return model.Sweep{}, err
	}
	if !ok {
		return model.Sweep{}, fmt.Errorf("%w: %s", ErrSweepNotFound, id)
	}
	return record, nil
}

func (c *Client) Export(req ExportRequest) (ExportSummary, error) {
	entries, err := report.ListSweepIndex(c.artifactsDir)
	if err != nil {
		return ExportSummary{}, err
	}

	var entry *report.SweepIndexEntry
	switch {
	case req.Latest:
		if len(entries) == 0 {
			return ExportSummary{}, fmt.Errorf("%w: index is empty", ErrSweepNotFound)
		}
		entry = &entries[0]
	default:
		for i := range entries {
			if entries[i].SweepID == req.SweepID {
				entry = &entries[i]
				break
			}
		}
		if entry == nil {
			return ExportSummary{}, fmt.Errorf("%w: %s", ErrSweepNotFound, req.SweepID)
		}
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = "exports"
	}
	path, err := report.ExportResults(entry.OutputPath, outDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{SweepID: entry.SweepID, Path: path}, nil
}

func newSweepID() string {
	return "sweep-" + time.Now().UTC().Format("20060102-150405.000000000")
}
