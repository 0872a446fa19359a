// Package sweep drives a temperature sweep: one simulation run per
// temperature, results appended to a reporter as they are produced.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"curie/internal/binning"
	"curie/internal/lattice"
	"curie/internal/model"
	"curie/internal/simulation"
)

var (
	ErrInvalidStep        = errors.New("temperature step must be non-zero")
	ErrInvalidTemperature = errors.New("every swept temperature must be > 0")
	ErrNoTemperatures     = errors.New("temperature range is empty")
	ErrInvalidLevels      = errors.New("binning level count is below the error-level offset")
)

// Reporter receives each completed result in temperature order.
type Reporter interface {
	Append(result model.Result) error
}

// Hooks receive sweep progress notifications; any callback may be nil.
// With parallel workers, callbacks may fire from multiple goroutines.
type Hooks struct {
	OnTemperatureStart func(temperature float64)
	OnThermalized      func(temperature float64)
	OnMeasurement      func(temperature float64, index, total int)
}

type Options struct {
	// ProgressInterval is forwarded to each simulation run.
	ProgressInterval int
	Hooks            Hooks
}

// Temperatures expands start/stop/step into the swept list, excluding
// stop, with each element computed as start + i*step to keep the list
// stable under floating accumulation. The step may be negative.
func Temperatures(start, stop, step float64) ([]float64, error) {
	if step == 0 {
		return nil, ErrInvalidStep
	}
	var temps []float64
	for i := 0; ; i++ {
		t := start + float64(i)*step
		if (step > 0 && t >= stop) || (step < 0 && t <= stop) {
			break
		}
		temps = append(temps, t)
	}
	return temps, nil
}

// Validate rejects an invalid configuration before any simulation
// starts.
func Validate(cfg model.SweepConfig) error {
	if cfg.LatticeSize < 1 {
		return fmt.Errorf("%w: got %d", lattice.ErrInvalidSize, cfg.LatticeSize)
	}
	if cfg.ThermalizationSweeps < 0 || cfg.DecorrelationSweeps < 0 {
		return fmt.Errorf("%w: thermalization %d, decorrelation %d",
			simulation.ErrInvalidSweeps, cfg.ThermalizationSweeps, cfg.DecorrelationSweeps)
	}
	if cfg.BinningLevels < binning.DefaultErrorLevelOffset {
		return fmt.Errorf("%w: got %d, need >= %d",
			ErrInvalidLevels, cfg.BinningLevels, binning.DefaultErrorLevelOffset)
	}
	temps, err := Temperatures(cfg.TemperatureStart, cfg.TemperatureStop, cfg.TemperatureStep)
	if err != nil {
		return err
	}
	if len(temps) == 0 {
		return ErrNoTemperatures
	}
	for _, t := range temps {
		if t <= 0 {
			return fmt.Errorf("%w: got %g", ErrInvalidTemperature, t)
		}
	}
	return nil
}

// Execute runs the sweep and returns one result per temperature in
// sweep order. With Workers <= 1 a single lattice and generator are
// carried across temperatures, preserving equilibrium continuity.
// With Workers > 1 each temperature runs independently with its own
// lattice and generator seeded seed+index; no state is shared.
// Either way the reporter receives each result in temperature order
// as soon as it is available, so an aborted sweep keeps the rows of
// every temperature that finished before it.
func Execute(ctx context.Context, cfg model.SweepConfig, reporter Reporter, opts Options) ([]model.Result, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	temps, err := Temperatures(cfg.TemperatureStart, cfg.TemperatureStop, cfg.TemperatureStep)
	if err != nil {
		return nil, err
	}

	if cfg.Workers > 1 {
		return executeParallel(ctx, cfg, temps, reporter, opts)
	}
	return executeSequential(ctx, cfg, temps, reporter, opts)
}

func appendResult(reporter Reporter, result model.Result) error {
	if reporter == nil {
		return nil
	}
	if err := reporter.Append(result); err != nil {
		return fmt.Errorf("append result for T=%g: %w", result.Temperature, err)
	}
	return nil
}

func executeSequential(ctx context.Context, cfg model.SweepConfig, temps []float64, reporter Reporter, opts Options) ([]model.Result, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	lat, err := lattice.New(cfg.LatticeSize, rng)
	if err != nil {
		return nil, err
	}

	results := make([]model.Result, 0, len(temps))
	for _, temperature := range temps {
		result, err := runOne(ctx, lat, cfg, temperature, rng, opts)
		if err != nil {
			return nil, fmt.Errorf("run at T=%g: %w", temperature, err)
		}
		if err := appendResult(reporter, result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func executeParallel(ctx context.Context, cfg model.SweepConfig, temps []float64, reporter Reporter, opts Options) ([]model.Result, error) {
	type indexed struct {
		index  int
		result model.Result
		err    error
	}

	out := make(chan indexed, len(temps))
	sem := make(chan struct{}, cfg.Workers)
	var wg sync.WaitGroup

	for i, temperature := range temps {
		wg.Add(1)
		go func(i int, temperature float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			lat, err := lattice.New(cfg.LatticeSize, rng)
			if err != nil {
				out <- indexed{index: i, err: err}
				return
			}
			result, err := runOne(ctx, lat, cfg, temperature, rng, opts)
			out <- indexed{index: i, result: result, err: err}
		}(i, temperature)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	// Workers finish out of order; the reporter still sees strictly
	// increasing indices. On failure the error of the lowest failed
	// index wins and no row past it is appended.
	results := make([]model.Result, len(temps))
	done := make([]bool, len(temps))
	failures := make([]error, len(temps))
	next := 0
	for ix := range out {
		results[ix.index] = ix.result
		failures[ix.index] = ix.err
		done[ix.index] = true
		for next < len(temps) && done[next] {
			if failures[next] != nil {
				return nil, fmt.Errorf("run at T=%g: %w", temps[next], failures[next])
			}
			if err := appendResult(reporter, results[next]); err != nil {
				return nil, err
			}
			next++
		}
	}
	return results, nil
}

func runOne(ctx context.Context, lat *lattice.Lattice, cfg model.SweepConfig, temperature float64, rng *rand.Rand, opts Options) (model.Result, error) {
	if opts.Hooks.OnTemperatureStart != nil {
		opts.Hooks.OnTemperatureStart(temperature)
	}

	params := simulation.Params{
		Temperature:          temperature,
		ThermalizationSweeps: cfg.ThermalizationSweeps,
		DecorrelationSweeps:  cfg.DecorrelationSweeps,
		BinningLevels:        cfg.BinningLevels,
		ProgressInterval:     opts.ProgressInterval,
	}
	hooks := simulation.Hooks{}
	if opts.Hooks.OnThermalized != nil {
		hooks.OnThermalized = func() { opts.Hooks.OnThermalized(temperature) }
	}
	if opts.Hooks.OnMeasurement != nil {
		hooks.OnMeasurement = func(index, total int) { opts.Hooks.OnMeasurement(temperature, index, total) }
	}

	run, err := simulation.New(lat, params, rng, hooks)
	if err != nil {
		return model.Result{}, err
	}
	if err := run.Execute(ctx); err != nil {
		return model.Result{}, err
	}
	return run.Result()
}
