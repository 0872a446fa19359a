package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"curie/internal/binning"
	"curie/internal/lattice"
	"curie/internal/metropolis"
	"curie/internal/model"
)

type State string

const (
	StateThermalizing State = "thermalizing"
	StateSampling     State = "sampling"
	StateDone         State = "done"
)

var (
	ErrInvalidSweeps = errors.New("sweep count must be >= 0")
	ErrNotDone       = errors.New("run has not completed")
)

// Params configure one single-temperature run.
type Params struct {
	Temperature          float64
	ThermalizationSweeps int
	DecorrelationSweeps  int
	BinningLevels        int

	// ProgressInterval is how many measurements pass between
	// Hooks.OnMeasurement calls. 0 disables progress reporting.
	ProgressInterval int
}

// Hooks receive run lifecycle notifications. All callbacks are
// invoked synchronously from Execute and may be nil.
type Hooks struct {
	OnThermalized func()
	OnMeasurement func(index, total int)
}

// Run drives one temperature to completion: thermalize, then
// alternate decorrelating sweeps with sample collection until both
// estimators are full. The lattice is owned by the run while it
// executes and is exposed afterwards so a driver can carry it to the
// next temperature without re-randomizing.
type Run struct {
	params Params
	hooks  Hooks

	lat           *lattice.Lattice
	engine        *metropolis.Engine
	magnetization *binning.Estimator
	energy        *binning.Estimator

	state    State
	accepted int
}

func New(lat *lattice.Lattice, params Params, rng *rand.Rand, hooks Hooks) (*Run, error) {
	if params.ThermalizationSweeps < 0 {
		return nil, fmt.Errorf("%w: thermalization %d", ErrInvalidSweeps, params.ThermalizationSweeps)
	}
	if params.DecorrelationSweeps < 0 {
		return nil, fmt.Errorf("%w: decorrelation %d", ErrInvalidSweeps, params.DecorrelationSweeps)
	}

	engine, err := metropolis.NewEngine(lat, params.Temperature, rng)
	if err != nil {
		return nil, err
	}
	magnetization, err := binning.NewEstimator(params.BinningLevels)
	if err != nil {
		return nil, err
	}
	energy, err := binning.NewEstimator(params.BinningLevels)
	if err != nil {
		return nil, err
	}

	return &Run{
		params:        params,
		hooks:         hooks,
		lat:           lat,
		engine:        engine,
		magnetization: magnetization,
		energy:        energy,
		state:         StateThermalizing,
	}, nil
}

func (r *Run) State() State {
	return r.state
}

func (r *Run) Lattice() *lattice.Lattice {
	return r.lat
}

func (r *Run) Magnetization() *binning.Estimator {
	return r.magnetization
}

func (r *Run) Energy() *binning.Estimator {
	return r.energy
}

// Accepted returns how many flip attempts were accepted across the
// whole run, thermalization included.
func (r *Run) Accepted() int {
	return r.accepted
}

// Execute runs the state machine to completion. The Metropolis chain
// is strictly sequential; the context is only polled between
// measurements, and cancellation aborts the run without usable
// statistics.
func (r *Run) Execute(ctx context.Context) error {
	r.accepted += r.engine.Run(r.params.ThermalizationSweeps)
	if r.hooks.OnThermalized != nil {
		r.hooks.OnThermalized()
	}
	r.state = StateSampling

	total := 1 << uint(r.params.BinningLevels)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.hooks.OnMeasurement != nil && r.params.ProgressInterval > 0 && i%r.params.ProgressInterval == 0 {
			r.hooks.OnMeasurement(i, total)
		}

		r.accepted += r.engine.Run(r.params.DecorrelationSweeps)
		r.magnetization.Add(r.lat.Magnetization())
		r.energy.Add(r.lat.Energy())
	}

	r.state = StateDone
	return nil
}

// Result assembles the seven derived scalars once the run is done.
func (r *Run) Result() (model.Result, error) {
	if r.state != StateDone {
		return model.Result{}, fmt.Errorf("%w: state %s", ErrNotDone, r.state)
	}

	magnetization, err := observableStats(r.magnetization)
	if err != nil {
		return model.Result{}, fmt.Errorf("magnetization: %w", err)
	}
	energy, err := observableStats(r.energy)
	if err != nil {
		return model.Result{}, fmt.Errorf("energy: %w", err)
	}
	return model.Result{
		Temperature:   r.params.Temperature,
		Magnetization: magnetization,
		Energy:        energy,
	}, nil
}

func observableStats(est *binning.Estimator) (model.ObservableStats, error) {
	mean, err := est.Mean()
	if err != nil {
		return model.ObservableStats{}, err
	}
	stderr, err := est.Error()
	if err != nil {
		return model.ObservableStats{}, err
	}
	corr, err := est.CorrelationTime()
	if err != nil {
		return model.ObservableStats{}, err
	}
	return model.ObservableStats{Mean: mean, Error: stderr, CorrelationTime: corr}, nil
}
