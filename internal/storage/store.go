package storage

import (
	"context"

	"curie/internal/model"
)

// Store persists completed sweeps and their per-temperature results.
type Store interface {
	Init(ctx context.Context) error
	SaveSweep(ctx context.Context, sweep model.Sweep) error
	GetSweep(ctx context.Context, id string) (model.Sweep, bool, error)
	ListSweeps(ctx context.Context) ([]model.Sweep, error)
}
