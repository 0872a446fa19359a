package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ObservableStats are the three derived scalars of one observable at
// one temperature.
type ObservableStats struct {
	Mean            float64 `json:"mean"`
	Error           float64 `json:"error"`
	CorrelationTime float64 `json:"correlation_time"`
}

// Result is one row of a sweep: the seven scalars produced for a
// single simulated temperature.
type Result struct {
	Temperature   float64         `json:"temperature"`
	Magnetization ObservableStats `json:"magnetization"`
	Energy        ObservableStats `json:"energy"`
}

// SweepConfig is the configuration a sweep was run with, persisted
// alongside its results.
type SweepConfig struct {
	LatticeSize          int     `json:"lattice_size"`
	TemperatureStart     float64 `json:"temperature_start"`
	TemperatureStop      float64 `json:"temperature_stop"`
	TemperatureStep      float64 `json:"temperature_step"`
	ThermalizationSweeps int     `json:"thermalization_sweeps"`
	DecorrelationSweeps  int     `json:"decorrelation_sweeps"`
	BinningLevels        int     `json:"binning_levels"`
	Seed                 int64   `json:"seed"`
	Workers              int     `json:"workers,omitempty"`
}

// Sweep is a persisted sweep record: config plus one Result per
// simulated temperature, in simulation order.
type Sweep struct {
	VersionedRecord
	ID           string      `json:"id"`
	CreatedAtUTC string      `json:"created_at_utc"`
	Config       SweepConfig `json:"config"`
	Results      []Result    `json:"results"`
}
