package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curie/internal/config"
	"curie/internal/sweep"
	"curie/pkg/curie"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a temperature sweep and write the CSV results file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sweepConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sweepID, _ := cmd.Flags().GetString("sweep-id")
			progressInterval, _ := cmd.Flags().GetInt("progress-interval")
			quiet, _ := cmd.Flags().GetBool("quiet")

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			req := curie.SweepRequest{
				Config:           cfg.SweepConfig(),
				SweepID:          sweepID,
				Output:           cfg.Output,
				ProgressInterval: progressInterval,
			}
			if !quiet {
				req.Hooks = sweep.Hooks{
					OnTemperatureStart: func(t float64) {
						fmt.Printf("--- simulating T=%g ---\n", t)
					},
					OnThermalized: func(t float64) {
						fmt.Printf("T=%g thermalized, collecting measurements\n", t)
					},
					OnMeasurement: func(t float64, index, total int) {
						fmt.Printf("T=%g measurement=%d/%d\n", t, index, total)
					},
				}
			}

			summary, err := client.Sweep(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, r := range summary.Results {
				fmt.Printf("temperature=%g m_mean=%.6f m_err=%.6f m_tcorr=%.6f e_mean=%.6f e_err=%.6f e_tcorr=%.6f\n",
					r.Temperature,
					r.Magnetization.Mean, r.Magnetization.Error, r.Magnetization.CorrelationTime,
					r.Energy.Mean, r.Energy.Error, r.Energy.CorrelationTime,
				)
			}
			fmt.Printf("sweep completed sweep_id=%s temperatures=%d output=%s\n",
				summary.SweepID, len(summary.Results), summary.OutputPath)
			return nil
		},
	}

	cmd.Flags().String("config", "", "optional sweep config YAML path")
	cmd.Flags().Int("size", 0, "lattice side length")
	cmd.Flags().Float64("t-start", 0, "initial temperature")
	cmd.Flags().Float64("t-stop", 0, "final temperature (exclusive)")
	cmd.Flags().Float64("t-step", 0, "temperature step (may be negative)")
	cmd.Flags().Int("thermalization", -1, "thermalization sweeps per temperature")
	cmd.Flags().Int("decorrelation", -1, "decorrelation sweeps between measurements")
	cmd.Flags().Int("levels", 0, "binning level count (measurements = 2^levels)")
	cmd.Flags().Int64("seed", 0, "rng seed")
	cmd.Flags().Int("workers", 0, "parallel temperature runs (<=1 carries the lattice sequentially)")
	cmd.Flags().String("output", "", "CSV results path")
	cmd.Flags().String("sweep-id", "", "explicit sweep id (optional)")
	cmd.Flags().Int("progress-interval", 5000, "measurements between progress lines (0 disables)")
	cmd.Flags().Bool("quiet", false, "suppress per-temperature progress output")
	return cmd
}

// sweepConfigFromFlags loads the YAML config (or defaults) and lets
// explicitly set flags override individual fields.
func sweepConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("size") {
		cfg.LatticeSize, _ = cmd.Flags().GetInt("size")
	}
	if cmd.Flags().Changed("t-start") {
		cfg.Temperature.Start, _ = cmd.Flags().GetFloat64("t-start")
	}
	if cmd.Flags().Changed("t-stop") {
		cfg.Temperature.Stop, _ = cmd.Flags().GetFloat64("t-stop")
	}
	if cmd.Flags().Changed("t-step") {
		cfg.Temperature.Step, _ = cmd.Flags().GetFloat64("t-step")
	}
	if cmd.Flags().Changed("thermalization") {
		v, _ := cmd.Flags().GetInt("thermalization")
		cfg.ThermalizationSweeps = &v
	}
	if cmd.Flags().Changed("decorrelation") {
		v, _ := cmd.Flags().GetInt("decorrelation")
		cfg.DecorrelationSweeps = &v
	}
	if cmd.Flags().Changed("levels") {
		cfg.BinningLevels, _ = cmd.Flags().GetInt("levels")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}
	return cfg, nil
}
