package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curie/internal/simulation"
	"curie/pkg/curie"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single temperature and print its seven scalars",
		RunE: func(cmd *cobra.Command, args []string) error {
			size, _ := cmd.Flags().GetInt("size")
			temperature, _ := cmd.Flags().GetFloat64("temp")
			thermalization, _ := cmd.Flags().GetInt("thermalization")
			decorrelation, _ := cmd.Flags().GetInt("decorrelation")
			levels, _ := cmd.Flags().GetInt("levels")
			seed, _ := cmd.Flags().GetInt64("seed")
			progressInterval, _ := cmd.Flags().GetInt("progress-interval")
			quiet, _ := cmd.Flags().GetBool("quiet")

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			req := curie.RunRequest{
				LatticeSize:          size,
				Temperature:          temperature,
				ThermalizationSweeps: thermalization,
				DecorrelationSweeps:  decorrelation,
				BinningLevels:        levels,
				Seed:                 seed,
				ProgressInterval:     progressInterval,
			}
			if !quiet {
				req.Hooks = simulation.Hooks{
					OnThermalized: func() {
						fmt.Println("thermalized, collecting measurements")
					},
					OnMeasurement: func(index, total int) {
						fmt.Printf("measurement=%d/%d\n", index, total)
					},
				}
			}

			result, err := client.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("temperature=%g\n", result.Temperature)
			fmt.Printf("magnetization mean=%.6f err=%.6f tcorr=%.6f\n",
				result.Magnetization.Mean, result.Magnetization.Error, result.Magnetization.CorrelationTime)
			fmt.Printf("energy mean=%.6f err=%.6f tcorr=%.6f\n",
				result.Energy.Mean, result.Energy.Error, result.Energy.CorrelationTime)
			return nil
		},
	}

	cmd.Flags().Int("size", 32, "lattice side length")
	cmd.Flags().Float64("temp", 2.27, "temperature")
	cmd.Flags().Int("thermalization", 1_000_000, "thermalization sweeps")
	cmd.Flags().Int("decorrelation", 1_000, "decorrelation sweeps between measurements")
	cmd.Flags().Int("levels", 16, "binning level count (measurements = 2^levels)")
	cmd.Flags().Int64("seed", 1, "rng seed")
	cmd.Flags().Int("progress-interval", 5000, "measurements between progress lines (0 disables)")
	cmd.Flags().Bool("quiet", false, "suppress progress output")
	return cmd
}
