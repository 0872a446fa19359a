package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curie/internal/storage"
	"curie/pkg/curie"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "curiectl",
		Short: "Metropolis Monte Carlo simulation of the 2D Ising model",
		Long: `curiectl sweeps a 2D Ising spin lattice across temperatures with the
Metropolis algorithm and reports magnetization and energy statistics
with binning error bars and autocorrelation times.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	rootCmd.PersistentFlags().String("db-path", "curie.db", "sqlite database path")
	rootCmd.PersistentFlags().String("artifacts-dir", "artifacts", "directory for CSV artifacts and the sweep index")

	rootCmd.AddCommand(
		newSweepCmd(),
		newRunCmd(),
		newResultsCmd(),
		newExportCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(cmd *cobra.Command) (*curie.Client, error) {
	storeKind, _ := cmd.Flags().GetString("store")
	dbPath, _ := cmd.Flags().GetString("db-path")
	artifactsDir, _ := cmd.Flags().GetString("artifacts-dir")

	return curie.New(curie.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifactsDir,
	})
}
