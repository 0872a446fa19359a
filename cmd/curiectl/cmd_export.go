package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curie/pkg/curie"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a sweep's CSV artifact to an output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sweepID, _ := cmd.Flags().GetString("sweep-id")
			latest, _ := cmd.Flags().GetBool("latest")
			outDir, _ := cmd.Flags().GetString("out")
			if sweepID == "" && !latest {
				return errors.New("either --sweep-id or --latest is required")
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			summary, err := client.Export(curie.ExportRequest{
				SweepID: sweepID,
				Latest:  latest,
				OutDir:  outDir,
			})
			if err != nil {
				return err
			}
			fmt.Printf("exported sweep_id=%s path=%s\n", summary.SweepID, summary.Path)
			return nil
		},
	}

	cmd.Flags().String("sweep-id", "", "sweep to export")
	cmd.Flags().Bool("latest", false, "export the most recent sweep")
	cmd.Flags().String("out", "exports", "output directory")
	return cmd
}
