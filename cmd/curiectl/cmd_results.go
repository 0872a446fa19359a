package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List persisted sweeps, or one sweep's rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			sweepID, _ := cmd.Flags().GetString("sweep-id")
			limit, _ := cmd.Flags().GetInt("limit")

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if sweepID != "" {
				record, err := client.GetSweep(cmd.Context(), sweepID)
				if err != nil {
					return err
				}
				fmt.Printf("sweep_id=%s created=%s size=%d seed=%d temperatures=%d\n",
					record.ID, record.CreatedAtUTC, record.Config.LatticeSize, record.Config.Seed, len(record.Results))
				for _, r := range record.Results {
					fmt.Printf("temperature=%g m_mean=%.6f m_err=%.6f m_tcorr=%.6f e_mean=%.6f e_err=%.6f e_tcorr=%.6f\n",
						r.Temperature,
						r.Magnetization.Mean, r.Magnetization.Error, r.Magnetization.CorrelationTime,
						r.Energy.Mean, r.Energy.Error, r.Energy.CorrelationTime,
					)
				}
				return nil
			}

			sweeps, err := client.Sweeps(cmd.Context())
			if err != nil {
				return err
			}
			if len(sweeps) == 0 {
				fmt.Println("no sweeps recorded")
				return nil
			}
			for i, record := range sweeps {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Printf("sweep_id=%s created=%s size=%d seed=%d temperatures=%d\n",
					record.ID, record.CreatedAtUTC, record.Config.LatticeSize, record.Config.Seed, len(record.Results))
			}
			return nil
		},
	}

	cmd.Flags().String("sweep-id", "", "print the rows of one sweep")
	cmd.Flags().Int("limit", 20, "max sweeps to list")
	return cmd
}
