package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/edvin/mailwatch/internal/poller"
	"github.com/edvin/mailwatch/internal/store"
)

func newCmdPoll() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run one poll cycle in-process and print its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			pool, err := e.corePool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			source, observer, err := e.poller()
			if err != nil {
				return err
			}
			cycle := poller.NewCycle(store.New(pool), source, observer)

			report, runErr := cycle.Run(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			return runErr
		},
	}
}
