package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/mailwatch/internal/seed"
	"github.com/edvin/mailwatch/internal/store"
)

func newCmdSeed() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the domains listed in a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := seed.Load(file)
			if err != nil {
				return err
			}
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			pool, err := e.corePool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := seed.Apply(cmd.Context(), store.New(pool), cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d created, %d already present\n", res.Created, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seeds/domains.yaml", "Seed file")
	return cmd
}
