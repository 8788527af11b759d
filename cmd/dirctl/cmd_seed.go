package main

import (
	"database/sql"
	"fmt"

	"directory-service/internal/config"
	"directory-service/internal/seed"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load regions, cities and venues from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%s: %d regions, %d venues ok\n", file, len(f.Regions), len(f.Venues))
				return nil
			}

			db, err := sql.Open("postgres", config.Load().DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			res, err := seed.New(db, logger).Run(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "regions=%d cities=%d venues=%d skipped=%d\n", res.Regions, res.Cities, res.Venues, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "Fixture to load")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the fixture without writing")
	return cmd
}
