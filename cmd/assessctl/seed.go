package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skill-assess/internal/database/migration"
	"skill-assess/internal/database/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, then load the demo company, candidates and job postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := connect(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := (migration.Runner{Log: log}).Run(cmd.Context(), db.SQLDB()); err != nil {
			return err
		}
		if err := (seeder.Runner{Seeders: seeder.Defaults(log), Log: log}).Run(cmd.Context(), db); err != nil {
			log.Error("seeding failed", zap.Error(err))
			return err
		}
		log.Info("demo data seeded", zap.String("company", seeder.DemoCompanyEmail))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
