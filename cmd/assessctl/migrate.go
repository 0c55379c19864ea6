package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"skill-assess/internal/database/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
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

		r := migration.Runner{Dir: viper.GetString("migrations-dir"), Log: log}
		if err := r.Run(cmd.Context(), db.SQLDB()); err != nil {
			log.Error("migration failed", zap.Error(err))
			return err
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they have been applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		db, err := connect(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer db.Close()

		r := migration.Runner{Dir: viper.GetString("migrations-dir"), Log: log}
		st, err := r.Status(cmd.Context(), db.SQLDB())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
		for _, s := range st {
			applied := "pending"
			if s.Applied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Name, applied)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().String("dir", "", "read migrations from this directory instead of the embedded set")
	_ = viper.BindPFlag("migrations-dir", migrateCmd.PersistentFlags().Lookup("dir"))
}
