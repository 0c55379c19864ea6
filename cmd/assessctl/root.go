package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"skill-assess/internal/config"
	"skill-assess/internal/database"
	dbpostgres "skill-assess/internal/database/postgres"
	"skill-assess/internal/pkg/logger"
)

const app = "assessctl"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "assessctl manages the skill assessment database and runs offline scoring",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

// envBindings maps viper keys to the environment variables the server reads,
// so one .env serves both binaries.
var envBindings = map[string]string{
	"db.host":     "DB_HOST",
	"db.port":     "DB_PORT",
	"db.name":     "DB_NAME",
	"db.user":     "DB_USER",
	"db.password": "DB_PASSWORD",
	"db.sslmode":  "DB_SSL_MODE",
	"debug":       "LOG_DEBUG",
	"json":        "LOG_JSON",
}

func init() {
	for key, env := range envBindings {
		_ = viper.BindEnv(key, env)
	}
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.sslmode", "disable")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("db-host", "", "postgres host (DB_HOST)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("db.host", rootCmd.PersistentFlags().Lookup("db-host"))
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		cobra.CheckErr(fmt.Errorf("read config %s: %w", cfgFile, err))
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"), app)
}

func databaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		DBHost:         strings.TrimSpace(viper.GetString("db.host")),
		DBPort:         viper.GetString("db.port"),
		DBName:         viper.GetString("db.name"),
		DBUser:         viper.GetString("db.user"),
		DBPassword:     viper.GetString("db.password"),
		DBSSLMode:      viper.GetString("db.sslmode"),
		ConnectTimeout: 5 * time.Second,
	}
}

func connect(ctx context.Context, log *zap.Logger) (database.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return dbpostgres.Connect(ctx, databaseConfig(), log)
}
