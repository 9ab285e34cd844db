// Package cli provides the command-line interface for eunoia.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swamp-dev/eunoia/internal/config"
)

var (
	cfgFile string
	verbose bool
	jsonOut bool
	logger  *slog.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "eunoia",
	Short: "Personal productivity and wellbeing tracker",
	Long: `Eunoia tracks tasks, calendar events, expenses, notes, goals, habits,
reminders, mood logs and wellness journals, and turns them into
AI-assisted reports.

Records are kept per user, or in a read-only-by-convention sample
dataset when --mode sample is used. Reports fall back to local
heuristics whenever the AI gateway is unavailable.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./eunoia.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().String("mode", "", "data mode (sample, user)")
	rootCmd.PersistentFlags().String("user", "", "user id for user mode")

	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("user.id", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	addRecordCommands(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("eunoia")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && logger != nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// configureEnv maps config keys such as storage.backend to EUNOIA_STORAGE_BACKEND.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("EUNOIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// overridable lists the config keys that flags and EUNOIA_* variables may set.
var overridable = []string{
	"mode",
	"user.id",
	"storage.backend",
	"storage.path",
	"storage.redis.addr",
	"storage.redis.password",
	"gateway.kind",
	"gateway.endpoint",
	"gateway.model",
	"gateway.api_key_env",
	"gateway.timeout",
	"gateway.image",
	"habits.streak_policy",
	"reminders.past_policy",
	"server.addr",
}

// loadConfig reads the config file and applies overrides from v.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = v.ConfigFileUsed()
	}
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies every non-empty overridable key from v into cfg.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	set := map[string]*string{
		"mode":                   &cfg.Mode,
		"user.id":                &cfg.User.ID,
		"storage.backend":        &cfg.Storage.Backend,
		"storage.path":           &cfg.Storage.Path,
		"storage.redis.addr":     &cfg.Storage.Redis.Addr,
		"storage.redis.password": &cfg.Storage.Redis.Password,
		"gateway.kind":           &cfg.Gateway.Kind,
		"gateway.endpoint":       &cfg.Gateway.Endpoint,
		"gateway.model":          &cfg.Gateway.Model,
		"gateway.api_key_env":    &cfg.Gateway.APIKeyEnv,
		"gateway.timeout":        &cfg.Gateway.Timeout,
		"gateway.image":          &cfg.Gateway.Image,
		"habits.streak_policy":   &cfg.Habits.StreakPolicy,
		"reminders.past_policy":  &cfg.Reminders.PastPolicy,
		"server.addr":            &cfg.Server.Addr,
	}
	for _, key := range overridable {
		if val := v.GetString(key); val != "" {
			*set[key] = val
		}
	}
}
