package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swamp-dev/eunoia/internal/config"
)

var (
	initBackend string
	initGateway string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an eunoia.yaml configuration",
	Long: `Initialize writes eunoia.yaml in the current directory.

The file selects the storage backend, the AI gateway and the user the
CLI acts for. Every value can later be overridden with EUNOIA_*
environment variables, for example EUNOIA_STORAGE_BACKEND=sqlite.

Examples:
  eunoia init
  eunoia init --backend sqlite --user ada
  eunoia init --gateway stub --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initBackend, "backend", "b", "file", "storage backend (file, sqlite, redis, memory)")
	initCmd.Flags().StringVarP(&initGateway, "gateway", "g", "http", "AI gateway (http, container, stub)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	initUser := viper.GetString("user.id")
	if initUser == "" {
		initUser = os.Getenv("USER")
	}
	if initUser == "" {
		initUser = "local"
	}

	logger.Info("initializing eunoia",
		"backend", initBackend,
		"gateway", initGateway,
		"user", initUser,
	)

	created, err := createConfigFile(cwd, initUser)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	fmt.Printf("\n✓ Initialized eunoia for user: %s\n", initUser)
	fmt.Println("\nCreated files:")
	fmt.Println("  - eunoia.yaml  (configuration)")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'eunoia status --mode sample' to explore the sample data")
	fmt.Println("  2. Run 'eunoia tasks add \"My first task\"' to start tracking")
	return nil
}

// createConfigFile writes eunoia.yaml into dir and reports whether it did.
func createConfigFile(dir, user string) (bool, error) {
	path := filepath.Join(dir, config.FileName)

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			logger.Info("eunoia.yaml already exists, skipping")
			return false, nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.User.ID = user
	cfg.Storage.Backend = initBackend
	cfg.Gateway.Kind = initGateway
	if initBackend == "sqlite" {
		cfg.Storage.Path = ".eunoia/eunoia.db"
	}

	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if err := cfg.Save(path); err != nil {
		return false, fmt.Errorf("creating config file: %w", err)
	}

	logger.Info("created eunoia.yaml")
	return true, nil
}
