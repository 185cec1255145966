package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"supportbot/config"
	"supportbot/internal/adapter/logging"
)

var (
	cfgFile     string
	cfg         *config.Config
	rootDir     string
	logLevel    string
	useSnapshot bool
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "Customer support bot for an online clothing store",
	Long: `supportbot answers customer questions from a product catalog, an FAQ
store and an order status service.

Example usage:
  supportbot ask -q "return policy"   # Answer a single question
  supportbot chat                     # Interactive session
  supportbot serve                    # Chat HTTP API
  supportbot orders                   # Mock order status service
  supportbot index                    # Compile data files into a snapshot`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// a missing .env is normal outside development
		_ = godotenv.Load()

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./supportbot.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&useSnapshot, "snapshot", false, "load knowledge from the compiled snapshot instead of data files")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
