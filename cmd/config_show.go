package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/config"
	"tsimport/storage"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

Values that fail validation are still printed, followed by the validation error.
Secrets such as the Redis password are masked.`,
	Example: `
  # Show active configuration
  tsimport config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		printConfig(os.Stdout, cfg)

		fmt.Printf("Sink: %s\n", storage.Describe(cfg.Sink))

		if err := cfg.Validate(); err != nil {
			fmt.Println("Invalid config:", err)
		}
		if err := storage.CheckSettings(cfg.Sink); err != nil {
			fmt.Println("Sink settings:", err)
		}
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "%s: %s\n", config.KeyUserID, cfg.UserID)
	fmt.Fprintf(w, "%s: %s\n", config.KeyInputDir, cfg.InputDir)
	fmt.Fprintf(w, "%s: %t\n", config.KeyDryRun, cfg.DryRun)
	fmt.Fprintf(w, "%s: %g\n", config.KeyImportBaseRateLimit, cfg.Import.BaseRateLimit)
	fmt.Fprintf(w, "%s: %s\n", config.KeyImportSheetName, cfg.Import.SheetName)
	fmt.Fprintf(w, "%s: %t\n", config.KeyImportDateRowFallback, cfg.Import.DateRowFallback)
	fmt.Fprintf(w, "%s: %s\n", config.KeyImportExtensions, strings.Join(cfg.Import.Extensions, ", "))
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkBackend, cfg.Sink.Backend)
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkCollection, cfg.Sink.Collection)
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkSQLitePath, cfg.Sink.SQLitePath)
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkPostgresDSN, maskSecret(cfg.Sink.PostgresDSN))
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkRedisAddr, cfg.Sink.RedisAddr)
	fmt.Fprintf(w, "%s: %s\n", config.KeySinkRedisPassword, maskSecret(cfg.Sink.RedisPassword))
	fmt.Fprintf(w, "%s: %d\n", config.KeySinkRedisDB, cfg.Sink.RedisDB)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLogFormat, cfg.Log.Format)
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
