package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/config"
)

var (
	createUserID   string
	createInputDir string
	createBackend  string
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

user_id, input_dir and sink.backend can be filled in from flags. The command then reports
the sink the file resolves to. If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.tsimport.yaml
  tsimport config create

  # Pre-fill the importing user and a Postgres sink
  tsimport config create --user u-123 --input-dir ./timesheets --sink postgres
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(os.Stdout, config.Example{
			UserID:   createUserID,
			InputDir: createInputDir,
			Backend:  createBackend,
		})
	},
}

func saveDefaultConfig(w io.Writer, values config.Example) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath, values)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "New config file created at: %s\n", configPath)
	} else {
		fmt.Fprintf(w, "Config file already exists at: %s\n", configPath)
	}

	cfg, err := readConfigFile(configPath)
	if err != nil {
		return err
	}
	reportSink(w, cfg)
	if cfg.UserID == "" || cfg.InputDir == "" {
		fmt.Fprintln(w, "Set user_id and input_dir in the file, or pass --user and --input-dir to import.")
	}
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&createUserID, "user", "", "Pre-fill user_id")
	configCreateCmd.Flags().StringVar(&createInputDir, "input-dir", "", "Pre-fill input_dir")
	configCreateCmd.Flags().StringVar(&createBackend, "sink", "", "Pre-fill sink.backend: sqlite|postgres|redis")
}
