package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/storage"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by tsimport.

Only the file is removed. Entries already written to the configured sink are kept;
use "tsimport delete" to remove them. An interactive prompt requires typing exactly "Y".`,
	Example: `
  # Delete active config
  tsimport config delete

  # Delete config at a custom path
  tsimport --configFile ./custom-tsimport.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(deletePromptInput, deletePromptOutput, viper.ConfigFileUsed())
	},
}

func deleteConfigFile(input io.Reader, output io.Writer, configPath string) error {
	if configPath == "" {
		return fmt.Errorf("no configuration file found")
	}

	cfg, err := readConfigFile(configPath)
	if err != nil {
		return err
	}

	confirmed, err := confirmDeletePrompt(input, output, fmt.Sprintf("config file %q", configPath))
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("delete aborted: confirmation was not 'Y'")
	}

	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Fprintf(output, "\nConfiguration file successfully deleted: %s\n", configPath)
	fmt.Fprintf(output, "Stored entries were kept in %s\n", storage.Describe(cfg.Sink))
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
