package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tsimport configuration file values.",
	Long: `Create, edit, display, and delete the tsimport configuration file.

The configuration stores application-wide values:
- user_id / input_dir / dry_run
- import.base_rate_limit / sheet_name / date_row_fallback / extensions
- sink.backend / collection and the backend connection settings
- log.level / log.format`,
	Example: `
  # Create default config in $HOME/.tsimport.yaml
  tsimport config create

  # Show active config and source file
  tsimport config show

  # Open active config in editor (creates example if missing)
  tsimport config edit

  # Delete active config file
  tsimport config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
