/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsimport",
	Short: "Validate weekly timesheet workbooks and import them as draft time entries.",
	Long: `
**********************************************
*              TSIMPORT                      *
**********************************************

This CLI reads a directory of weekly timesheet workbooks, validates every file,
and writes the extracted day-level entries to a document store in one batch.
A single failing file rejects the whole batch.

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv

Supported sinks: sqlite (default), postgres, redis.
`,
	Example: `
  # Create configuration file
  tsimport config create

  # Preview an import (the default, nothing is written)
  tsimport import --user u-123 -d ./timesheets

  # Preview and save the extracted entries for review
  tsimport import --user u-123 -d ./timesheets --report ./preview.xlsx

  # Write the batch to the configured sink
  tsimport import --user u-123 -d ./timesheets --dry-run=false

  # Export weekly summaries from the local SQLite store
  tsimport export --mode weekly --output ./weekly.csv
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.tsimport.yaml, then ./.tsimport.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tsimport" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tsimport")
	}

	// TSIMPORT_SINK_BACKEND overrides sink.backend, and so on.
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: tsimport config create")
	}
}
