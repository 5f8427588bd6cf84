// Package commands contains all CLI commands for civicsift
package commands

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peh-research/civicsift/config"
	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/logging"
)

var (
	dataDir   string
	cityNames string
	envName   string
	verbose   bool
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "civicsift",
	Short: "City homelessness-discourse data pipeline",
	Long: `civicsift collects social-media, news and meeting-minute text about
homelessness across ten US cities, filters it against a fixed keyword
lexicon, scrubs personally identifiable information and summarizes the
resulting per-city CSV folders.

Example usage:
  civicsift collect --type reddit              # Collect Reddit comments for all cities
  civicsift collect --type x --count-only      # Tweet volume counts only
  civicsift filter news                        # Keyword-filter LexisNexis paragraphs
  civicsift deidentify                         # NER + regex scrub of collected text
  civicsift stats summary                      # Cross-city record counts
  civicsift sample --sample-size 50            # Build the gold-standard sample`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "root data directory")
	rootCmd.PersistentFlags().StringVar(&cityNames, "cities", "all", "comma-separated city names or slugs, or 'all'")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "dev", "environment name, loads config/envs/.env.<env>")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("cities", rootCmd.PersistentFlags().Lookup("cities"))
	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig sets up logging and loads the environment file.
func initConfig() error {
	logging.InitLogger()
	if verbose {
		logging.SetVerbose()
	}
	config.LoadEnv(envName)
	return nil
}

// selectedCities resolves --cities into registry entries. Unknown names
// are reported and skipped, matching the collection scripts.
func selectedCities() []cities.City {
	if strings.EqualFold(strings.TrimSpace(cityNames), "all") {
		return cities.All
	}

	var selected []cities.City
	for _, name := range strings.Split(cityNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		city, err := cities.ByName(name)
		if err != nil {
			slog.Warn("[Commands] Unknown city, skipping",
				slog.String("city", name))
			continue
		}
		selected = append(selected, city)
	}
	if len(selected) == 0 {
		slog.Warn("[Commands] No known cities selected",
			slog.String("cities", cityNames))
	}
	return selected
}

func dataRoot() string {
	return dataDir
}
