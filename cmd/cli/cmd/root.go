package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/colocation-mining/pkg/utils"
)

var (
	// Global flags
	verbose bool
	logger  utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "colocation-mining",
	Short: "A spatial colocation pattern mining tool",
	Long: `colocation-mining discovers prevalent spatial colocation patterns in
georeferenced feature instances.

Given points labeled with a feature type and 2-D coordinates, it finds the
combinations of feature types that appear together within a distance
threshold, ranked by participation index. The pipeline materializes the
neighbor graph over a spatial grid, enumerates maximal cliques by
instance-driven search, and filters the candidate lattice against a
prevalence threshold.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Mine a dataset with explicit thresholds
  ` + binName + ` mine -i ./data/instances.csv -d 160 -p 0.15

  # Mine with a config file and persist the run to the database
  ` + binName + ` mine -c ./configs/config.yaml --persist

  # Mine in parallel and archive the JSON result to storage
  ` + binName + ` mine -i ./data/instances.csv --parallel --archive`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
