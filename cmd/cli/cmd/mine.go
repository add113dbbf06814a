package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/colocation-mining/internal/formatter"
	"github.com/colocation-mining/internal/loader"
	"github.com/colocation-mining/internal/miner"
	"github.com/colocation-mining/internal/repository"
	"github.com/colocation-mining/internal/storage"
	"github.com/colocation-mining/pkg/config"
	"github.com/colocation-mining/pkg/model"
	"github.com/colocation-mining/pkg/telemetry"
	"github.com/colocation-mining/pkg/utils"
	"github.com/colocation-mining/pkg/writer"
)

var (
	// Mine command flags
	configPath  string
	datasetPath string
	distance    float64
	minPrev     float64
	outputDir   string
	runUUID     string
	parallel    bool
	persist     bool
	archive     bool
	lenient     bool
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine prevalent colocation patterns from a dataset",
	Long: `Mine prevalent colocation patterns from a CSV dataset.

The mine command runs the full pipeline and generates:
  - The prevalent-pattern table on standard output
  - A JSON result file with patterns and per-stage statistics
  - Optionally a database record of the run (--persist)
  - Optionally an archived copy of the result artifact (--archive)`,
	RunE: runMine,
}

func init() {
	rootCmd.AddCommand(mineCmd)

	binName := BinName()
	mineCmd.Example = fmt.Sprintf(`  # Mine with explicit thresholds
  %s mine -i ./data/instances.csv -d 160 -p 0.15

  # Use a config file; flags override its values
  %s mine -c ./configs/config.yaml -p 0.3

  # Mine clique heads in parallel
  %s mine -i ./data/instances.csv --parallel

  # Persist the run and archive the result artifact
  %s mine -i ./data/instances.csv --persist --archive`,
		binName, binName, binName, binName)

	mineCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")
	mineCmd.Flags().StringVarP(&datasetPath, "input", "i", "", "Input CSV dataset (overrides config)")
	mineCmd.Flags().Float64VarP(&distance, "distance", "d", 0, "Neighbor distance threshold (overrides config)")
	mineCmd.Flags().Float64VarP(&minPrev, "min-prevalence", "p", -1, "Minimum prevalence threshold (overrides config)")
	mineCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides config)")
	mineCmd.Flags().StringVar(&runUUID, "uuid", "", "Run UUID (auto-generated if empty)")
	mineCmd.Flags().BoolVar(&parallel, "parallel", false, "Mine clique heads in parallel")
	mineCmd.Flags().BoolVar(&persist, "persist", false, "Persist the run to the configured database")
	mineCmd.Flags().BoolVar(&archive, "archive", false, "Archive the result artifact to the configured storage")
	mineCmd.Flags().BoolVar(&lenient, "lenient", false, "Skip malformed dataset rows instead of failing")
}

func runMine(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Mining.DatasetPath == "" {
		return fmt.Errorf("input dataset is required")
	}
	if _, err := os.Stat(cfg.Mining.DatasetPath); os.IsNotExist(err) {
		return fmt.Errorf("input dataset not found: %s", cfg.Mining.DatasetPath)
	}

	uuid := runUUID
	if uuid == "" {
		uuid = generateUUID()
	}

	if dl, ok := log.(*utils.DefaultLogger); ok && cfg.Mining.DebugMode {
		dl.SetLevel(utils.LevelDebug)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		log.Warn("Failed to initialize telemetry: %v", err)
	} else {
		defer shutdown(ctx)
	}

	log.Info("=== Colocation Mining ===")
	log.Info("Dataset:           %s", cfg.Mining.DatasetPath)
	log.Info("Neighbor distance: %v", cfg.Mining.NeighborDistance)
	log.Info("Min prevalence:    %v", cfg.Mining.MinPrevalence)
	log.Info("Run UUID:          %s", uuid)
	log.Info("")

	// Load the dataset.
	instances, err := loader.NewLoader(&loader.Options{StrictMode: !lenient}).
		LoadFile(ctx, cfg.Mining.DatasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Info("Loaded %d instances", len(instances))

	// Run the pipeline.
	timer := utils.NewTimer("mining", utils.WithEnabled(cfg.Mining.DebugMode))
	m, err := miner.New(miner.Options{
		NeighborDistance: cfg.Mining.NeighborDistance,
		MinPrevalence:    cfg.Mining.MinPrevalence,
		Parallel:         cfg.Mining.Parallel,
		Workers:          cfg.Mining.MaxWorker,
		Logger:           log,
		Timer:            timer,
	})
	if err != nil {
		return err
	}

	result, err := m.Run(ctx, instances)
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}
	result.RunUUID = uuid

	if cfg.Mining.DebugMode {
		log.Debug("%s", timer.Summary())
	}

	// Print the pattern table.
	log.Info("")
	tf := formatter.NewTableFormatter()
	if err := tf.Write(os.Stdout, result); err != nil {
		return err
	}
	log.Info("")
	tf.LogSummary(log, result)

	// Write the JSON result artifact.
	resultFile, err := writeResult(cfg, result, uuid)
	if err != nil {
		return err
	}
	log.Info("Result written to %s", resultFile)

	// Optional: persist the run.
	req := &model.MiningRequest{
		RunUUID:          uuid,
		DatasetPath:      cfg.Mining.DatasetPath,
		NeighborDistance: cfg.Mining.NeighborDistance,
		MinPrevalence:    cfg.Mining.MinPrevalence,
		MinCondProb:      cfg.Mining.MinCondProb,
		Debug:            cfg.Mining.DebugMode,
	}
	if persist {
		if err := persistRun(ctx, cfg, req, result); err != nil {
			return err
		}
		log.Info("Run persisted to %s database", cfg.Database.Type)
	}

	// Optional: archive the artifact.
	if archive {
		store, err := storage.New(&cfg.Storage)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("runs/%s/%s", uuid, filepath.Base(resultFile))
		if err := store.UploadFile(ctx, key, resultFile); err != nil {
			return err
		}
		log.Info("Result archived to %s", store.GetURL(key))
	}

	return nil
}

// applyFlagOverrides lets explicit flags win over the config file.
func applyFlagOverrides(cfg *config.Config) {
	if datasetPath != "" {
		cfg.Mining.DatasetPath = datasetPath
	}
	if distance > 0 {
		cfg.Mining.NeighborDistance = distance
	}
	if minPrev >= 0 {
		cfg.Mining.MinPrevalence = minPrev
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if parallel {
		cfg.Mining.Parallel = true
	}
	if verbose {
		cfg.Mining.DebugMode = true
	}
}

func writeResult(cfg *config.Config, result *model.MiningResult, uuid string) (string, error) {
	runDir := filepath.Join(cfg.Output.Dir, uuid)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if cfg.Output.Gzip {
		path := filepath.Join(runDir, "result.json.gz")
		w := writer.NewGzipWriter[*model.MiningResult]()
		if err := w.WriteToFile(result, path); err != nil {
			return "", err
		}
		return path, nil
	}

	path := filepath.Join(runDir, "result.json")
	w := writer.NewPrettyJSONWriter[*model.MiningResult]()
	if err := w.WriteToFile(result, path); err != nil {
		return "", err
	}
	return path, nil
}

func persistRun(ctx context.Context, cfg *config.Config, req *model.MiningRequest, result *model.MiningResult) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("database is not enabled in configuration")
	}
	db, err := repository.NewGormDB(&cfg.Database)
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}
	repo := repository.NewGormRunRepository(db)
	defer repo.Close()

	return repo.SaveResult(ctx, req, result)
}

func generateUUID() string {
	return fmt.Sprintf("run-%s", time.Now().Format("20060102-150405"))
}
