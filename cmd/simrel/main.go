// Command simrel simulates multivariate linear-model data with a controlled
// relevant subspace and reports its true covariance and coefficients.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"simrel/internal/config"
	"simrel/internal/simrel"
	"simrel/internal/tidy"
)

var (
	configPath string
	seed       uint64
	nTrain     int
	nTest      int
	gamma      float64
	verbose    bool
	jsonLog    bool

	tableName string
	format    string
	basis     string
	source    string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "simrel",
	Short: "Simulate multivariate linear-model data",
	Long: `simrel draws predictors X and responses Y whose covariance structure,
relevant subspace and coefficient of determination are fixed by the design.
The design is read from a YAML file (--config) and flags override it.`,
	SilenceUsage: true,
}

// runCmd simulates and prints a summary
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate and print a summary of the true model",
	Example: `  simrel run
  simrel run --config design.yaml --seed 42
  simrel run --n 500 --ntest 200 --gamma 0.8`,
	RunE: runSimulation,
}

// tidyCmd simulates and emits one long-form table
var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Simulate and write a long-form covariance or coefficient table",
	Example: `  simrel tidy --table coefficients --format csv
  simrel tidy --table covariance --basis observed --source sample`,
	RunE: runTidy,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tidyCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML design file")
	pf.Uint64Var(&seed, "seed", 0, "Random seed, 0 picks a time-based seed")
	pf.IntVar(&nTrain, "n", 0, "Training sample size (overrides the design)")
	pf.IntVar(&nTest, "ntest", 0, "Test sample size (overrides the design)")
	pf.Float64Var(&gamma, "gamma", 0, "Eigenvalue decay rate (overrides the design)")
	pf.BoolVar(&verbose, "verbose", false, "Log every pipeline stage")
	pf.BoolVar(&jsonLog, "json-log", false, "Log as JSON")

	tidyCmd.Flags().StringVar(&tableName, "table", "", "Table: coefficients, eigenvalues, cross, covariance")
	tidyCmd.Flags().StringVar(&format, "format", "", "Output format: table or csv")
	tidyCmd.Flags().StringVar(&basis, "basis", "", "Covariance basis: latent or observed")
	tidyCmd.Flags().StringVar(&source, "source", "", "Covariance source: population or sample")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	var cfg zap.Config
	if jsonLog {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// loadConfig reads the design and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("n") {
		cfg.Simulation.N = nTrain
	}
	if flags.Changed("ntest") {
		cfg.Simulation.NTest = nTest
	}
	if flags.Changed("gamma") {
		cfg.Simulation.Gamma = gamma
	}
	if flags.Changed("table") {
		cfg.Output.Table = tableName
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("basis") {
		cfg.Output.Basis = basis
	}
	if flags.Changed("source") {
		cfg.Output.Source = source
	}
	return cfg, nil
}

func simulate(cmd *cobra.Command) (*simrel.Result, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("initialize logger: %w", err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	res, err := simrel.Simulate(cfg.Simulation.Parameters(), simrel.Options{Seed: cfg.Seed, Logger: logger})
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("simulation finished", zap.String("run", res.ID.String()), zap.Uint64("seed", res.Seed))
	return res, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	res, _, err := simulate(cmd)
	if err != nil {
		return err
	}
	res.Summary(cmd.OutOrStdout())
	return nil
}

func runTidy(cmd *cobra.Command, args []string) error {
	res, cfg, err := simulate(cmd)
	if err != nil {
		return err
	}

	t, err := buildTable(res, cfg.Output)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "csv":
		return tidy.WriteCSV(out, t)
	case "table", "":
		return tidy.WriteText(out, t)
	}
	return fmt.Errorf("unknown output format %q", cfg.Output.Format)
}

func buildTable(res *simrel.Result, out config.OutputConfig) (*tidy.Table, error) {
	switch out.Table {
	case "coefficients", "":
		return tidy.Coefficients(res)
	case "eigenvalues":
		return tidy.Eigenvalues(res)
	case "cross":
		return tidy.CrossCovariances(res)
	case "covariance":
		src, err := tidy.ParseSource(out.Source)
		if err != nil {
			return nil, err
		}
		b := tidy.Latent
		switch out.Basis {
		case "observed":
			b = tidy.Observed
		case "latent", "":
		default:
			return nil, fmt.Errorf("unknown covariance basis %q", out.Basis)
		}
		return tidy.Covariances(res, b, src)
	}
	return nil, fmt.Errorf("unknown table %q", out.Table)
}
