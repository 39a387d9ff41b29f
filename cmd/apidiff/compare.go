package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/apierrors"
	"apidiff/internal/classify"
	"apidiff/internal/compare"
	"apidiff/internal/config"
	"apidiff/internal/diff"
	"apidiff/internal/extract"
	"apidiff/internal/logging"
	"apidiff/internal/mapping"
	"apidiff/internal/report"
	"apidiff/internal/signature"
	"apidiff/internal/storage"
	"apidiff/internal/surface"
)

var (
	compareConfigPath   string
	compareMappingsPath string
	compareFormat       string
	compareOutputPath   string
	compareStoreDir     string
	compareAllChanges   bool
	compareFailBreaking bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <baseline> <candidate>",
	Short: "Compare two API surfaces and report the differences",
	Long: `Compare a baseline API surface against a candidate and report every
added, removed, and modified type or member, classified as breaking or
non-breaking.

Each argument is either a path to a surface descriptor file or a snapshot
reference of the form snap:<id-or-name> resolved against the local store.

Examples:
  apidiff compare old/lib.api.json new/lib.api.json
  apidiff compare snap:v1.4.0 new/lib.api.json --fail-on-breaking
  apidiff compare old.json new.json --mappings MAPPINGS.toml --format markdown
  apidiff compare old.json new.json --format html --output report.html`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareConfigPath, "config", "c", "", "Configuration file (default: apidiff.json or apidiff.yaml in cwd)")
	compareCmd.Flags().StringVar(&compareMappingsPath, "mappings", "", "Mappings file (TOML) merged over the configuration")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "", "Report format: console, json, markdown, html")
	compareCmd.Flags().StringVarP(&compareOutputPath, "output", "o", "", "Write the report to a file instead of stdout")
	compareCmd.Flags().StringVar(&compareStoreDir, "store-dir", storage.DefaultDir, "Snapshot store directory")
	compareCmd.Flags().BoolVar(&compareAllChanges, "all", false, "Include non-breaking differences in the report")
	compareCmd.Flags().BoolVar(&compareFailBreaking, "fail-on-breaking", true, "Exit with code 1 when breaking changes are found (--fail-on-breaking=false disables the gate)")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	logger := newLogger()

	result, cfg, err := executeComparison(cmd, args[0], args[1], logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitCode(err))
	}

	if err := emitReport(result, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(apierrors.ExitComparisonError)
	}

	if cfg.Output.FailOnBreaking && result.HasBreakingChanges() {
		logger.Info("Breaking changes detected", map[string]interface{}{
			"count": result.Summary.BreakingChangesCount,
		})
		os.Exit(apierrors.ExitBreakingChanges)
	}
}

// executeComparison loads both surfaces, builds the pipeline and runs it
func executeComparison(cmd *cobra.Command, baselineArg, candidateArg string, logger *logging.Logger) (*diff.ComparisonResult, *config.Config, error) {
	cfg, err := config.LoadConfig(compareConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if compareMappingsPath != "" {
		if err := config.LoadMappingsFile(compareMappingsPath, &cfg.Mappings); err != nil {
			return nil, nil, err
		}
	}
	applyCompareFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	baseline, err := loadSurface(baselineArg, logger)
	if err != nil {
		return nil, nil, err
	}
	candidate, err := loadSurface(candidateArg, logger)
	if err != nil {
		return nil, nil, err
	}

	builder := signature.NewBuilder(logger)
	comparer := compare.NewComparer(
		extract.NewExtractor(builder, logger),
		mapping.NewMapper(&cfg.Mappings, logger),
		diff.NewCalculator(builder, logger),
		classify.NewClassifier(&cfg.Exclusions, &cfg.Rules, logger),
		&cfg.Filters,
		logger,
	)

	result, err := comparer.CompareAssemblies(baseline, candidate)
	if err != nil {
		return nil, nil, err
	}
	return result, cfg, nil
}

// applyCompareFlags lets explicit CLI flags override the config file.
// Boolean flags override in both directions, but only when set on the
// command line, so config-file values survive unflagged runs.
func applyCompareFlags(cmd *cobra.Command, cfg *config.Config) {
	if compareFormat != "" {
		cfg.Output.Format = compareFormat
	}
	if compareOutputPath != "" {
		cfg.Output.Path = compareOutputPath
	}
	if cmd.Flags().Changed("all") {
		cfg.Output.IncludeNonBreaking = compareAllChanges
	}
	if cmd.Flags().Changed("fail-on-breaking") {
		cfg.Output.FailOnBreaking = compareFailBreaking
	}
}

// loadSurface resolves an input argument to a surface descriptor. A
// snap:<ref> argument reads from the snapshot store, anything else is a
// file path.
func loadSurface(arg string, logger *logging.Logger) (*surface.Assembly, error) {
	if ref, ok := storage.SnapshotRef(arg); ok {
		store, err := storage.Open(compareStoreDir, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ref)
	}
	return surface.NewFileLoader(logger).Load(arg)
}

func emitReport(result *diff.ComparisonResult, cfg *config.Config) error {
	reporter, err := report.New(report.Format(cfg.Output.Format), report.Options{
		IncludeNonBreaking: cfg.Output.IncludeNonBreaking,
	})
	if err != nil {
		return err
	}
	rendered, err := reporter.Render(result)
	if err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		return os.WriteFile(cfg.Output.Path, []byte(rendered), 0644)
	}
	fmt.Println(rendered)
	return nil
}
