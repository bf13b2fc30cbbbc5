package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/kondo-go/internal/service"
	"github.com/spf13/cobra"
)

var (
	categorizeDryRun  bool
	categorizeWorkers int
	categorizeSort    bool
)

var categorizeCmd = &cobra.Command{
	Use:     "categorize [directory]",
	Aliases: []string{"category", "ext"},
	Short:   "Sort files into folders by extension",
	Long: `Categorize moves every file into a folder chosen by its extension using the
categories in kondo.toml. Files with unknown extensions go to Extras/.

Examples:
  kondo categorize ~/Downloads
  kondo categorize --dry-run .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().BoolVar(&categorizeDryRun, "dry-run", false, "show where files would go without moving them")
	categorizeCmd.Flags().IntVar(&categorizeWorkers, "workers", 0, "files processed concurrently (0 = config value)")
	categorizeCmd.Flags().BoolVar(&categorizeSort, "sort", false, "process files in name order")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = categorizeWorkers
	}
	if err := startRun("categorize", dir, false); err != nil {
		return err
	}

	svc := service.NewCategorizeService(cfg.Categories, collector)
	result, err := svc.Categorize(dir, service.CategorizeOptions{
		DryRun:       categorizeDryRun,
		Workers:      cfg.Workers,
		SkipPatterns: cfg.SystemSkipPatterns(),
		SortEntries:  categorizeSort,
		Log:          logSink(nil),
	})
	if err != nil {
		logger.Error("categorize failed", "error", err)
		return fmt.Errorf("categorize %s: %w", dir, err)
	}
	logResultErrors(result.Errors)

	printCategorizeResult(os.Stdout, defaultTheme, result, categorizeDryRun)
	if verbose {
		printMetrics(os.Stdout, defaultTheme, collector.Snapshot())
	}
	return nil
}
