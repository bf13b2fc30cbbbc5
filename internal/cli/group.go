package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/kondo-go/internal/service"
	"github.com/spf13/cobra"
)

var (
	groupNoUI        bool
	groupMoveSkipped bool
	groupSort        bool
	groupMinScore    float64
	groupLevWeight   float64
	groupJacWeight   float64
	groupWorkers     int
)

var groupCmd = &cobra.Command{
	Use:     "group [directory]",
	Aliases: []string{"filename"},
	Short:   "Group files with similar names into folders",
	Long: `Group clusters files whose names look alike and moves every cluster of two or
more files into a folder named after what the files have in common.

In a terminal an interactive review screen is shown first. Use --no-ui (or
pipe the output) to organize immediately and print a summary.

Examples:
  kondo group ~/Downloads
  kondo group --no-ui --move-skipped .
  kondo group --min-score 0.75 ~/Pictures`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGroup,
}

func init() {
	groupCmd.Flags().BoolVar(&groupNoUI, "no-ui", false, "organize without the interactive review")
	groupCmd.Flags().BoolVar(&groupMoveSkipped, "move-skipped", false, "move ungrouped files into "+service.SkipFolderName+"/")
	groupCmd.Flags().BoolVar(&groupSort, "sort", false, "process files in name order instead of directory order")
	groupCmd.Flags().Float64Var(&groupMinScore, "min-score", 0, "minimum combined score to group two files")
	groupCmd.Flags().Float64Var(&groupLevWeight, "lev-weight", 0, "weight of edit-distance similarity")
	groupCmd.Flags().Float64Var(&groupJacWeight, "jac-weight", 0, "weight of token similarity")
	groupCmd.Flags().IntVar(&groupWorkers, "workers", 0, "concurrent scoring workers (0 = config value)")
}

// applyGroupFlags copies explicitly set similarity flags over the config.
func applyGroupFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("min-score") {
		cfg.Similarity.MinSimilarityScore = groupMinScore
	}
	if flags.Changed("lev-weight") {
		cfg.Similarity.LevenshteinWeight = groupLevWeight
	}
	if flags.Changed("jac-weight") {
		cfg.Similarity.JaccardWeight = groupJacWeight
	}
	if flags.Changed("workers") {
		cfg.Workers = groupWorkers
	}
}

func organizeOptions() service.OrganizeOptions {
	return service.OrganizeOptions{
		MoveSkipped: groupMoveSkipped,
		SortEntries: groupSort,
		Workers:     cfg.Workers,
	}
}

func runGroup(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	applyGroupFlags(cmd)

	interactive := !groupNoUI && isTerminal()
	if err := startRun("group", dir, interactive); err != nil {
		return err
	}

	svc := service.NewOrganizeService(cfg.Similarity, collector)
	opts := organizeOptions()

	if interactive {
		result, err := runReviewUI(svc, dir, opts)
		if err != nil {
			logger.Error("review failed", "error", err)
			return err
		}
		if result != nil {
			logResultErrors(result.Errors)
			if verbose {
				printMetrics(os.Stdout, defaultTheme, collector.Snapshot())
			}
		}
		return nil
	}

	opts.Log = logSink(nil)
	fmt.Printf("Organizing %s...\n", dir)
	result, err := svc.Organize(dir, opts)
	if err != nil {
		logger.Error("organize failed", "error", err)
		return fmt.Errorf("organize %s: %w", dir, err)
	}
	logResultErrors(result.Errors)

	printOrganizeResult(os.Stdout, defaultTheme, result)
	if verbose {
		printMetrics(os.Stdout, defaultTheme, collector.Snapshot())
	}
	return nil
}

func logResultErrors(errs []string) {
	for _, e := range errs {
		logger.Warn("organize error", "error", e)
	}
}
