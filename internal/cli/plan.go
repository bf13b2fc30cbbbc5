package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/raphaelgruber/kondo-go/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planFormat string

var planCmd = &cobra.Command{
	Use:   "plan [directory]",
	Short: "Preview how files would be grouped",
	Long: `Plan clusters the directory exactly like 'kondo group' but moves nothing.
It prints the folders that would be created and the files that would stay.

Examples:
  kondo plan ~/Downloads
  kondo plan --format json . | jq '.groups[].folder'
  kondo plan --format yaml --sort .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "text", "output format (text, json, yaml)")
	planCmd.Flags().BoolVar(&groupSort, "sort", false, "process files in name order instead of directory order")
	planCmd.Flags().Float64Var(&groupMinScore, "min-score", 0, "minimum combined score to group two files")
	planCmd.Flags().Float64Var(&groupLevWeight, "lev-weight", 0, "weight of edit-distance similarity")
	planCmd.Flags().Float64Var(&groupJacWeight, "jac-weight", 0, "weight of token similarity")
	planCmd.Flags().IntVar(&groupWorkers, "workers", 0, "concurrent scoring workers (0 = config value)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	switch planFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", planFormat)
	}

	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	applyGroupFlags(cmd)
	if err := startRun("plan", dir, false); err != nil {
		return err
	}

	svc := service.NewOrganizeService(cfg.Similarity, collector)
	plan, err := svc.Plan(dir, organizeOptions())
	if err != nil {
		return fmt.Errorf("plan %s: %w", dir, err)
	}
	logger.Info("plan built", "groups", len(plan.Groups), "skipped", len(plan.Skipped))

	switch planFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	default:
		printPlanText(os.Stdout, defaultTheme, plan)
		return nil
	}
}
