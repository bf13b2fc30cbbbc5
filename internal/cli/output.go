package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/raphaelgruber/kondo-go/internal/metrics"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/service"
)

func count(n int) string {
	return humanize.Comma(int64(n))
}

// printOrganizeResult writes the summary of a similarity run.
func printOrganizeResult(w io.Writer, t Theme, r *models.OrganizeResult) {
	fmt.Fprintln(w, t.completedStyle().Render("✓ Organization complete"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Files moved:      %s\n", count(r.FilesMoved))
	fmt.Fprintf(w, "  Folders created:  %s\n", count(r.FoldersCreated))
	fmt.Fprintf(w, "  Files skipped:    %s\n", count(r.FilesSkipped))

	if verbose && len(r.SkippedDetails) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.statusStyle().Render("Skipped:"))
		for _, s := range r.SkippedDetails {
			fmt.Fprintf(w, "  • %s (%s)\n", s.Filename, s.Reason.Description())
		}
	}
	printErrors(w, t, r.Errors)
}

// printCategorizeResult writes the summary of an extension run.
func printCategorizeResult(w io.Writer, t Theme, r *models.CategorizeResult, dryRun bool) {
	verb := "organized"
	if dryRun {
		verb = "would be organized"
		fmt.Fprintln(w, t.hintStyle().Render("Dry run: nothing was moved"))
	}
	fmt.Fprintln(w, t.completedStyle().Render("✓ Categorization complete"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Files %s: %s\n", verb, count(r.FilesOrganized))
	fmt.Fprintf(w, "  Files skipped:  %s\n", count(r.FilesSkipped))
	fmt.Fprintf(w, "  Files failed:   %s\n", count(r.FilesFailed))

	if len(r.CategoryCounts) > 0 {
		folders := make([]string, 0, len(r.CategoryCounts))
		for f := range r.CategoryCounts {
			folders = append(folders, f)
		}
		sort.Slice(folders, func(i, j int) bool {
			ci, cj := r.CategoryCounts[folders[i]], r.CategoryCounts[folders[j]]
			if ci != cj {
				return ci > cj
			}
			return folders[i] < folders[j]
		})
		fmt.Fprintln(w)
		for _, f := range folders {
			fmt.Fprintf(w, "  %-16s %s\n", f, count(r.CategoryCounts[f]))
		}
	}
	printErrors(w, t, r.Errors)
}

func printErrors(w io.Writer, t Theme, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, t.errorStyle().Render(fmt.Sprintf("\nErrors (%d):", len(errs))))
	for _, e := range errs {
		fmt.Fprintf(w, "  • %s\n", e)
	}
}

// printPlanText writes a human-readable preview of an organize run.
func printPlanText(w io.Writer, t Theme, plan *service.Plan) {
	fmt.Fprintf(w, "%s %s (%s files)\n\n", t.titleStyle().Render("Plan for"), plan.Directory, count(plan.TotalFiles))
	if len(plan.Groups) == 0 {
		fmt.Fprintln(w, t.hintStyle().Render("No similar files found."))
	}
	for _, g := range plan.Groups {
		fmt.Fprintf(w, "%s %s\n", t.statusStyle().Render("📁 "+g.Folder),
			t.hintStyle().Render(fmt.Sprintf("(%d files, %.0f%% similar)", g.Group.Len(), g.Group.AvgSimilarity*100)))
		for _, f := range g.Group.Files {
			fmt.Fprintf(w, "   %s\n", f)
		}
	}
	if len(plan.Skipped) > 0 {
		fmt.Fprintf(w, "\n%s\n", t.warningStyle().Render(fmt.Sprintf("Skipped (%d):", len(plan.Skipped))))
		for _, s := range plan.Skipped {
			fmt.Fprintf(w, "   %s %s\n", s.Filename, t.hintStyle().Render("- "+s.Reason.Description()))
		}
	}
}

// printMetrics writes per-operation timings collected during the run.
func printMetrics(w io.Writer, t Theme, snap metrics.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.hintStyle().Render(fmt.Sprintf("Finished in %s", time.Duration(snap.ElapsedSeconds*float64(time.Second)).Round(time.Millisecond))))
	ops := []struct {
		name string
		op   *metrics.OperationSnapshot
	}{
		{metrics.OpListDir, snap.ListDir},
		{metrics.OpCluster, snap.Cluster},
		{metrics.OpMkdir, snap.Mkdir},
		{metrics.OpMove, snap.Move},
	}
	var b strings.Builder
	for _, o := range ops {
		if o.op == nil {
			continue
		}
		fmt.Fprintf(&b, "  %-9s count=%s failures=%d avg=%.2fms max=%dms\n",
			o.name, count(int(o.op.Count)), o.op.Failures, o.op.AvgTimeMs, o.op.MaxTimeMs)
	}
	if b.Len() > 0 {
		fmt.Fprintln(w, t.hintStyle().Render(strings.TrimRight(b.String(), "\n")))
	}
}
