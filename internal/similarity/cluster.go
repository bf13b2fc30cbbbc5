package similarity

import (
	"strings"

	"github.com/raphaelgruber/kondo-go/internal/models"
	"golang.org/x/sync/errgroup"
)

// prefixTrimSet lists delimiters trimmed from the end of a common prefix.
const prefixTrimSet = "-_ .([{"

// Grouper partitions filenames into clusters with a greedy anchor pass.
type Grouper struct {
	scorer  *Scorer
	workers int
}

// NewGrouper creates a grouper. workers > 1 scores each anchor's candidates
// concurrently; the resulting groups are identical to a sequential pass.
func NewGrouper(cfg Config, workers int) *Grouper {
	if workers < 1 {
		workers = 1
	}
	return &Grouper{scorer: NewScorer(cfg), workers: workers}
}

// GroupSimilarFiles clusters filenames sequentially with cfg.
func GroupSimilarFiles(filenames []string, cfg Config) []models.FileGroup {
	return NewGrouper(cfg, 1).Group(filenames)
}

// Group clusters filenames. Each unassigned file, in input order, becomes an
// anchor; every later unassigned file scoring at least MinSimilarityScore
// against the anchor joins its group. Members are never compared with each
// other, so the result depends on input order.
func (g *Grouper) Group(filenames []string) []models.FileGroup {
	if len(filenames) == 0 {
		return []models.FileGroup{}
	}

	n := len(filenames)
	assigned := make([]bool, n)
	scores := make([]float64, n)
	minScore := g.scorer.Config().MinSimilarityScore

	var groups []models.FileGroup
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		assigned[i] = true

		g.scoreRow(filenames, i, assigned, scores)

		files := []string{filenames[i]}
		var total float64
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if scores[j] >= minScore {
				files = append(files, filenames[j])
				total += scores[j]
				assigned[j] = true
			}
		}

		avg := 1.0
		if members := len(files) - 1; members > 0 {
			avg = total / float64(members)
		}

		groups = append(groups, models.FileGroup{
			RepresentativeName: CommonPrefix(files),
			Files:              files,
			AvgSimilarity:      avg,
		})
	}

	return groups
}

// scoreRow fills scores[j] for every unassigned j > i. assigned is only read.
func (g *Grouper) scoreRow(filenames []string, i int, assigned []bool, scores []float64) {
	anchor := filenames[i]
	if g.workers == 1 {
		for j := i + 1; j < len(filenames); j++ {
			if !assigned[j] {
				scores[j] = g.scorer.Score(anchor, filenames[j])
			}
		}
		return
	}

	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for j := i + 1; j < len(filenames); j++ {
		if assigned[j] {
			continue
		}
		eg.Go(func() error {
			scores[j] = g.scorer.Score(anchor, filenames[j])
			return nil
		})
	}
	_ = eg.Wait()
}

// CommonPrefix returns the character-wise common prefix of names with
// trailing delimiters removed. A single name is returned unchanged.
func CommonPrefix(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}

	runes := make([][]rune, len(names))
	for k, name := range names {
		runes[k] = []rune(name)
	}

	var prefix strings.Builder
	for idx, c := range runes[0] {
		match := true
		for _, other := range runes[1:] {
			if idx >= len(other) || other[idx] != c {
				match = false
				break
			}
		}
		if !match {
			break
		}
		prefix.WriteRune(c)
	}

	return strings.TrimRight(prefix.String(), prefixTrimSet)
}
