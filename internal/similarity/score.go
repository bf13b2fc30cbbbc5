package similarity

import (
	"github.com/agnivade/levenshtein"
)

// Config holds the weights and thresholds used to compare filenames.
// LevenshteinThreshold and JaccardThreshold are carried for a future
// per-metric gate; only MinSimilarityScore decides grouping.
type Config struct {
	LevenshteinThreshold float64 `toml:"levenshtein_threshold" json:"levenshtein_threshold" yaml:"levenshtein_threshold"`
	JaccardThreshold     float64 `toml:"jaccard_threshold" json:"jaccard_threshold" yaml:"jaccard_threshold"`
	LevenshteinWeight    float64 `toml:"levenshtein_weight" json:"levenshtein_weight" yaml:"levenshtein_weight"`
	JaccardWeight        float64 `toml:"jaccard_weight" json:"jaccard_weight" yaml:"jaccard_weight"`
	MinSimilarityScore   float64 `toml:"min_similarity_score" json:"min_similarity_score" yaml:"min_similarity_score"`
}

// DefaultConfig returns the stock weights and thresholds.
func DefaultConfig() Config {
	return Config{
		LevenshteinThreshold: 0.7,
		JaccardThreshold:     0.5,
		LevenshteinWeight:    0.6,
		JaccardWeight:        0.4,
		MinSimilarityScore:   0.65,
	}
}

// EditSimilarity returns 1 - editDistance/maxLen, where the distance counts
// code point edits and maxLen is the longer byte length. Two empty strings
// are identical.
func EditSimilarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// TokenSimilarity is the Jaccard index of the two names' token sets.
func TokenSimilarity(a, b string) float64 {
	return jaccard(Tokenize(a), Tokenize(b))
}

// CombinedSimilarity weights the edit and token similarities. The result is
// not clamped, so weights summing above 1.0 can push it past 1.0.
func CombinedSimilarity(a, b string, cfg Config) float64 {
	return EditSimilarity(a, b)*cfg.LevenshteinWeight + TokenSimilarity(a, b)*cfg.JaccardWeight
}

func jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for tok := range small {
		if large.Has(tok) {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}
