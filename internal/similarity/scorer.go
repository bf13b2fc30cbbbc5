package similarity

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultTokenCacheSize bounds the memoized token sets per scorer.
const defaultTokenCacheSize = 4096

// Scorer computes CombinedSimilarity with memoized tokenization.
// It is safe for concurrent use.
type Scorer struct {
	cfg    Config
	tokens *lru.Cache[string, TokenSet]
}

// NewScorer creates a scorer bound to cfg.
func NewScorer(cfg Config) *Scorer {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, TokenSet](defaultTokenCacheSize)
	return &Scorer{cfg: cfg, tokens: cache}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Tokens returns the token set for name, tokenizing at most once while cached.
// Callers must not modify the returned set.
func (s *Scorer) Tokens(name string) TokenSet {
	if ts, ok := s.tokens.Get(name); ok {
		return ts
	}
	ts := Tokenize(name)
	s.tokens.Add(name, ts)
	return ts
}

// Score returns the weighted similarity of a and b.
func (s *Scorer) Score(a, b string) float64 {
	edit := EditSimilarity(a, b)
	tok := jaccard(s.Tokens(a), s.Tokens(b))
	return edit*s.cfg.LevenshteinWeight + tok*s.cfg.JaccardWeight
}
