// Package models defines data structures shared by the kondo engine and its front ends.
package models

// FileGroup is one cluster of related filenames produced by a clustering pass.
type FileGroup struct {
	// RepresentativeName is the common prefix of all members (the filename itself for singletons).
	RepresentativeName string `json:"representative_name" yaml:"representative_name"`
	// Files holds member filenames in discovery order; Files[0] is the anchor.
	Files []string `json:"files" yaml:"files"`
	// AvgSimilarity is the mean anchor-to-member score, 1.0 for singletons.
	AvgSimilarity float64 `json:"avg_similarity" yaml:"avg_similarity"`
}

// Len returns the number of files in the group.
func (g FileGroup) Len() int {
	return len(g.Files)
}

// IsSingle reports whether the group cannot be placed into a folder of its own.
func (g FileGroup) IsSingle() bool {
	return len(g.Files) < 2
}

// LogFunc receives human-readable progress messages, synchronously and in order.
type LogFunc func(msg string)

// Discard is a LogFunc that drops every message.
func Discard(string) {}
