package models

// SkipReason explains why a file was left out of every folder.
type SkipReason string

const (
	// SkipSingleFile means no other file was similar enough.
	SkipSingleFile SkipReason = "single_file"
	// SkipSystemFile means the name matched a system-file pattern.
	SkipSystemFile SkipReason = "system_file"
	// SkipAlreadyOrganized is reserved for files that already live in a sorted folder.
	SkipAlreadyOrganized SkipReason = "already_organized"
)

// Description returns the text shown to users for the reason.
func (r SkipReason) Description() string {
	switch r {
	case SkipSingleFile:
		return "No similar matches found"
	case SkipSystemFile:
		return "System file"
	case SkipAlreadyOrganized:
		return "Already organized"
	default:
		return string(r)
	}
}

// SkippedFile records one file that was not moved into a group folder.
type SkippedFile struct {
	Filename string     `json:"filename" yaml:"filename"`
	Reason   SkipReason `json:"reason" yaml:"reason"`
}

// OrganizeResult summarizes a filename-similarity run.
type OrganizeResult struct {
	FilesMoved     int           `json:"files_moved" yaml:"files_moved"`
	FoldersCreated int           `json:"folders_created" yaml:"folders_created"`
	FilesSkipped   int           `json:"files_skipped" yaml:"files_skipped"`
	SkippedDetails []SkippedFile `json:"skipped_details" yaml:"skipped_details"`
	Errors         []string      `json:"errors" yaml:"errors"`
}

// CategorizeResult summarizes an extension-based run.
type CategorizeResult struct {
	FilesOrganized int            `json:"files_organized" yaml:"files_organized"`
	FilesSkipped   int            `json:"files_skipped" yaml:"files_skipped"`
	FilesFailed    int            `json:"files_failed" yaml:"files_failed"`
	CategoryCounts map[string]int `json:"category_counts" yaml:"category_counts"`
	Errors         []string       `json:"errors" yaml:"errors"`
}
