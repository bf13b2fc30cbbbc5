package service

import (
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/naming"
)

// PlannedGroup is a multi-file group and the folder it would be moved into.
type PlannedGroup struct {
	Folder string           `json:"folder" yaml:"folder"`
	Group  models.FileGroup `json:"group" yaml:"group"`
}

// Plan is a read-only preview of an organize run.
type Plan struct {
	Directory  string               `json:"directory" yaml:"directory"`
	TotalFiles int                  `json:"total_files" yaml:"total_files"`
	Groups     []PlannedGroup       `json:"groups" yaml:"groups"`
	Skipped    []models.SkippedFile `json:"skipped" yaml:"skipped"`
}

// BuildPlan classifies clustered groups the same way Place would, without
// moving anything.
func BuildPlan(dir string, groups []models.FileGroup) *Plan {
	plan := &Plan{
		Directory: dir,
		Groups:    []PlannedGroup{},
		Skipped:   []models.SkippedFile{},
	}
	for _, g := range groups {
		plan.TotalFiles += g.Len()
		if !g.IsSingle() {
			plan.Groups = append(plan.Groups, PlannedGroup{
				Folder: naming.SuggestFolderName(g),
				Group:  g,
			})
			continue
		}
		for _, f := range g.Files {
			reason := models.SkipSingleFile
			if naming.IsSystemFile(f) {
				reason = models.SkipSystemFile
			}
			plan.Skipped = append(plan.Skipped, models.SkippedFile{Filename: f, Reason: reason})
		}
	}
	return plan
}

// Plan analyzes dir and returns the preview.
func (s *OrganizeService) Plan(dir string, opts OrganizeOptions) (*Plan, error) {
	groups, err := s.Analyze(dir, opts)
	if err != nil {
		return nil, err
	}
	return BuildPlan(dir, groups), nil
}
