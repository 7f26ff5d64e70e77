package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
)

func newMatchCmd() *cobra.Command {
	var (
		title          string
		requiredSkills string
		candidatesPath string
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank candidate profiles for a job",
		Long:  "Reads a JSON array of candidates ({name, skills}) and ranks them by suitability for the required skills.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(candidatesPath)
			if err != nil {
				return fmt.Errorf("failed to read candidates file %s: %w", candidatesPath, err)
			}
			var candidates []types.Candidate
			if err := json.Unmarshal(data, &candidates); err != nil {
				return fmt.Errorf("failed to unmarshal candidates JSON: %w", err)
			}

			job := types.RecruiterJob{Title: title, RequiredSkills: readiness.ParseSkillList(requiredSkills)}
			matches := readiness.MatchCandidates(job, candidates)

			observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(matches, len(job.RequiredSkills))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Job title")
	cmd.Flags().StringVarP(&requiredSkills, "skills", "k", "", "Comma-separated required skills")
	cmd.Flags().StringVarP(&candidatesPath, "candidates", "c", "", "Path to candidates JSON file (required)")
	if err := cmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	return cmd
}
