package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var goalRole string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the readiness score from verified skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.resolve()
			if err != nil {
				return err
			}
			if goalRole == "" {
				goalRole = cfg.GoalRole
			}
			profile, err := lookupRole(goalRole)
			if err != nil {
				return err
			}

			store, err := root.store()
			if err != nil {
				return err
			}
			skills, err := store.Skills(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			score, ok := readiness.CalculateScore(skills, profile)
			if !ok {
				fmt.Fprintln(out, "No score yet: verify a skill with `skillpassport assess`.")
				return nil
			}
			if profile != nil {
				fmt.Fprintf(out, "Readiness for %s: %d/%d\n", profile.Name, score, readiness.MaxScore)
			} else {
				fmt.Fprintf(out, "Readiness score: %d/%d\n", score, readiness.MaxScore)
			}
			observability.NewPrinter(out).PrintInsights(readiness.SkillInsights(skills))
			return nil
		},
	}
	cmd.Flags().StringVarP(&goalRole, "goal-role", "r", "", "Score against a role profile (see `skillpassport roles`)")
	return cmd
}

// lookupRole returns nil for an empty name and an error for an unknown one.
func lookupRole(name string) (*types.RoleProfile, error) {
	if name == "" {
		return nil, nil
	}
	profile, ok := readiness.Role(name)
	if !ok {
		return nil, fmt.Errorf("unknown goal role %q (known: %v)", name, readiness.RoleNames())
	}
	return profile, nil
}
