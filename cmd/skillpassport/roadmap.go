package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
)

func newRoadmapCmd(root *rootOptions) *cobra.Command {
	var (
		goalRole string
		gaps     bool
	)
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Show the improvement roadmap",
		Long: "Without flags, prints the roadmap collected from your verified assessments. " +
			"--goal-role ranks the gaps against a role profile; --gaps lists every skill below the improvement threshold.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := lookupRole(goalRole)
			if err != nil {
				return err
			}
			store, err := root.store()
			if err != nil {
				return err
			}

			var steps []types.RoadmapStep
			switch {
			case profile != nil || gaps:
				skills, err := store.Skills(cmd.Context())
				if err != nil {
					return err
				}
				steps = readiness.GenerateRoadmap(skills, profile)
			default:
				steps, err = store.Roadmap(cmd.Context())
				if err != nil {
					return err
				}
			}

			observability.NewPrinter(cmd.OutOrStdout()).PrintRoadmap(steps)
			return nil
		},
	}
	cmd.Flags().StringVarP(&goalRole, "goal-role", "r", "", "Rank gaps against a role profile")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "List skills below the improvement threshold")
	return cmd
}
