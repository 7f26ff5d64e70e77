package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/skillstore"
	"github.com/jonathan/skill-passport/internal/types"
)

func newSkillsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List, remove or self-rate skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			skills, err := store.Skills(cmd.Context())
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintSkills(skills)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSkills(cmd.Context(), root, func(skills []types.Skill) ([]types.Skill, error) {
				if _, ok := readiness.FindSkill(skills, args[0]); !ok {
					return nil, fmt.Errorf("skill %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return readiness.RemoveSkill(skills, args[0]), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-level <name> <level>",
		Short: "Record a self-rated level (0-100); the skill becomes unverified",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be a number: %w", err)
			}
			return updateSkills(cmd.Context(), root, func(skills []types.Skill) ([]types.Skill, error) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s set to %d (self-rated)\n", args[0], types.ClampLevel(level))
				return readiness.SetLevel(skills, args[0], level), nil
			})
		},
	})

	return cmd
}

// updateSkills applies fn to the stored skills and refreshes the roadmap snapshot.
func updateSkills(ctx context.Context, root *rootOptions, fn func([]types.Skill) ([]types.Skill, error)) error {
	store, err := root.store()
	if err != nil {
		return err
	}
	return applySkills(ctx, store, fn)
}

func applySkills(ctx context.Context, store skillstore.Repository, fn func([]types.Skill) ([]types.Skill, error)) error {
	skills, err := store.Skills(ctx)
	if err != nil {
		return err
	}
	skills, err = fn(skills)
	if err != nil {
		return err
	}
	if err := store.SetSkills(ctx, skills); err != nil {
		return err
	}
	return store.SetRoadmap(ctx, readiness.AggregateRoadmap(skills))
}
