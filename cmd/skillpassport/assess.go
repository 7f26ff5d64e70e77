package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/assessment"
	"github.com/jonathan/skill-passport/internal/cache"
	"github.com/jonathan/skill-passport/internal/llm"
	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
)

type assessOptions struct {
	skill    string
	zipPath  string
	goalRole string
	notes    string
	demo     bool
}

func newAssessCmd(root *rootOptions) *cobra.Command {
	opts := &assessOptions{}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a project archive and record the skill as verified",
		Long: "Extracts text from a project zip, asks Gemini for a skill assessment and stores the result " +
			"as a verified skill. Without GEMINI_API_KEY, or with --demo, a clearly labelled demo assessment is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.skill, "skill", "s", "", "Skill name to assess (required)")
	cmd.Flags().StringVarP(&opts.zipPath, "zip", "z", "", "Path to the project zip archive (required)")
	cmd.Flags().StringVarP(&opts.goalRole, "goal-role", "r", "", "Target role used to frame the assessment")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "Extra context for the assessor")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Skip the model and return a demo assessment")

	if err := cmd.MarkFlagRequired("skill"); err != nil {
		panic(fmt.Sprintf("failed to mark skill flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("zip"); err != nil {
		panic(fmt.Sprintf("failed to mark zip flag as required: %v", err))
	}
	return cmd
}

func runAssess(cmd *cobra.Command, root *rootOptions, opts *assessOptions) error {
	ctx := cmd.Context()
	cfg, err := root.resolve()
	if err != nil {
		return err
	}
	log, err := cliLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	archive, err := os.ReadFile(opts.zipPath)
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", opts.zipPath, err)
	}

	demo := opts.demo || cfg.DemoMode
	if env, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("DEMO_MODE"))); err == nil && env {
		demo = true
	}

	var client llm.Client
	if cfg.APIKey != "" && !demo {
		client, err = llm.NewClient(ctx, llm.DefaultConfig().WithModel(cfg.Model), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create model client: %w", err)
		}
		defer func() { _ = client.Close() }()
	} else if !demo {
		fmt.Fprintln(cmd.ErrOrStderr(), "GEMINI_API_KEY not set, using a demo assessment")
		demo = true
	}

	goalRole := opts.goalRole
	if goalRole == "" {
		goalRole = cfg.GoalRole
	}

	svc := assessment.NewService(client, cache.Noop{}, log, assessment.Config{DemoMode: demo})
	result, err := svc.Assess(ctx, assessment.Request{
		SkillName: opts.skill,
		GoalRole:  goalRole,
		Notes:     opts.notes,
		Archive:   archive,
	})
	if err != nil {
		return err
	}

	store, err := root.store()
	if err != nil {
		return err
	}
	skills, err := store.Skills(ctx)
	if err != nil {
		return err
	}
	skills = readiness.UpsertSkill(skills, readiness.FromAssessment(opts.skill, result))
	if err := store.SetSkills(ctx, skills); err != nil {
		return err
	}
	if err := store.SetRoadmap(ctx, readiness.AggregateRoadmap(skills)); err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintAssessment(result)
	if score, ok := readiness.CalculateScore(skills, nil); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "\nReadiness score: %d/%d\n", score, readiness.MaxScore)
	}
	return nil
}
