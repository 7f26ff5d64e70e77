// Package main provides the skillpassport CLI and HTTP API server.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/config"
	"github.com/jonathan/skill-passport/internal/llm"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/skillstore"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	storePath  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "skillpassport",
		Short: "Skill Passport: verified skills, readiness scores and roadmaps",
		Long: "Skill Passport assesses project archives with Gemini, keeps a local list of verified skills " +
			"and turns it into a readiness score and improvement roadmap. `serve` runs the HTTP API.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON config file")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "Path to the skill store file (default: user config dir)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(),
		newAssessCmd(opts),
		newSkillsCmd(opts),
		newScoreCmd(opts),
		newRoadmapCmd(opts),
		newRolesCmd(),
		newMatchCmd(),
	)
	return cmd
}

// resolve merges flags, the config file and the environment, in that order of precedence.
func (o *rootOptions) resolve() (config.CLIConfig, error) {
	cfg := config.CLIConfig{StorePath: o.storePath, Verbose: o.verbose}
	if o.configPath != "" {
		fileCfg, err := config.LoadCLIConfig(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.DemoMode = fileCfg.DemoMode
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}

	cfg = cfg.MergeWithDefaults(config.CLIConfig{
		APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:  llm.ConfigFromEnv().Model,
	})
	if cfg.StorePath == "" {
		path, err := skillstore.DefaultPath()
		if err != nil {
			return cfg, err
		}
		cfg.StorePath = path
	}
	return cfg, nil
}

func (o *rootOptions) store() (*skillstore.FileStore, error) {
	cfg, err := o.resolve()
	if err != nil {
		return nil, err
	}
	return skillstore.NewFileStore(cfg.StorePath), nil
}

func cliLogger(verbose bool) (*logger.Logger, error) {
	if verbose {
		return logger.New("development")
	}
	return logger.Nop(), nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
