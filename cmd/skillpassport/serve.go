package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/config"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/server"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start the HTTP server for skill assessment, readiness scoring, recruiter jobs and email-verified accounts.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				if err := os.Setenv("PORT", port); err != nil {
					return err
				}
			}

			cfg, err := config.NewServerConfig()
			if err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer log.Sync()

			srv, err := server.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT, default 5050)")
	return cmd
}
