package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-passport/internal/observability"
	"github.com/jonathan/skill-passport/internal/readiness"
)

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the built-in role profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			observability.NewPrinter(cmd.OutOrStdout()).PrintRoles(readiness.Roles())
			return nil
		},
	}
}
