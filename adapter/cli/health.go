package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and cache health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		if app.Health == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}

		report := app.Health.GetOverallHealth(cmd.Context())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", report.Status)

		names := make([]string, 0, len(report.Checks))
		for name := range report.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := report.Checks[name]
			if check.Message != "" {
				fmt.Fprintf(out, "  %-10s %s (%s)\n", name, check.Status, check.Message)
			} else {
				fmt.Fprintf(out, "  %-10s %s\n", name, check.Status)
			}
		}

		if report.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("service unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
