package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/pkg/observability"
)

var (
	userOverride string
	logger       *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - per-user task lists",
	Long: `todo manages the task list of the current user.

The user is taken from TODO_USER_ID, as verified by your identity
provider, and can be overridden with --user.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		if userOverride != "" && app != nil {
			app.SetCurrentUserID(userOverride)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = context.WithValue(ctx, commandContextKey{}, info)
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		if app != nil {
			ctx = observability.WithUserID(ctx, app.CurrentUserID)
		}
		cmd.SetContext(ctx)

		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command. Cobra has already printed any error it returns.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userOverride, "user", "u", "", "act as this user instead of TODO_USER_ID")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// RequireApp returns the CLI application or an error when it could not be
// initialized.
func RequireApp() (*App, error) {
	if app == nil || app.Tasks == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	if app.CurrentUserID == "" {
		return nil, fmt.Errorf("no current user - set TODO_USER_ID or pass --user")
	}
	return app, nil
}
