package app

import (
	"io"
	"log/slog"

	"github.com/chrisracha/blazor-todo/pkg/config"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// Version is stamped into every log record; set with -ldflags at build time.
var Version = "dev"

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Output = out
	logCfg.ServiceVersion = Version
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	return observability.NewLogger(logCfg)
}
