package cli

import (
	"github.com/spf13/cobra"

	"github.com/yourpaljake/hitfinding/internal/config"
	"github.com/yourpaljake/hitfinding/internal/logging"
)

// setupLogging configures logging from the config section, environment, and
// --debug, then stores the logger and a run ID in the command context.
func setupLogging(
	cmd *cobra.Command,
	loggingCfg config.LoggingConfig,
	debug bool,
	lookupEnv func(string) (string, bool),
) logging.LogPathResult {
	loggingCfg = loggingCfg.WithEnvOverrides(lookupEnv)
	if debug {
		loggingCfg = loggingCfg.ForDebug()
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)

	base := result.Logger.With().Str("run_id", runID).Logger()
	ctx = base.WithContext(ctx)
	cmd.SetContext(ctx)

	logger := logging.ComponentLogger(base, "cli")

	logger.Info().Str("command", cmd.Name()).Msg("command started")
	return result
}
