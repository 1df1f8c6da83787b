package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourpaljake/hitfinding/internal/config"
	"github.com/yourpaljake/hitfinding/internal/logging"
)

// rootFlags holds the values bound to the root command's flags.
type rootFlags struct {
	configPath       string
	debug            bool
	output           string
	plain            bool
	interactive      bool
	skipVersionCheck bool
}

// NewRootCmd creates the hitfind command.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	cmd, _ := newRootCmd(ver, lookupEnv)
	return cmd
}

// rootState is what the root command's hooks share during one invocation.
type rootState struct {
	flags     rootFlags
	cfg       *config.Config
	logResult *logging.LogPathResult
}

func newRootCmd(ver string, lookupEnv func(string) (string, bool)) (*cobra.Command, *rootState) {
	st := &rootState{}
	flags := &st.flags

	cmd := &cobra.Command{
		Use:   "hitfind [location]",
		Short: "Find DoG hits across a numbered batch of data files",
		Long: `hitfind runs Difference-of-Gaussians detection on every file of a batch
concurrently and plots the union of the detected hits.

A location ending in a path separator is a directory: every file in it whose
name starts with a digit is processed, in natural numeric order. Any other
location is a single file.`,
		Version:       ver,
		Example:       rootCmdExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, *flags, args)
			if err != nil {
				return err
			}
			st.cfg = loaded

			result := setupLogging(cmd, st.cfg.Logging, flags.debug, lookupEnv)
			st.logResult = &result
			return nil
		},
		// Post-run hooks are skipped on error, so RunE closes the log file.
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() {
				if closeErr := st.logResult.Close(); err == nil {
					err = closeErr
				}
			}()

			agg, err := Execute(cmd.Context(), st.cfg, ExecuteOptions{
				SkipVersionCheck: flags.skipVersionCheck,
				Progress:         progressWriter(cmd, st.cfg, *flags),
			})
			if err != nil {
				return err
			}
			return Render(cmd, st.cfg, agg, flags.interactive)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML configuration file")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&flags.output, "output", "",
		"output format: plot or json (overrides output.format)")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "plain text output without colour")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "browse results in an interactive view")
	cmd.Flags().BoolVar(&flags.skipVersionCheck, "skip-version-check", false,
		"skip the detection capability version compatibility check")

	return cmd, st
}

// loadConfig builds the effective configuration: defaults, the --config file,
// then the positional location and output flags.
func loadConfig(cmd *cobra.Command, flags rootFlags, args []string) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, configError(err)
	}

	if len(args) > 0 {
		cfg = cfg.WithLocationOverride(args[0])
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = strings.ToLower(flags.output)
	}
	if flags.plain {
		cfg.Output.Plain = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

const rootCmdExample = `  # Process every numbered file in a directory
  hitfind data/run-7/

  # Process a single file
  hitfind data/run-7/12.dat

  # Use a configuration file and print the result as JSON
  hitfind --config hitfind.yaml --output json

  # Browse results interactively with debug logging
  hitfind data/run-7/ --interactive --debug`
