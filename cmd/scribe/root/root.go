package root

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flarebyte/scribe/cmd/scribe/diagnose"
	"github.com/flarebyte/scribe/cmd/scribe/functions"
	"github.com/flarebyte/scribe/cmd/scribe/run"
	"github.com/flarebyte/scribe/cmd/scribe/version"
	"github.com/flarebyte/scribe/internal/logging"
)

const envPrefix = "SCRIBE"

// Settings keys; with the env prefix they map to SCRIBE_LOG_JSON and
// SCRIBE_LOG_LEVEL.
const (
	keyLogJSON  = "log_json"
	keyLogLevel = "log_level"
)

// NewRootCmd creates the root command for scribe.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault(keyLogLevel, "warn")

	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "Annotate documents with configurable extract, annotate and post stage functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Initialize(v.GetBool(keyLogJSON), v.GetString(keyLogLevel))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.Bool("log-json", false, "Emit logs as JSON (env SCRIBE_LOG_JSON)")
	pf.String("log-level", "warn", "Log level: debug|info|warn|error (env SCRIBE_LOG_LEVEL)")
	_ = v.BindPFlag(keyLogJSON, pf.Lookup("log-json"))
	_ = v.BindPFlag(keyLogLevel, pf.Lookup("log-level"))

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(run.NewCmd())
	cmd.AddCommand(diagnose.NewCmd())
	cmd.AddCommand(functions.NewCmd())

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
