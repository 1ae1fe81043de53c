package cmd

import (
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "repairstats",
		Short: "Aggregate program-repair experiment results into summary and LaTeX tables",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logLevel, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults apply when empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newAnalyseCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}
