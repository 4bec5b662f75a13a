package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ocfkit/svcagent"
)

// GlobalFlags holds the persistent flags shared by both resource commands.
// Everything else arrives via the cluster manager's OCF_RESKEY_ environment
// parameters.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// buildRoot creates the command tree. The returned int receives the action's
// result code; cobra errors (bad arguments) are reported separately by main.
func buildRoot() (*cobra.Command, *int) {
	gf := &GlobalFlags{}
	exit := new(int)

	root := &cobra.Command{
		Use:           "svcagent",
		Short:         "HA resource agents for the clustered application service and its storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&gf.ConfigPath, "config", "",
		"defaults file (TOML); OCF_RESKEY_* environment parameters override it")
	root.PersistentFlags().BoolVar(&gf.Verbose, "verbose", false, "enable debug logging")

	root.AddCommand(
		newResourceCmd(svcagent.KindService, "primary service resource agent", gf, exit),
		newResourceCmd(svcagent.KindStorage, "attached storage resource agent", gf, exit),
	)
	return root, exit
}

func newResourceCmd(kind svcagent.Kind, short string, gf *GlobalFlags, exit *int) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " {start|stop|status|monitor|validate-all|meta-data|usage}",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := svcagent.LoadConfig(gf.ConfigPath)
			if err != nil {
				return err
			}
			level := slog.LevelInfo
			if gf.Verbose {
				level = slog.LevelDebug
			}
			log := svcagent.NewLogger(level, cfg.AgentLog).With(
				"resource", string(kind), "instance", cfg.Name)
			*exit = int(svcagent.Run(kind, args[0], cfg, log, cmd.OutOrStdout()))
			return nil
		},
	}
}
