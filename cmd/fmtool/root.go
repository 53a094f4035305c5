package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/fmtool/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool

	// logger replaces the configured logger; tests set it.
	logger *logger.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&globalFlags{})
}

func newRootCmdWith(g *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "fmtool",
		Short: "Plan and run function module migrations from a lineage extract",
		Long: `fmtool reads a lineage extract of "PARENT -> CHILD [KIND]" lines, orders
the function modules it names into dependency layers, and dispatches each one
to a registered handler or a documented pointer note.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: search ./cmd/fmtool, ./config, .)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newGraphCmd(g),
		newPlanCmd(g),
		newScaffoldCmd(g),
		newValidateCmd(g),
		newTestCmd(g),
		newRunCmd(g),
		newLayersCmd(g),
		newVersionCmd(),
	)
	return root
}
