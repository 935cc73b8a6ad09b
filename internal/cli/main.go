// Package cli wires configuration, stores and services into the smartclip
// commands.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SravanthiSinha/SmartClip/config"
)

// runtime is shared by every subcommand once the root pre-run has loaded it.
type runtime struct {
	cfg *config.Config
	log *logrus.Logger
}

func Main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the smartclip command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:          "smartclip",
		Short:        "Turn uploaded videos into highlight clips",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.LogLevel = lvl
			}
			rt.cfg = cfg
			rt.log = config.NewLogger(cfg.LogLevel)
			return nil
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("log-level", "", "Override LOG_LEVEL")

	root.AddCommand(
		newServeCommand(rt),
		newReconcileCommand(rt),
		newClearDBCommand(rt),
		newTranscriptCommand(rt),
	)
	return root
}
