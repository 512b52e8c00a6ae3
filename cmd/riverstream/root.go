package main

import (
	"github.com/Apolynoid/riverstream/internal/rlog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootVerbose bool
	rootLogger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riverstream",
		Short: "Stream a CSV through an online Hoeffding-forest pipeline",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := rlog.New(rootVerbose)
			if err != nil {
				return err
			}
			rootLogger = logger
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable development (console, debug-level) logging")
	cmd.AddCommand(newRunCmd())
	return cmd
}

// Execute runs the riverstream command tree.
func Execute() error {
	return newRootCmd().Execute()
}
