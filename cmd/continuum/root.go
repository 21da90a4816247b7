package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var rootFlag string
	var configFlag string
	var verbose bool

	ctx := newCommandContext(&rootFlag, &configFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "continuum",
		Short:         "Session continuity and human review queue for agent workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror logs to stderr")

	for _, cmd := range newReviewCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHookCommand(ctx))

	return rootCmd
}
