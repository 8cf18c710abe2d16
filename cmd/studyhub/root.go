package main

import (
	"github.com/spf13/cobra"

	"studyhub/backend/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "studyhub",
		Short:         "StudyHub study dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	loadConfig := func() (config.Config, error) {
		if configFlag != "" {
			return config.LoadFile(configFlag)
		}
		return config.Load(), nil
	}

	rootCmd.AddCommand(newServeCommand(loadConfig))
	rootCmd.AddCommand(newMigrateCommand(loadConfig))
	rootCmd.AddCommand(newStatsCommand(loadConfig))

	return rootCmd
}
