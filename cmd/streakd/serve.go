package main

import (
	"streakd/internal/di"
	"streakd/internal/structures"

	"github.com/spf13/cobra"
)

var serveFlags structures.CliFlags

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.ConfigPath, "config", "c", "config/config.yaml", "Path to the YAML config file")
	serveCmd.Flags().BoolVarP(&serveFlags.DebugMode, "debug", "d", false, "Mirror logs to stdout")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP daemon",
	Long:  "Serve profiles, calendars and leaderboards, refreshing platform calendars on a schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := di.InitApp(&serveFlags)
		return err
	},
}
