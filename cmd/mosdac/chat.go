package main

import (
	"github.com/spf13/cobra"

	"mosdac/internal/repl"
	"mosdac/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the assistant (line-based REPL)",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		loop := repl.New(repl.Deps{
			Sync:        deps.Sync,
			Sessions:    deps.Sessions,
			Creds:       deps.Creds,
			HistoryPath: historyFilePath(deps.Config),
		})
		return loop.Run(cmd.Context())
	},
}

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Full-screen dashboard with chat and download panels",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		return tui.Run(tui.Deps{
			Sync:      deps.Sync,
			Tracker:   deps.Tracker,
			Sessions:  deps.Sessions,
			Creds:     deps.Creds,
			BaseURL:   deps.Config.Server.BaseURL,
			PollEvery: pollInterval(deps.Config),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, dashCmd)
}
