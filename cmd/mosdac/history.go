package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mosdac/internal/api"
	"mosdac/internal/chat"
	"mosdac/internal/export"
	"mosdac/internal/i18n"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the stored conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Sync.LoadHistory(cmd.Context()); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		userLabel := color.New(color.FgCyan, color.Bold).SprintFunc()
		for _, msg := range deps.Sync.Messages() {
			if msg.Role == chat.RoleUser {
				fmt.Printf("%s %s\n", userLabel("You:"), msg.Content)
				continue
			}
			fmt.Println(msg.Content)
			for _, src := range msg.Sources {
				fmt.Printf("  - %s %s\n", src.Title, src.URL)
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the backend conversation and start a fresh session",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Sync.ClearHistory(cmd.Context()); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		color.Green(i18n.T("repl.cleared"))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation as json, yaml or markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Sync.LoadHistory(cmd.Context()); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		exporter, err := export.NewExporter(flagExportFormat)
		if err != nil {
			return err
		}

		path := flagExportOutput
		if path == "" {
			path = fmt.Sprintf("transcript.%s", exporter.Extension())
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		sid, _ := deps.Sessions.CurrentID()
		t := &export.Transcript{
			SessionID:  sid,
			ExportedAt: time.Now().Format(time.RFC3339),
			Messages:   deps.Sync.Messages(),
		}
		if err := exporter.Export(t, f); err != nil {
			return err
		}
		color.Green(i18n.T("cli.saved", path))
		return nil
	},
}

func init() {
	historyExportCmd.Flags().StringVar(&flagExportFormat, "format", "md", "Export format: json, yaml or md")
	historyExportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output path (default transcript.<ext>)")
	historyCmd.AddCommand(historyClearCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
