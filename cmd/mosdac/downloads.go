package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mosdac/internal/api"
	"mosdac/internal/downloads"
	"mosdac/internal/i18n"
)

var (
	flagDataset     string
	flagMosdacUser  string
	flagMosdacPass  string
	flagJobStatus   string
	flagJobLimit    int
	flagWatch       bool
	flagFetchOutput string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Queue and track dataset downloads",
}

var downloadStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Queue a dataset download on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		res := deps.Tracker.StartDownload(cmd.Context(), downloads.Request{
			DatasetID: flagDataset,
			Username:  flagMosdacUser,
			Password:  flagMosdacPass,
		})
		if !res.OK {
			return fmt.Errorf("%s", res.Message)
		}
		color.Green(i18n.T("cli.download_ok"))
		for _, job := range deps.Tracker.Jobs() {
			printJob(job)
		}
		return nil
	},
}

var downloadListCmd = &cobra.Command{
	Use:   "list",
	Short: "List download jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		for {
			jobs, err := deps.Client.DownloadHistory(cmd.Context(), api.HistoryFilter{
				Status: flagJobStatus,
				Limit:  jobLimit(deps),
			})
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			if len(jobs) == 0 {
				fmt.Println(i18n.T("downloads.empty"))
				return nil
			}
			for _, job := range jobs {
				printJob(job)
			}
			if !flagWatch || !downloads.AnyActive(jobs) {
				return nil
			}
			fmt.Println()
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(pollInterval(deps.Config)):
			}
		}
	},
}

var downloadStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show one download job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job id %q", args[0])
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		job, err := deps.Tracker.Status(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		printJob(job)
		return nil
	},
}

var downloadFetchCmd = &cobra.Command{
	Use:   "fetch <job-id>",
	Short: "Save a completed job's archive to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job id %q", args[0])
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		path := flagFetchOutput
		if path == "" {
			path = fmt.Sprintf("mosdac_job_%d.zip", id)
		}
		if err := deps.Tracker.SaveFile(cmd.Context(), id, path); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		color.Green(i18n.T("cli.saved", path))
		return nil
	},
}

func jobLimit(deps *appDeps) int {
	if flagJobLimit > 0 {
		return flagJobLimit
	}
	return deps.Config.Downloads.HistoryLimit
}

func printJob(job api.Job) {
	status := downloads.Status(job.Status)
	label := status.Label()
	switch {
	case status.Succeeded():
		label = color.GreenString(label)
	case status.Terminal():
		label = color.RedString(label)
	default:
		label = color.YellowString(label)
	}

	line := fmt.Sprintf("%s  %s", i18n.T("downloads.job", job.ID), label)
	if job.CreatedAt != "" {
		line += "  " + job.CreatedAt
	}
	fmt.Println(line)
	if status.Succeeded() && job.FilePath != "" {
		fmt.Printf("    %s\n", i18n.T("downloads.file_ready"))
	}
	if status.Terminal() && !status.Succeeded() && job.ErrorMessage != "" {
		fmt.Printf("    %s\n", color.RedString(job.ErrorMessage))
	}
}

func init() {
	downloadStartCmd.Flags().StringVar(&flagDataset, "dataset", "", "Dataset id to download")
	downloadStartCmd.Flags().StringVar(&flagMosdacUser, "username", "", "MOSDAC portal username")
	downloadStartCmd.Flags().StringVar(&flagMosdacPass, "password", "", "MOSDAC portal password")

	downloadListCmd.Flags().StringVar(&flagJobStatus, "status", "", "Filter by job status")
	downloadListCmd.Flags().IntVar(&flagJobLimit, "limit", 0, "Maximum jobs to list (default from config)")
	downloadListCmd.Flags().BoolVar(&flagWatch, "watch", false, "Keep polling until no job is active")

	downloadFetchCmd.Flags().StringVarP(&flagFetchOutput, "output", "o", "", "Output path (default mosdac_job_<id>.zip)")

	downloadCmd.AddCommand(downloadStartCmd, downloadListCmd, downloadStatusCmd, downloadFetchCmd)
	rootCmd.AddCommand(downloadCmd)
}
