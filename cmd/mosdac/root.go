package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mosdac/internal/api"
	"mosdac/internal/auth"
	"mosdac/internal/chatsync"
	"mosdac/internal/config"
	"mosdac/internal/downloads"
	"mosdac/internal/i18n"
	"mosdac/internal/session"
	"mosdac/internal/store"
)

var (
	flagConfig  string
	flagBaseURL string
	flagStore   string

	version string = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mosdac",
	Short: "Chat with the MOSDAC satellite-data assistant and manage dataset downloads",
	Long: `A client for the MOSDAC assistant backend.

Ask questions about ISRO satellite data products, keep a persistent
conversation across invocations, and queue dataset downloads that the
backend prepares asynchronously.

Quick Start:
  mosdac register --email you@example.com   # Create an account
  mosdac login --email you@example.com      # Obtain a bearer token
  mosdac chat                               # Interactive chat (REPL)
  mosdac dash                               # Full-screen dashboard
  mosdac download start --dataset 3DIMG_L1B # Queue a dataset download`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config file (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage backend: file or sqlite (overrides config)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// appDeps is everything a subcommand needs, assembled once per invocation.
// The storage backend is chosen here; nothing downstream branches on it.
type appDeps struct {
	Config   config.Config
	Store    store.Store
	Creds    *auth.Credentials
	Sessions *session.Manager
	Client   *api.Client
	Sync     *chatsync.Synchronizer
	Tracker  *downloads.Tracker
}

func (d *appDeps) Close() {
	if d.Store != nil {
		_ = d.Store.Close()
	}
}

func buildDeps() (*appDeps, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.Server.BaseURL = flagBaseURL
	}
	if flagStore != "" {
		cfg.Storage.Backend = flagStore
	}

	i18n.Init(cfg.Locale)

	var st store.Store
	switch cfg.Storage.Backend {
	case "sqlite":
		st, err = store.NewSQLiteStore(filepath.Join(cfg.Storage.BaseDir, "mosdac.db"))
	default:
		st, err = store.NewFileStore(filepath.Join(cfg.Storage.BaseDir, "state"))
	}
	if err != nil {
		return nil, err
	}

	creds := auth.NewCredentials(st)
	sessions := session.NewManager(st, time.Duration(cfg.Session.TTLHours)*time.Hour)
	client := api.NewClient(cfg.Server, creds)

	return &appDeps{
		Config:   cfg,
		Store:    st,
		Creds:    creds,
		Sessions: sessions,
		Client:   client,
		Sync:     chatsync.New(client, sessions),
		Tracker:  downloads.NewTracker(client, cfg.Downloads.HistoryLimit),
	}, nil
}

// historyFilePath is where the REPL keeps its readline history.
func historyFilePath(cfg config.Config) string {
	return filepath.Join(cfg.Storage.BaseDir, "history", "repl_history")
}

func pollInterval(cfg config.Config) time.Duration {
	return time.Duration(cfg.Downloads.PollIntervalMS) * time.Millisecond
}
