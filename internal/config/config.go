package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ServerConfig 后端 HTTP API 配置 / ServerConfig configures the backend HTTP API
type ServerConfig struct {
	BaseURL   string `json:"base_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// SessionConfig 会话身份配置 / SessionConfig configures the session identity
type SessionConfig struct {
	TTLHours int `json:"ttl_hours"`
}

// DownloadsConfig 下载任务视图配置 / DownloadsConfig configures the downloads view
type DownloadsConfig struct {
	// PollIntervalMS 是任务列表的轮询间隔；轮询由界面持有的定时器驱动。
	// PollIntervalMS is the job-list polling cadence; the owning view drives the timer.
	PollIntervalMS int `json:"poll_interval_ms"`
	HistoryLimit   int `json:"history_limit"`
}

// StorageConfig 本地持久化配置 / StorageConfig configures local persistence
type StorageConfig struct {
	// Backend 为 "file" 或 "sqlite"，在组装阶段选定，核心逻辑不感知差异。
	// Backend is "file" or "sqlite", chosen at composition time; the core
	// never branches on it.
	Backend string `json:"backend"`
	BaseDir string `json:"base_dir"`
}

type Config struct {
	Server    ServerConfig    `json:"server"`
	Session   SessionConfig   `json:"session"`
	Downloads DownloadsConfig `json:"downloads"`
	Storage   StorageConfig   `json:"storage"`
	Locale    string          `json:"locale"`
}

type fileConfig struct {
	Server    *ServerConfig    `json:"server"`
	Session   *SessionConfig   `json:"session"`
	Downloads *DownloadsConfig `json:"downloads"`
	Storage   *StorageConfig   `json:"storage"`
	Locale    *string          `json:"locale"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:   "http://localhost:8000",
			TimeoutMS: 30000,
		},
		Session: SessionConfig{
			TTLHours: 24,
		},
		Downloads: DownloadsConfig{
			PollIntervalMS: 5000,
			HistoryLimit:   20,
		},
		Storage: StorageConfig{
			Backend: "file",
			BaseDir: "~/.mosdac",
		},
	}
}

// Load 按 默认值 → 全局配置 → 项目配置 → 环境变量 的顺序合并配置。
// Load merges configuration in the order: defaults → global file → project
// file → environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if global := globalConfigPath(); global != "" {
		if err := mergeFromFile(&cfg, global); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("MOSDAC_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mosdac", "config.json")
}

func findProjectConfigPath() string {
	candidates := []string{
		"mosdac.config.json",
		".mosdac/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fc fileConfig
	if err := json.Unmarshal(cleaned, &fc); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fc)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Server != nil {
		if strings.TrimSpace(fc.Server.BaseURL) != "" {
			cfg.Server.BaseURL = fc.Server.BaseURL
		}
		if fc.Server.TimeoutMS > 0 {
			cfg.Server.TimeoutMS = fc.Server.TimeoutMS
		}
	}
	if fc.Session != nil && fc.Session.TTLHours > 0 {
		cfg.Session.TTLHours = fc.Session.TTLHours
	}
	if fc.Downloads != nil {
		if fc.Downloads.PollIntervalMS > 0 {
			cfg.Downloads.PollIntervalMS = fc.Downloads.PollIntervalMS
		}
		if fc.Downloads.HistoryLimit > 0 {
			cfg.Downloads.HistoryLimit = fc.Downloads.HistoryLimit
		}
	}
	if fc.Storage != nil {
		if strings.TrimSpace(fc.Storage.Backend) != "" {
			cfg.Storage.Backend = fc.Storage.Backend
		}
		if strings.TrimSpace(fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = fc.Storage.BaseDir
		}
	}
	if fc.Locale != nil && strings.TrimSpace(*fc.Locale) != "" {
		cfg.Locale = *fc.Locale
	}
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("MOSDAC_BASE_URL")); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MOSDAC_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MOSDAC_TIMEOUT_MS: %q", v)
		}
		cfg.Server.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("MOSDAC_STORE")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("MOSDAC_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MOSDAC_LOCALE")); v != "" {
		cfg.Locale = v
	}
	return nil
}

func normalize(cfg *Config) error {
	def := Default()

	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = def.Server.BaseURL
	}
	if cfg.Server.TimeoutMS <= 0 {
		cfg.Server.TimeoutMS = def.Server.TimeoutMS
	}
	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = def.Session.TTLHours
	}
	if cfg.Downloads.PollIntervalMS <= 0 {
		cfg.Downloads.PollIntervalMS = def.Downloads.PollIntervalMS
	}
	if cfg.Downloads.HistoryLimit <= 0 {
		cfg.Downloads.HistoryLimit = def.Downloads.HistoryLimit
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch backend {
	case "", "file":
		cfg.Storage.Backend = "file"
	case "sqlite":
		cfg.Storage.Backend = "sqlite"
	default:
		return fmt.Errorf("unknown storage backend %q (want file or sqlite)", cfg.Storage.Backend)
	}

	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if baseDir == "" {
		baseDir, err = expandPath(def.Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = baseDir
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}
