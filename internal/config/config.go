package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultAPIBaseURL = "http://localhost:8000"

// Config is the resolved configuration. Precedence, lowest first:
// defaults, YAML file, environment (.env included), command line flags.
type Config struct {
	Dev         bool          `yaml:"dev"`
	LogPath     string        `yaml:"log_path"`
	APIBaseURL  string        `yaml:"api_base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	SessionPath string        `yaml:"session_path"`
	DownloadDir string        `yaml:"download_dir"`
	Mock        bool          `yaml:"mock"`
	MockAddr    string        `yaml:"mock_addr"`
	Ephemeral   bool          `yaml:"ephemeral"`
}

func Default() *Config {
	sessionPath := filepath.Join(".", ".loanchat", "session.db")
	if dir, err := os.UserConfigDir(); err == nil {
		sessionPath = filepath.Join(dir, "loanchat", "session.db")
	}
	return &Config{
		APIBaseURL:  DefaultAPIBaseURL,
		SessionPath: sessionPath,
		DownloadDir: "downloads",
		MockAddr:    "localhost:8000",
	}
}

// Load resolves the configuration from File, the environment and the parsed flags.
func Load() (*Config, error) {
	cfg := Default()

	if File != "" {
		if err := cfg.readFile(File); err != nil {
			return nil, err
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyFlags()

	if cfg.Mock && !explicit["api"] && os.Getenv("LOANCHAT_API_BASE_URL") == "" {
		cfg.APIBaseURL = "http://" + cfg.MockAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// VITE_API_BASE_URL is what the web front-end used; keep honouring it.
	c.APIBaseURL = getEnv("VITE_API_BASE_URL", c.APIBaseURL)
	c.APIBaseURL = getEnv("LOANCHAT_API_BASE_URL", c.APIBaseURL)
	c.SessionPath = getEnv("LOANCHAT_SESSION_PATH", c.SessionPath)
	c.DownloadDir = getEnv("LOANCHAT_DOWNLOAD_DIR", c.DownloadDir)
	c.LogPath = getEnv("LOANCHAT_LOG_PATH", c.LogPath)
	c.MockAddr = getEnv("LOANCHAT_MOCK_ADDR", c.MockAddr)
	c.Dev = getEnvBool("LOANCHAT_DEV", c.Dev)
	c.Mock = getEnvBool("LOANCHAT_MOCK", c.Mock)
	c.Timeout = getEnvDuration("LOANCHAT_TIMEOUT", c.Timeout)
}

func (c *Config) applyFlags() {
	if explicit["dev"] {
		c.Dev = Dev
	}
	if explicit["logPath"] {
		c.LogPath = LogPath
	}
	if explicit["api"] {
		c.APIBaseURL = APIBaseURL
	}
	if explicit["session"] {
		c.SessionPath = SessionPath
	}
	if explicit["downloads"] {
		c.DownloadDir = DownloadDir
	}
	if explicit["mock"] {
		c.Mock = Mock
	}
	if explicit["mockAddr"] {
		c.MockAddr = MockAddr
	}
	if explicit["ephemeral"] {
		c.Ephemeral = Ephemeral
	}
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url %q must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api base url %q has no host", c.APIBaseURL)
	}
	if !c.Ephemeral && c.SessionPath == "" {
		return fmt.Errorf("session path cannot be empty")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("download dir cannot be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.Mock && c.MockAddr == "" {
		return fmt.Errorf("mock address cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
