// Package config loads petd settings from defaults, a YAML file and PETD_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/petd/internal/model"
)

// Config is the complete petd configuration.
type Config struct {
	DataDir   string        `yaml:"data_dir"`
	DeviceKey string        `yaml:"device_key"`
	LogLevel  string        `yaml:"log_level"`
	Storage   StorageConfig `yaml:"storage"`
	Routine   RoutineConfig `yaml:"routine"`
	Flavor    FlavorConfig  `yaml:"flavor"`
	Events    EventsConfig  `yaml:"events"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

type StorageConfig struct {
	// Backend is one of sqlite, file, redis, memory.
	Backend    string      `yaml:"backend"`
	SQLitePath string      `yaml:"sqlite_path"`
	FileDir    string      `yaml:"file_dir"`
	Redis      RedisConfig `yaml:"redis"`
	// Watch reloads the TUI when another process writes the store.
	Watch bool `yaml:"watch"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type RoutineConfig struct {
	DecayInterval   time.Duration  `yaml:"decay_interval"`
	Reminders       bool           `yaml:"reminders"`
	SchedulerBuffer int            `yaml:"scheduler_buffer"`
	Tasks           []model.Task   `yaml:"tasks"`
	Actions         []model.Action `yaml:"actions"`
}

type FlavorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Timeout  time.Duration `yaml:"timeout"`
	Language string        `yaml:"language"`
	// Text and Image list provider names in the order they are tried.
	Text         []string           `yaml:"text"`
	Image        []string           `yaml:"image"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Anthropic    AnthropicConfig    `yaml:"anthropic"`
	Ollama       OllamaConfig       `yaml:"ollama"`
	Pollinations PollinationsConfig `yaml:"pollinations"`
}

type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

// OpenAIConfig targets any OpenAI-compatible chat endpoint; the default is Groq.
type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

type PollinationsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TextURL    string `yaml:"text_url"`
	ImageURL   string `yaml:"image_url"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultDataDir is ~/.local/share/petd, or ./.petd when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".petd"
	}
	return filepath.Join(home, ".local", "share", "petd")
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		Storage: StorageConfig{
			Backend: "sqlite",
			Watch:   true,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "petd:state:",
			},
		},
		Routine: RoutineConfig{
			DecayInterval:   time.Minute,
			Reminders:       true,
			SchedulerBuffer: 64,
		},
		Flavor: FlavorConfig{
			Enabled:  true,
			Timeout:  20 * time.Second,
			Language: "English",
			Text:     []string{"openai", "gemini", "anthropic", "ollama", "pollinations"},
			Image:    []string{"gemini", "pollinations"},
			Gemini: GeminiConfig{
				TextModel:  "gemini-2.5-flash",
				ImageModel: "gemini-2.5-flash-image",
			},
			OpenAI: OpenAIConfig{
				BaseURL:     "https://api.groq.com/openai/v1",
				Model:       "llama-3.3-70b-versatile",
				Temperature: 0.8,
				MaxTokens:   600,
			},
			Anthropic: AnthropicConfig{
				Model:     "claude-3-5-haiku-latest",
				MaxTokens: 600,
			},
			Ollama: OllamaConfig{
				Model: "llama3.2",
			},
			Pollinations: PollinationsConfig{
				Enabled:    true,
				TextURL:    "https://text.pollinations.ai",
				ImageURL:   "https://image.pollinations.ai/prompt",
				TextModel:  "openai",
				ImageModel: "flux",
			},
		},
		Events: EventsConfig{
			SubjectPrefix: "petd",
		},
	}
}

var knownProviders = map[string]bool{
	"gemini": true, "openai": true, "anthropic": true, "ollama": true, "pollinations": true,
}

var imageProviders = map[string]bool{"gemini": true, "pollinations": true}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case "sqlite", "file", "memory":
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of sqlite, file, redis, memory", c.Storage.Backend)
	}
	if c.Routine.DecayInterval <= 0 {
		return fmt.Errorf("routine.decay_interval must be positive")
	}
	if c.Routine.SchedulerBuffer <= 0 {
		return fmt.Errorf("routine.scheduler_buffer must be positive")
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("routine.tasks: %w", err)
	}
	if _, err := c.ActionCatalog(); err != nil {
		return fmt.Errorf("routine.actions: %w", err)
	}
	if c.Flavor.Timeout <= 0 {
		return fmt.Errorf("flavor.timeout must be positive")
	}
	for _, name := range c.Flavor.Text {
		if !knownProviders[name] {
			return fmt.Errorf("flavor.text: unknown provider %q", name)
		}
	}
	for _, name := range c.Flavor.Image {
		if !imageProviders[name] {
			return fmt.Errorf("flavor.image: provider %q cannot generate images", name)
		}
	}
	if c.Flavor.OpenAI.Temperature < 0 || c.Flavor.OpenAI.Temperature > 2 {
		return fmt.Errorf("flavor.openai.temperature must be between 0 and 2")
	}
	return nil
}

// Catalog builds the task catalog, falling back to the built-in routine when none is configured.
func (c *Config) Catalog() (*model.Catalog, error) {
	if len(c.Routine.Tasks) == 0 {
		return model.DefaultCatalog(), nil
	}
	return model.NewCatalog(c.Routine.Tasks)
}

func (c *Config) ActionCatalog() (*model.ActionCatalog, error) {
	if len(c.Routine.Actions) == 0 {
		return model.DefaultActionCatalog(), nil
	}
	return model.NewActionCatalog(c.Routine.Actions)
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolvePaths fills storage paths left empty with locations under DataDir.
func (c *Config) ResolvePaths() {
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.DataDir, "petd.db")
	}
	if c.Storage.FileDir == "" {
		c.Storage.FileDir = filepath.Join(c.DataDir, "state")
	}
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "petd.log")
}
