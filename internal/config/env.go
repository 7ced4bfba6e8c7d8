package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overlays PETD_* variables, and the providers' conventional key variables, onto c.
func (c *Config) ApplyEnv() {
	if v, ok := getEnvString("PETD_DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := getEnvString("PETD_DEVICE_KEY"); ok {
		c.DeviceKey = v
	}
	if v, ok := getEnvString("PETD_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := getEnvString("PETD_STORAGE_BACKEND"); ok {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("PETD_SQLITE_PATH"); ok {
		c.Storage.SQLitePath = v
	}
	if v, ok := getEnvString("PETD_FILE_DIR"); ok {
		c.Storage.FileDir = v
	}
	if v, ok := getEnvBool("PETD_STORAGE_WATCH"); ok {
		c.Storage.Watch = v
	}
	if v, ok := getEnvString("PETD_REDIS_ADDR"); ok {
		c.Storage.Redis.Addr = v
	}
	if v, ok := getEnvString("PETD_REDIS_PASSWORD"); ok {
		c.Storage.Redis.Password = v
	}
	if v, ok := getEnvInt("PETD_REDIS_DB"); ok && v >= 0 {
		c.Storage.Redis.DB = v
	}
	if v, ok := getEnvDuration("PETD_DECAY_INTERVAL"); ok && v > 0 {
		c.Routine.DecayInterval = v
	}
	if v, ok := getEnvBool("PETD_REMINDERS"); ok {
		c.Routine.Reminders = v
	}
	if v, ok := getEnvInt("PETD_SCHEDULER_BUFFER"); ok && v > 0 {
		c.Routine.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("PETD_FLAVOR_ENABLED"); ok {
		c.Flavor.Enabled = v
	}
	if v, ok := getEnvDuration("PETD_FLAVOR_TIMEOUT"); ok && v > 0 {
		c.Flavor.Timeout = v
	}
	if v, ok := getEnvString("PETD_GEMINI_API_KEY", "GEMINI_API_KEY"); ok {
		c.Flavor.Gemini.APIKey = v
	}
	if v, ok := getEnvString("PETD_OPENAI_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"); ok {
		c.Flavor.OpenAI.APIKey = v
	}
	if v, ok := getEnvString("PETD_OPENAI_BASE_URL"); ok {
		c.Flavor.OpenAI.BaseURL = v
	}
	if v, ok := getEnvString("PETD_OPENAI_MODEL"); ok {
		c.Flavor.OpenAI.Model = v
	}
	if v, ok := getEnvString("PETD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"); ok {
		c.Flavor.Anthropic.APIKey = v
	}
	if v, ok := getEnvString("PETD_OLLAMA_URL", "OLLAMA_HOST"); ok {
		c.Flavor.Ollama.URL = v
	}
	if v, ok := getEnvBool("PETD_POLLINATIONS"); ok {
		c.Flavor.Pollinations.Enabled = v
	}
	if v, ok := getEnvString("PETD_NATS_URL"); ok {
		c.Events.NATSURL = v
	}
	if v, ok := getEnvString("PETD_METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
}

// getEnvString returns the first non-empty variable among names.
func getEnvString(names ...string) (string, bool) {
	for _, name := range names {
		if raw := strings.TrimSpace(os.Getenv(name)); raw != "" {
			return raw, true
		}
	}
	return "", false
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
