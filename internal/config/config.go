package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Backend names accepted in AI_BACKEND.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

const defaultDBName = "pal_budget.db"

// AIConfig holds the process-wide AI knobs. All fields are read once at
// startup and never mutated afterwards.
type AIConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	VisionModel string
	UseOllama   bool
	OllamaBase  string
	Backend     string
}

// Enabled reports whether any AI path may be attempted at all. Without a key,
// a local-inference mode, or an explicit Gemini backend the engine is
// rule-based only.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" || c.UseOllama || c.Backend == BackendGemini
}

// VisionEnabled reports whether receipt scanning may call the vision model.
// The local Ollama mode is text-only.
func (c AIConfig) VisionEnabled() bool {
	return c.APIKey != "" || c.Backend == BackendGemini
}

// Config is the full application configuration.
type Config struct {
	Port         string
	DatabasePath string
	AI           AIConfig
}

// Load reads configuration from the environment with deployment defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("ai_api_base", "https://api.siliconflow.cn/v1")
	v.SetDefault("ai_model", "Qwen/Qwen2.5-7B-Instruct")
	v.SetDefault("ai_vision_model", "Qwen/Qwen3-VL-32B-Instruct")
	v.SetDefault("use_ollama", false)
	v.SetDefault("ollama_api_base", "http://localhost:11434/v1")
	v.SetDefault("ai_backend", BackendOpenAI)

	for _, key := range []string{
		"port", "database_path", "database_dir",
		"ai_api_key", "ai_api_base", "ai_model", "ai_vision_model",
		"use_ollama", "ollama_api_base", "ai_backend",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	dbPath, err := resolveDatabasePath(v.GetString("database_path"), v.GetString("database_dir"))
	if err != nil {
		return nil, fmt.Errorf("config: resolve database path: %w", err)
	}

	cfg := &Config{
		Port:         v.GetString("port"),
		DatabasePath: dbPath,
		AI: AIConfig{
			APIKey:      v.GetString("ai_api_key"),
			APIBase:     v.GetString("ai_api_base"),
			Model:       v.GetString("ai_model"),
			VisionModel: v.GetString("ai_vision_model"),
			UseOllama:   v.GetBool("use_ollama"),
			OllamaBase:  v.GetString("ollama_api_base"),
			Backend:     v.GetString("ai_backend"),
		},
	}
	return cfg, nil
}

// resolveDatabasePath picks an absolute location for the bolt file. An
// explicit path wins; otherwise the first writable directory of
// {DATABASE_DIR, /app/data (persistent disk), cwd} is used.
func resolveDatabasePath(explicit, dir string) (string, error) {
	if explicit != "" {
		if parent := filepath.Dir(explicit); parent != "" {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return "", err
			}
		}
		return filepath.Abs(explicit)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{dir, "/app/data", cwd} {
		if candidate == "" {
			continue
		}
		if err := os.MkdirAll(candidate, 0o755); err != nil {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		return filepath.Abs(filepath.Join(candidate, defaultDBName))
	}
	return filepath.Abs(defaultDBName)
}
