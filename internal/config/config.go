package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ConfigPathEnv = "OCENA_CONFIG"

	placeholderAPIKey = "your_api_key_here"
)

// Config holds everything the service and the CLI need.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Grader   GraderConfig   `yaml:"grader"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Ollama   OllamaConfig   `yaml:"ollama"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig covers upload validation and where accepted files are kept.
type StorageConfig struct {
	UploadsDir        string      `yaml:"uploadsDir"`
	MaxFileSize       int64       `yaml:"maxFileSize"`
	AllowedExtensions []string    `yaml:"allowedExtensions"`
	Archive           string      `yaml:"archive"`
	MinIO             MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type GraderConfig struct {
	Provider         string        `yaml:"provider"`
	Timeout          time.Duration `yaml:"timeout"`
	Workers          int           `yaml:"workers"`
	WordsPerQuestion int           `yaml:"wordsPerQuestion"`
}

type OpenAIConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

type GeminiConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
}

type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			UploadsDir:        "uploads",
			MaxFileSize:       5 * 1024 * 1024,
			AllowedExtensions: []string{"doc", "docx", "pdf", "txt"},
			Archive:           "local",
			MinIO:             MinIOConfig{Bucket: "ocena-uploads"},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "database/submissions.sqlite",
		},
		Grader: GraderConfig{
			Provider:         "openai",
			Timeout:          30 * time.Second,
			WordsPerQuestion: 240,
		},
		OpenAI: OpenAIConfig{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o",
			Temperature: 0.3,
			MaxTokens:   800,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.3,
		},
		Ollama: OllamaConfig{
			URL:   "http://127.0.0.1:11434/api/generate",
			Model: "llama3",
		},
	}
}

// Load reads .env (if present), the YAML file at path (or $OCENA_CONFIG),
// then applies environment overrides. An empty path with no env var yields
// defaults plus overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.Server.Addr, "OCENA_ADDR")
	setString(&c.Log.Level, "OCENA_LOG_LEVEL")
	setString(&c.Storage.UploadsDir, "OCENA_UPLOADS_DIR")
	setString(&c.Storage.Archive, "OCENA_ARCHIVE")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.Grader.Provider, "OCENA_PROVIDER")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "OCENA_MODEL")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Ollama.URL, "OLLAMA_URL")
	setString(&c.Storage.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Storage.MinIO.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.MinIO.Bucket, "MINIO_BUCKET")

	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.MinIO.UseSSL = b
		}
	}
	if v := os.Getenv("OCENA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Grader.Workers = n
		}
	}
}

func (c *Config) normalize() {
	if c.OpenAI.APIKey == placeholderAPIKey {
		c.OpenAI.APIKey = ""
	}
	c.Grader.Provider = strings.ToLower(strings.TrimSpace(c.Grader.Provider))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	exts := make([]string, 0, len(c.Storage.AllowedExtensions))
	for _, e := range c.Storage.AllowedExtensions {
		if e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), ".")); e != "" {
			exts = append(exts, e)
		}
	}
	c.Storage.AllowedExtensions = exts
}
