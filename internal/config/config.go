package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Later sources win:
// defaults, the config file, CAREERASSIST_* variables, then Vault.
// GEMINI_API_KEY is read only when no key is set elsewhere.
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Document      DocumentConfig      `mapstructure:"document"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// DocumentConfig holds the extraction thresholds for the parse pipeline
type DocumentConfig struct {
	// Minimum text-layer words before a PDF is sent to OCR
	PDFMinWords int `mapstructure:"pdfMinWords" validate:"gte=1"`
	// Minimum trimmed characters for a DOCX to count as non-empty
	DOCXMinChars int `mapstructure:"docxMinChars" validate:"gte=1"`
	// Minimum trimmed characters accepted from OCR
	OCRMinChars int `mapstructure:"ocrMinChars" validate:"gte=1"`

	MaxUploadSize int64 `mapstructure:"maxUploadSize" validate:"gt=0"`
	OCREnabled    bool  `mapstructure:"ocrEnabled"`
	WatchPrompts  bool  `mapstructure:"watchPrompts"`
	Concurrency   int   `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

// AppConfig covers CLI output and input limits
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel" validate:"oneof=debug info warn error"`
	DefaultFormat    string   `mapstructure:"defaultFormat" validate:"required"`
	SupportedFormats []string `mapstructure:"supportedFormats" validate:"min=1"`
	MaxFileSize      int64    `mapstructure:"maxFileSize" validate:"gt=0"`
}

var searchPaths = []string{"/etc/careerassist/", "$HOME/.careerassist", "."}

// LoadConfig searches the standard paths for config.yaml. A missing file is
// not an error.
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range searchPaths {
		v.AddConfigPath(path)
	}

	source := ""
	err := v.ReadInConfig()
	switch {
	case err == nil:
		source = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", source)
	case isNotFound(err):
		log.Printf("[CONFIG] No config file in %s, using defaults and environment variables",
			strings.Join(searchPaths, ", "))
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return finishLoading(v, source)
}

// LoadConfigFromFile reads an explicit YAML file. Environment variables still
// override its values.
func LoadConfigFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	log.Printf("[CONFIG] Successfully loaded config file: %s", path)
	return finishLoading(v, path)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

// finishLoading resolves fallbacks and secrets, loads prompt files, then
// validates the result
func finishLoading(v *viper.Viper, source string) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyFallbacks()

	if cfg.Vault.Enabled {
		if err := ApplyVaultSecrets(cfg, vaultLogger(cfg.App.LogLevel)); err != nil {
			return nil, err
		}
		log.Println("[CONFIG] Applied secrets from Vault")
	}

	cfg.logConfigurationSources(source)

	if err := cfg.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}
	if err := cfg.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return cfg, nil
}

// vaultLogger writes to stderr so secret loading never mixes with command output
func vaultLogger(level string) *errors.Logger {
	slogLevel := slog.LevelInfo
	if level == "debug" {
		slogLevel = slog.LevelDebug
	}
	return errors.NewLoggerWithWriter(os.Stderr, slogLevel)
}

// Validate runs the struct tags, then the cross-field format and TLS checks
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}
	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}
	return nil
}
