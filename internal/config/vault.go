package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths secrets are read from. Empty paths are skipped.
type VaultSecrets struct {
	// "keys": comma-separated server API keys
	APIKeys string `mapstructure:"apiKeys"`
	// "api_key": the vision model key
	GeminiKey string `mapstructure:"geminiKey"`
	// "cert", "key" and "ca": PEM content
	TLSCerts string `mapstructure:"tlsCerts"`
}

// vaultReader reads KVv2 secrets over the Vault HTTP API
type vaultReader struct {
	logical *api.Logical
	logger  *errors.Logger
}

func newVaultReader(cfg VaultConfig, logger *errors.Logger) (*vaultReader, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := vaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	logger.Debug("Vault client ready", "address", client.Address(), "namespace", cfg.Namespace)
	return &vaultReader{logical: client.Logical(), logger: logger}, nil
}

// vaultToken prefers the inline token over the token file
func vaultToken(cfg VaultConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("read vault token file: %w", err)
		}
		if token := strings.TrimSpace(string(raw)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("vault token is required when vault is enabled")
}

// kv returns the data map of the KVv2 secret at path
func (r *vaultReader) kv(path string) (map[string]any, error) {
	secret, err := r.logical.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no secret at %s", path)
	}
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not a KVv2 secret", path)
	}
	r.logger.Debug("Read secret from Vault", "path", path, "fields", len(data))
	return data, nil
}

func stringField(data map[string]any, path, field string) (string, error) {
	raw, ok := data[field]
	if !ok {
		return "", fmt.Errorf("secret %s has no %q field", path, field)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("secret %s field %q is %T, not a string", path, field, raw)
	}
	return value, nil
}

// vaultApplier copies one secret into the configuration
type vaultApplier struct {
	name  string
	path  string
	apply func(cfg *Config, path string, data map[string]any) error
}

// ApplyVaultSecrets overwrites API keys, the vision model key and TLS content
// with values read from Vault. It does nothing when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	reader, err := newVaultReader(cfg.Vault, logger)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to initialize Vault client", err)
	}

	paths := cfg.Vault.Secrets
	appliers := []vaultApplier{
		{name: "api keys", path: paths.APIKeys, apply: applyAPIKeys},
		{name: "gemini key", path: paths.GeminiKey, apply: applyGeminiKey},
		{name: "tls content", path: paths.TLSCerts, apply: applyTLSContent},
	}

	applied := 0
	for _, a := range appliers {
		if a.path == "" {
			continue
		}
		data, err := reader.kv(a.path)
		if err == nil {
			err = a.apply(cfg, a.path, data)
		}
		if err != nil {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Failed to load %s from Vault", a.name), err).
				WithContext("path", a.path)
		}
		applied++
	}

	logger.Info("Applied secrets from Vault", "secrets", applied)
	return nil
}

func applyAPIKeys(cfg *Config, path string, data map[string]any) error {
	raw, err := stringField(data, path, "keys")
	if err != nil {
		return err
	}
	var keys []string
	for key := range strings.SplitSeq(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("secret %s holds no API keys", path)
	}
	cfg.Server.APIKeys = keys
	return nil
}

// applyGeminiKey sets the global key and fills the OCR override when it has none
func applyGeminiKey(cfg *Config, path string, data map[string]any) error {
	key, err := stringField(data, path, "api_key")
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("secret %s has an empty api_key", path)
	}
	cfg.AI.APIKey = key
	if cfg.AI.OCR.APIKey == "" {
		cfg.AI.OCR.APIKey = key
	}
	return nil
}

// applyTLSContent copies whichever PEM fields are present
func applyTLSContent(cfg *Config, path string, data map[string]any) error {
	targets := map[string]*string{
		"cert": &cfg.Server.TLS.CertContent,
		"key":  &cfg.Server.TLS.KeyContent,
		"ca":   &cfg.Server.TLS.CAContent,
	}
	found := 0
	for field, target := range targets {
		if _, ok := data[field]; !ok {
			continue
		}
		pem, err := stringField(data, path, field)
		if err != nil {
			return err
		}
		*target = pem
		found++
	}
	if found == 0 {
		return fmt.Errorf("secret %s has none of the cert, key or ca fields", path)
	}
	return nil
}
