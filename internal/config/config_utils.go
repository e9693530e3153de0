package config

import (
	"log"
	"os"
	"strings"
)

// reportedEnvVars are echoed by logConfigurationSources when set
var reportedEnvVars = []string{
	envPrefix + "_AI_APIKEY",
	envPrefix + "_AI_PROVIDER",
	envPrefix + "_AI_MODEL",
	envPrefix + "_DOCUMENT_PDFMINWORDS",
	envPrefix + "_DOCUMENT_OCRENABLED",
	envPrefix + "_SERVER_PORT",
	envPrefix + "_SERVER_HOST",
	envPrefix + "_APP_LOGLEVEL",
	envPrefix + "_VAULT_ENABLED",
	"GEMINI_API_KEY",
}

// applyFallbacks fills what viper cannot: the conventional Gemini key,
// comma-separated server keys, TLS mode defaults and the service instance
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if len(c.Server.APIKeys) == 0 {
		c.Server.APIKeys = splitList(os.Getenv(envPrefix + "_SERVER_APIKEYS"))
	}

	tls := &c.Server.TLS
	if tls.Mode == "" {
		tls.Mode = "disabled"
	}
	if tls.Mode == "mutual" && tls.ClientAuthPolicy == "" {
		tls.ClientAuthPolicy = "require"
	}
	if tls.Mode != "disabled" && tls.MinVersion == "" {
		tls.MinVersion = "1.2"
	}

	obs := &c.Observability
	if obs.ServiceInstance == "" {
		obs.ServiceInstance = obs.ServiceName + "-1"
		if host, err := os.Hostname(); err == nil {
			obs.ServiceInstance = obs.ServiceName + "-" + host
		}
	}
	if c.App.LogLevel == "debug" {
		obs.ConsoleOutput = true
	}
}

// splitList splits on commas and drops blank entries
func splitList(raw string) []string {
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// logConfigurationSources prints where configuration came from. Values of
// variables whose name mentions a key are masked.
func (c *Config) logConfigurationSources(source string) {
	if source == "" {
		source = "none (defaults and environment)"
	}
	log.Printf("[CONFIG] Config file: %s", source)

	var set []string
	for _, name := range reportedEnvVars {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "key") {
			value = "***MASKED***"
		}
		set = append(set, name+"="+value)
	}
	if len(set) == 0 {
		set = append(set, "none")
	}
	log.Printf("[CONFIG] Environment: %s", strings.Join(set, " "))

	apiKey := "not set, OCR unavailable"
	if c.AI.APIKey != "" {
		apiKey = "configured"
	}
	log.Printf("[CONFIG] AI: provider=%s model=%s key=%s; OCR: provider=%s model=%s",
		c.AI.Provider, c.AI.Model, apiKey, c.AI.OCR.Provider, c.AI.OCR.Model)
	log.Printf("[CONFIG] Document: pdfMinWords=%d docxMinChars=%d ocrMinChars=%d",
		c.Document.PDFMinWords, c.Document.DOCXMinChars, c.Document.OCRMinChars)
	log.Printf("[CONFIG] Server: %s:%s tls=%s; logLevel=%s vault=%t observability=%t",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)
}
