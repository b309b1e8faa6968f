package model

import (
	"os"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// NewClient picks the model client for the configured model: the OpenRouter
// client when a credential is present, the offline echo fallback otherwise.
func NewClient(cfg domain.ModelSettings, log ports.Logger) ports.ModelClient {
	envVar := cfg.AuthEnvVar
	if envVar == "" {
		envVar = domain.DefaultAuthEnvVar
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		log.Warn("no API key configured; using offline fallback client", map[string]interface{}{
			"auth_env_var": envVar,
		})
		return NewEchoClient(cfg.Name)
	}
	return NewOpenRouterClient(cfg, apiKey)
}
