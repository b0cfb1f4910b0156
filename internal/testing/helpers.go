package testing

import (
	"time"

	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		API: &config.APIConfig{
			Timeout: time.Second * 5,
		},
		Session: &config.SessionConfig{
			SettingsPath:    "settings.yaml",
			RecordUserTurns: true,
		},
		UI: &config.UIConfig{
			NoBanner: true,
		},
	}
}

// StaticSettings returns a configured record pointing at url
func StaticSettings(url string) settings.StaticSource {
	return settings.StaticSource{
		APIKey: "test-key",
		APIURL: url,
		Model:  settings.ModelMistralNemo,
	}
}
