// Package settings resolves the API key, endpoint URL and model used for
// chat requests from one or more configuration sources.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the public chat-completions endpoint.
const DefaultAPIURL = "https://api.mistral.ai/v1/chat/completions"

// ErrNotConfigured is returned when no source holds a settings record.
var ErrNotConfigured = errors.New("settings: not configured")

// Settings is the persisted configuration record.
type Settings struct {
	APIKey string    `yaml:"api_key"`
	APIURL string    `yaml:"api_url"`
	Model  ModelType `yaml:"model,omitempty"`
}

// Default returns the record written for a fresh installation.
func Default() Settings {
	return Settings{
		APIURL: DefaultAPIURL,
		Model:  DefaultModel,
	}
}

func (s Settings) empty() bool {
	return s.APIKey == "" && s.APIURL == "" && s.Model == ModelUnset
}

// Source loads a settings record.
type Source interface {
	Load() (Settings, error)
}

// StaticSource holds fixed values, typically flag or environment overrides.
type StaticSource Settings

func (s StaticSource) Load() (Settings, error) {
	if Settings(s).empty() {
		return Settings{}, ErrNotConfigured
	}
	return Settings(s), nil
}

// FileSource reads the record from a YAML file.
type FileSource struct {
	Path string
}

func (f FileSource) Load() (Settings, error) {
	var s Settings
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, ErrNotConfigured
	}
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", f.Path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", f.Path, err)
	}
	return s, nil
}

// Save writes the record, creating parent directories as needed.
func (f FileSource) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Provider layers sources in priority order. For every field the first
// source with a non-empty value wins.
type Provider struct {
	sources []Source
	logger  *zap.SugaredLogger
}

// NewProvider creates a provider over the given sources, highest priority first.
func NewProvider(logger *zap.SugaredLogger, sources ...Source) *Provider {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Provider{sources: sources, logger: logger}
}

// Resolve merges all sources. Unset fields get their fallbacks: empty key
// and URL, DefaultModel. ErrNotConfigured is returned, together with those
// fallbacks, when no source holds a record.
func (p *Provider) Resolve() (Settings, error) {
	var merged Settings
	configured := false
	for _, src := range p.sources {
		s, err := src.Load()
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		if err != nil {
			p.logger.Warnw("settings_source_failed", "error", err)
			continue
		}
		configured = true
		if merged.APIKey == "" {
			merged.APIKey = s.APIKey
		}
		if merged.APIURL == "" {
			merged.APIURL = s.APIURL
		}
		if merged.Model == ModelUnset {
			merged.Model = s.Model
		}
	}
	if merged.Model == ModelUnset {
		merged.Model = DefaultModel
	}
	if !merged.Model.Valid() {
		p.logger.Warnw("settings_model_unknown", "model", merged.Model.String())
	}
	if !configured {
		return merged, ErrNotConfigured
	}
	return merged, nil
}

// APIKey returns the configured key or "".
func (p *Provider) APIKey() string {
	s, _ := p.Resolve()
	return s.APIKey
}

// APIURL returns the configured endpoint or "".
func (p *Provider) APIURL() string {
	s, _ := p.Resolve()
	return s.APIURL
}

// Model returns the configured model or DefaultModel.
func (p *Provider) Model() ModelType {
	s, _ := p.Resolve()
	return s.Model
}
