package commands

import (
	"sort"
	"strings"

	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// settingsField defines how to get and set a value of the settings record
type settingsField struct {
	setter func(*settings.Settings, string) error
	getter func(settings.Settings) string
	isSet  func(settings.Settings) bool
}

// settingsFields maps parameter names to their handlers
var settingsFields = map[string]settingsField{
	"apikey": {
		setter: func(s *settings.Settings, v string) error { s.APIKey = v; return nil },
		getter: func(s settings.Settings) string { return config.MaskAPIKey(s.APIKey) },
		isSet:  func(s settings.Settings) bool { return s.APIKey != "" },
	},
	"apiurl": {
		setter: func(s *settings.Settings, v string) error { s.APIURL = v; return nil },
		getter: func(s settings.Settings) string {
			if s.APIURL == "" {
				return "(not set)"
			}
			return s.APIURL
		},
		isSet: func(s settings.Settings) bool { return s.APIURL != "" },
	},
	"model": {
		setter: func(s *settings.Settings, v string) error {
			m, err := settings.ParseModel(v)
			if err != nil {
				return err
			}
			s.Model = m
			return nil
		},
		getter: func(s settings.Settings) string { return s.Model.String() + " (" + s.Model.WireName() + ")" },
		isSet:  func(s settings.Settings) bool { return s.Model != settings.ModelUnset },
	},
}

// getSettingsKeys returns all available keys in sorted order
func getSettingsKeys() []string {
	keys := make([]string, 0, len(settingsFields))
	for k := range settingsFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// overridden reports the flag or environment value that shadows a stored
// field, if any.
func overridden(ctx Context, field settingsField) (settings.Settings, bool) {
	cfg := ctx.GetConfig()
	if cfg == nil || cfg.API == nil {
		return settings.Settings{}, false
	}
	ov, err := cfg.Overrides()
	if err != nil {
		return settings.Settings{}, false
	}
	s := settings.Settings(ov)
	return s, field.isSet(s)
}

func keyList() string {
	return strings.Join(getSettingsKeys(), ", ")
}
