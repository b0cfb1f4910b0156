package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mistralchat/internal/settings"
)

type Configuration struct {
	API     *APIConfig
	Session *SessionConfig
	UI      *UIConfig
}

// APIConfig carries the request options and the flag/env overrides of the
// settings record.
type APIConfig struct {
	Key               string
	URL               string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

type SessionConfig struct {
	SettingsPath    string
	HistoryPath     string
	RecordUserTurns bool
	Watch           bool
}

type UIConfig struct {
	Verbose  bool
	NoBanner bool
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

// DefaultSettingsPath is where `config init` writes the settings record.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mistralchat", "settings.yaml")
}

func GetFlags() []cli.Flag {
	return getFlags(getConfigPath(os.Args))
}

func getFlags(configPath string) []cli.Flag {
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

	// EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "use the named configuration file", Sources: cli.EnvVars("MISTRALCHAT_CONFIG")},

		// Settings record and overrides
		&cli.StringFlag{Name: "settings", Value: DefaultSettingsPath(), Usage: "path of the settings record (api key, url, model)", Sources: src("settings", "MISTRALCHAT_SETTINGS")},
		&cli.StringFlag{Name: "apikey", Aliases: []string{"k"}, Usage: "Mistral API key, overrides the settings record", Sources: src("apikey", "MISTRALCHAT_APIKEY", "MISTRAL_API_KEY")},
		&cli.StringFlag{Name: "apiurl", Aliases: []string{"u"}, Usage: "chat-completions URL, overrides the settings record", Sources: src("apiurl", "MISTRALCHAT_APIURL")},
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "model (" + strings.Join(settings.ModelNames(), ", ") + "), overrides the settings record", Sources: src("model", "MISTRALCHAT_MODEL")},
		&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "reload the settings record when it changes", Sources: src("watch", "MISTRALCHAT_WATCH")},

		// Requests
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: 30 * time.Second, Usage: "timeout for each completion request", Sources: src("apitimeout", "MISTRALCHAT_APITIMEOUT")},
		&cli.IntFlag{Name: "ratelimit", Usage: "maximum requests per minute (0 = unlimited)", Sources: src("ratelimit", "MISTRALCHAT_RATELIMIT")},

		// Session
		&cli.BoolFlag{Name: "record", Value: true, Usage: "add sent user turns to the transcript", Sources: src("record", "MISTRALCHAT_RECORD")},
		&cli.StringFlag{Name: "history", Aliases: []string{"H"}, Usage: "transcript file loaded at start and saved on exit", Sources: src("history", "MISTRALCHAT_HISTORY")},

		// Output
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "MISTRALCHAT_VERBOSE")},
		&cli.BoolFlag{Name: "nobanner", Usage: "do not print the banner", Sources: src("nobanner", "MISTRALCHAT_NOBANNER")},
	}
}

func getConfigPath(args []string) string {
	if v := os.Getenv("MISTRALCHAT_CONFIG"); v != "" {
		return v
	}
	for i, arg := range args {
		if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		zap.S().Infow("Using config file", "path", c.String("config"))
	}

	return &Configuration{
		API: &APIConfig{
			Key:               c.String("apikey"),
			URL:               c.String("apiurl"),
			Model:             c.String("model"),
			Timeout:           c.Duration("apitimeout"),
			RequestsPerMinute: c.Int("ratelimit"),
		},
		Session: &SessionConfig{
			SettingsPath:    c.String("settings"),
			HistoryPath:     c.String("history"),
			RecordUserTurns: c.Bool("record"),
			Watch:           c.Bool("watch"),
		},
		UI: &UIConfig{
			Verbose:  c.Bool("verbose"),
			NoBanner: c.Bool("nobanner"),
		},
	}
}

// Overrides returns the flag and environment values as a settings source.
func (c *Configuration) Overrides() (settings.StaticSource, error) {
	src := settings.StaticSource{APIKey: c.API.Key, APIURL: c.API.URL}
	if c.API.Model != "" {
		m, err := settings.ParseModel(c.API.Model)
		if err != nil {
			return src, err
		}
		src.Model = m
	}
	return src, nil
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("settings: %s\n", c.Session.SettingsPath)
	fmt.Printf("apikey: %s\n", MaskAPIKey(c.API.Key))
	fmt.Printf("apiurl: %s\n", c.API.URL)
	fmt.Printf("model: %s\n", c.API.Model)
	fmt.Printf("watch: %t\n", c.Session.Watch)
	fmt.Printf("apitimeout: %s\n", c.API.Timeout)
	fmt.Printf("ratelimit: %d\n", c.API.RequestsPerMinute)
	fmt.Printf("record: %t\n", c.Session.RecordUserTurns)
	fmt.Printf("history: %s\n", c.Session.HistoryPath)
	fmt.Printf("verbose: %t\n", c.UI.Verbose)
}

// MaskAPIKey returns a masked version of an API key showing only first 4 chars
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
