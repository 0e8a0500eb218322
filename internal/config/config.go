// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Catalog struct {
		BaseURL        string `mapstructure:"base_url"`
		ViewURL        string `mapstructure:"view_url"`
		OdinURL        string `mapstructure:"odin_url"`
		SliderURL      string `mapstructure:"slider_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"catalog"`
	Auth struct {
		Backend string `mapstructure:"backend"` // "gotrue" or "local"
		URL     string `mapstructure:"url"`
		AnonKey string `mapstructure:"anon_key"`
	} `mapstructure:"auth"`
	Session struct {
		MaxProviders int `mapstructure:"max_providers"`
	} `mapstructure:"session"`
	Jobs struct {
		SessionCleanupInterval int `mapstructure:"session_cleanup_interval"`
	} `mapstructure:"jobs"`
	Proxy struct {
		// AllowPrivateTargets lets the resource proxy reach loopback,
		// private and link-local addresses.
		AllowPrivateTargets bool `mapstructure:"allow_private_targets"`
	} `mapstructure:"proxy"`
}

// AuthConfigured reports whether an auth backend can be built from this config.
// The GoTrue backend needs both an endpoint and a public key; the local
// backend only needs the database.
func (c *Config) AuthConfigured() bool {
	switch c.Auth.Backend {
	case "local":
		return true
	case "gotrue", "":
		return c.Auth.URL != "" && c.Auth.AnonKey != ""
	default:
		return false
	}
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")    // or "yaml"
	v.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// e.g., NEPHRA_AUTH_URL will override the `auth.url` key.
	v.SetEnvPrefix("NEPHRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
			configFound = false
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if configFound {
		// Most settings are read once at startup; log edits so the operator
		// knows a restart is needed.
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("Config file changed (%s): restart the server to apply it", e.Name)
		})
		v.WatchConfig()
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database.path", "./nephra.db")
	v.SetDefault("catalog.base_url", "https://api.shngm.io/v1")
	v.SetDefault("catalog.view_url", "https://delta.shngm.io/v1")
	v.SetDefault("catalog.odin_url", "https://odin.shinigami.gg/v1")
	v.SetDefault("catalog.slider_url", "https://slider.shinigami.gg/v1")
	v.SetDefault("catalog.timeout_seconds", 0)
	v.SetDefault("auth.backend", "gotrue")
	v.SetDefault("auth.url", "")
	v.SetDefault("auth.anon_key", "")
	v.SetDefault("session.max_providers", 1024)
	v.SetDefault("jobs.session_cleanup_interval", 60)
	v.SetDefault("proxy.allow_private_targets", false)
}
