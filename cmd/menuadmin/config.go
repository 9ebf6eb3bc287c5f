package main

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/menuadmin/formats"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "MENUADMIN"
	defaultAPIURL = "http://localhost:5000/api"
)

// Config is the resolved configuration for one invocation
type Config struct {
	APIURL      string
	SessionFile string
	Format      string
	LogLevel    string
	Verbose     bool
}

// setupViper configures env and config-file lookup. The returned error is
// only set when a config file exists but cannot be read.
func setupViper(v *viper.Viper) error {
	// MENUADMIN_CONFIG names an explicit config file
	if configFile := os.Getenv(envPrefix + "_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("menuadmin")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.menuadmin")
		v.AddConfigPath("/etc/menuadmin")
	}

	v.SetEnvPrefix(envPrefix)
	// --api-url -> MENUADMIN_API_URL
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api-url", defaultAPIURL)
	v.SetDefault("format", "table")
	v.SetDefault("log-level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// loadConfig reads the resolved values out of v and checks them
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:      strings.TrimSpace(v.GetString("api-url")),
		SessionFile: v.GetString("session-file"),
		Format:      strings.ToLower(v.GetString("format")),
		LogLevel:    v.GetString("log-level"),
		Verbose:     v.GetBool("verbose"),
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, NewConfigError("invalid api-url "+strconv.Quote(cfg.APIURL), err,
			"Use an absolute http(s) URL such as "+defaultAPIURL)
	}

	if _, err := formats.Get(cfg.Format); err != nil {
		return Config{}, NewConfigError("unsupported output format "+strconv.Quote(cfg.Format), err,
			"Available formats: "+strings.Join(formats.List(), ", "))
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(getXDGConfigDir(), "session.json")
	}

	return cfg, nil
}
