package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/delaneyj/hasher/hasher"
)

// Config drives a hashsync session.
type Config struct {
	URL          string        `mapstructure:"url"`
	Mode         string        `mapstructure:"mode"`
	Title        string        `mapstructure:"title"`
	PrependHash  string        `mapstructure:"prepend_hash"`
	AppendHash   string        `mapstructure:"append_hash"`
	Separator    string        `mapstructure:"separator"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Decode       string        `mapstructure:"decode"`
	// QueryEscape simulates a host that misreads a literal '?' in the hash of
	// a local file.
	QueryEscape bool `mapstructure:"query_escape"`
}

// Load reads defaults, then the optional file at path, then HASHSYNC_*
// environment variables, then overrides (usually from flags).
func Load(path string, overrides map[string]any) (Config, error) {
	v := viper.New()

	v.SetDefault("url", "http://localhost/")
	v.SetDefault("mode", "reactive")
	v.SetDefault("title", "")
	v.SetDefault("prepend_hash", "/")
	v.SetDefault("append_hash", "")
	v.SetDefault("separator", "/")
	v.SetDefault("poll_interval", hasher.DefaultPollInterval)
	v.SetDefault("decode", "strict")
	v.SetDefault("query_escape", false)

	v.SetEnvPrefix("HASHSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, err := c.Features(); err != nil {
		return err
	}
	if _, err := c.DecodeMode(); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

// Features maps the mode to the host capabilities that select it.
func (c Config) Features() ([]hasher.Feature, error) {
	var features []hasher.Feature
	switch c.Mode {
	case "reactive":
		features = []hasher.Feature{hasher.FeatureHashChange, hasher.FeatureHistoryRecords}
	case "polling":
		features = []hasher.Feature{hasher.FeatureHistoryRecords}
	case "legacy":
		features = []hasher.Feature{}
	default:
		return nil, fmt.Errorf("unknown mode %q, want reactive, polling or legacy", c.Mode)
	}
	if strings.HasPrefix(c.URL, "file:") {
		features = append(features, hasher.FeatureLocalFile)
	}
	if c.QueryEscape {
		features = append(features, hasher.FeatureQueryEscape)
	}
	return features, nil
}

func (c Config) DecodeMode() (hasher.DecodeMode, error) {
	switch c.Decode {
	case "strict":
		return hasher.DecodeStrict, nil
	case "literal":
		return hasher.DecodeLiteral, nil
	default:
		return 0, fmt.Errorf("unknown decode mode %q, want strict or literal", c.Decode)
	}
}
