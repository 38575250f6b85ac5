// Package config resolves the schema bootstrap settings from defaults,
// environment variables and CLI flags.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds the resolved bootstrap configuration.
type Settings struct {
	Nodes      []string      `mapstructure:"nodes"`
	Index      string        `mapstructure:"index"`
	SchemaFile string        `mapstructure:"schema_file"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Verbose    bool          `mapstructure:"verbose"`
	SkipDelete bool          `mapstructure:"skip_delete"`
}

// LoadSettings loads settings from environment variables and optional
// .env file.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag
// overrides. Priority: CLI flags > environment variables > .env file >
// defaults. If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("nodes", []string{"http://localhost:9200"})
	v.SetDefault("index", "buildbot")
	v.SetDefault("schema_file", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("skip_delete", false)

	v.SetEnvPrefix("EBB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("nodes", "EBB_NODES")
	_ = v.BindEnv("index", "EBB_INDEX")
	_ = v.BindEnv("schema_file", "EBB_SCHEMA_FILE")
	_ = v.BindEnv("timeout", "EBB_TIMEOUT")
	_ = v.BindEnv("verbose", "EBB_VERBOSE")
	_ = v.BindEnv("skip_delete", "EBB_SKIP_DELETE")

	if flags != nil {
		_ = v.BindPFlag("nodes", flags.Lookup("nodes"))
		_ = v.BindPFlag("index", flags.Lookup("index"))
		_ = v.BindPFlag("schema_file", flags.Lookup("schema-file"))
		_ = v.BindPFlag("timeout", flags.Lookup("timeout"))
		_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
		_ = v.BindPFlag("skip_delete", flags.Lookup("skip-delete"))
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // .env is optional

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Env vars deliver node lists as a comma-separated string.
	nodesEnv := os.Getenv("EBB_NODES")
	if nodesEnv != "" {
		if len(settings.Nodes) == 0 || (len(settings.Nodes) == 1 && strings.Contains(settings.Nodes[0], ",")) {
			settings.Nodes = strings.Split(nodesEnv, ",")
		}
	}

	for i := range settings.Nodes {
		settings.Nodes[i] = strings.TrimSpace(settings.Nodes[i])
	}
	settings.Nodes = filterEmptyStrings(settings.Nodes)

	return &settings, nil
}

// ValidateSettings checks the resolved settings for unusable values.
func ValidateSettings(s *Settings) error {
	if len(s.Nodes) == 0 {
		return errors.New("at least one Elasticsearch node is required")
	}
	if s.Index == "" {
		return errors.New("index name must not be empty")
	}
	if s.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// filterEmptyStrings removes empty strings from a slice.
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}
