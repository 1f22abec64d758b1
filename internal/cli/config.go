package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/work-note/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the CLI configuration. Sources, lowest precedence first:
// defaults, ~/.worknote/config.yaml, WORKNOTE_* environment, flags.
type Config struct {
	ServerURL       string        `mapstructure:"server_url"`
	CredentialsPath string        `mapstructure:"credentials_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	DefaultPriority string        `mapstructure:"default_priority"`
}

// ConfigPath returns ~/.worknote/config.yaml.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".worknote", "config.yaml")
}

// LoadConfig reads the configuration for cmd. configFile may be empty.
func LoadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	credentials, err := client.DefaultCredentialsPath()
	if err != nil {
		credentials = ".worknote-credentials.yaml"
	}
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("credentials_path", credentials)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("default_priority", "medium")

	v.SetEnvPrefix("WORKNOTE")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}

	flags := cmd.Flags()
	if f := flags.Lookup("server"); f != nil {
		if err := v.BindPFlag("server_url", f); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("credentials"); f != nil {
		if err := v.BindPFlag("credentials_path", f); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
