package schedulerd

import (
	"fmt"
	"strings"

	"github.com/Deepreo/schedulerd/errors"
	"github.com/Deepreo/schedulerd/modules/cache"
	"github.com/Deepreo/schedulerd/modules/servers"
	"github.com/Deepreo/schedulerd/modules/store"
	"github.com/Deepreo/schedulerd/modules/trigger"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string                   `mapstructure:"log_level"`
	Server   servers.HttpServerConfig `mapstructure:"server"`
	Database store.PostgresConfig     `mapstructure:"database"`
	Cache    cache.Config             `mapstructure:"cache"`
	Trigger  trigger.Config           `mapstructure:"trigger"`
}

// LoadConfig reads the YAML configuration and applies SCHEDULERD_*
// environment overrides. A missing file is fine when the path was not
// given explicitly; the environment then has to carry everything.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("schedulerd")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/schedulerd")
	}
	v.SetEnvPrefix("SCHEDULERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
