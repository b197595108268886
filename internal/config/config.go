package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the optional file-based defaults for a run. Flags always
// win over the file; the file wins over built-in defaults.
type Config struct {
	// Threads is the default worker pool size (0 = logical cores).
	Threads int `mapstructure:"threads"`

	// Filter is the default resize kernel when --filter is not given.
	Filter string `mapstructure:"filter"`

	Mirror Mirror `mapstructure:"mirror"`
}

// Mirror holds connection settings for the optional output replica on
// an S3-compatible server.
type Mirror struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// bindEnv binds the mirror credentials to environment variables so they
// can stay out of the config file.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"mirror.access_key": "OPTIMG_MIRROR_ACCESS_KEY",
		"mirror.secret_key": "OPTIMG_MIRROR_SECRET_KEY",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}
	return nil
}

// Load reads the configuration. With an explicit path the file must
// exist; otherwise optimg.yaml is searched in the working directory and
// the home directory, and a missing file just yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("optimg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
