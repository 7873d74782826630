package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads an apiscout.toml file from
// the working directory (if present), and binds environment variables with
// the APISCOUT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via viper.BindPFlag in a command's PreRunE)
//  2. Environment variables (APISCOUT_VECTOR_STORE_PATH, APISCOUT_SERVER_PORT, etc.)
//  3. apiscout.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper() (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("apiscout")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("APISCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.path", d.VectorStore.Path)
	v.SetDefault("vector_store.target", d.VectorStore.Target)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("specs.dir", d.Specs.Dir)
}

// FromViper materializes a typed Config from a resolved viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		VectorStore: VectorStoreConfig{
			Provider: v.GetString("vector_store.provider"),
			Path:     v.GetString("vector_store.path"),
			Target:   v.GetString("vector_store.target"),
		},
		Embedding: EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			Dimensions: v.GetUint("embedding.dimensions"),
			APIKey:     v.GetString("embedding.api_key"),
		},
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Specs: SpecsConfig{
			Dir: v.GetString("specs.dir"),
		},
	}
}

// Load resolves the full configuration from defaults, file and environment.
func Load() (*Config, error) {
	v, err := InitViper()
	if err != nil {
		return nil, err
	}
	return FromViper(v), nil
}
