package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Tile     TileConfig     `yaml:"tile" mapstructure:"tile"`
	Manifest ManifestConfig `yaml:"manifest" mapstructure:"manifest"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TileConfig configures the tiling pipeline.
type TileConfig struct {
	Size            float64 `yaml:"size" mapstructure:"size"`
	Workers         int     `yaml:"workers" mapstructure:"workers"`
	Band            int     `yaml:"band" mapstructure:"band"`
	NoData          int     `yaml:"nodata" mapstructure:"nodata"`
	PixelType       string  `yaml:"pixel_type" mapstructure:"pixel_type"`
	Format          string  `yaml:"format" mapstructure:"format"`
	Extension       string  `yaml:"extension" mapstructure:"extension"`
	TileTimeoutSecs int     `yaml:"tile_timeout_secs" mapstructure:"tile_timeout_secs"`
}

// ManifestConfig configures the SQLite tile manifest.
type ManifestConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TILECUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("tile.workers", 1)
	v.SetDefault("tile.band", 1)
	v.SetDefault("tile.nodata", 0)
	v.SetDefault("tile.pixel_type", "int32")
	v.SetDefault("tile.format", "GTiff")
	v.SetDefault("tile.extension", "tif")
	v.SetDefault("tile.tile_timeout_secs", 0)
	v.SetDefault("manifest.enabled", false)
	v.SetDefault("manifest.path", "tilecut.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
