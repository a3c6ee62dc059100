package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peakops/snowplan-cli/internal/snow"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig        `yaml:"store" mapstructure:"store"`
	Scenario snow.ScenarioInput `yaml:"scenario" mapstructure:"scenario"`
	Fetch    FetchConfig        `yaml:"fetch" mapstructure:"fetch"`
	Analyze  AnalyzeConfig      `yaml:"analyze" mapstructure:"analyze"`
	Server   ServerConfig       `yaml:"server" mapstructure:"server"`
	Log      LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FetchConfig configures dataset downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	FTPUser     string `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPassword string `yaml:"ftp_password" mapstructure:"ftp_password"`
}

// AnalyzeConfig configures the series analysis phase.
type AnalyzeConfig struct {
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	BBox        string `yaml:"bbox" mapstructure:"bbox"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("SNOWPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "snowplan.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "snowplan/1.0")
	v.SetDefault("analyze.concurrency", 4)

	def := snow.DefaultInput()
	v.SetDefault("scenario.slope_area_m2", def.SlopeArea)
	v.SetDefault("scenario.target_depth_m", def.TargetDepth)
	v.SetDefault("scenario.season_start_month", int(def.SeasonStart))
	v.SetDefault("scenario.season_end_month", int(def.SeasonEnd))
	v.SetDefault("scenario.water_ratio", def.WaterRatio)
	v.SetDefault("scenario.energy_ratio_kwh", def.EnergyRatio)
	v.SetDefault("scenario.water_price", def.WaterPrice)
	v.SetDefault("scenario.energy_price_kwh", def.EnergyPrice)
	v.SetDefault("scenario.additive_efficiency", def.AdditiveEfficiency)
	v.SetDefault("scenario.additive_cost_per_m3", def.AdditiveCostPerM3)

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
