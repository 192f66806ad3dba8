// Package config loads runtime settings from .ls-cluster.toml, LS_CLUSTER_*
// environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/logging"
	"github.com/litescript/ls-cluster/internal/scene"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "LS_CLUSTER"

// DefaultDataPath is the snapshot read when nothing else is configured.
const DefaultDataPath = "Data Files/snapshot.csv"

// AppearanceConfig holds the per-category particle look.
type AppearanceConfig struct {
	MainSequence scene.Appearance `mapstructure:"main_sequence"`
	WhiteDwarf   scene.Appearance `mapstructure:"white_dwarf"`
	NeutronStar  scene.Appearance `mapstructure:"neutron_star"`
	BlackHole    scene.Appearance `mapstructure:"black_hole"`
}

// Get returns the appearance for a category.
func (a AppearanceConfig) Get(c cluster.Category) scene.Appearance {
	switch c {
	case cluster.CategoryMainSequence:
		return a.MainSequence
	case cluster.CategoryWhiteDwarf:
		return a.WhiteDwarf
	case cluster.CategoryNeutronStar:
		return a.NeutronStar
	case cluster.CategoryBlackHole:
		return a.BlackHole
	}
	return scene.Appearance{}
}

// ViewConfig holds the initial terminal camera.
type ViewConfig struct {
	Azimuth   float64 `mapstructure:"azimuth"`
	Elevation float64 `mapstructure:"elevation"`
	Spin      bool    `mapstructure:"spin"`
}

// WatchConfig controls reloading when the data file changes.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration.
type Config struct {
	DataPath     string           `mapstructure:"data_path"`
	MaxBatchSize int              `mapstructure:"max_batch_size"`
	LogLevel     string           `mapstructure:"log_level"`
	Timeline     scene.Timeline   `mapstructure:"timeline"`
	Appearance   AppearanceConfig `mapstructure:"appearance"`
	View         ViewConfig       `mapstructure:"view"`
	Watch        WatchConfig      `mapstructure:"watch"`
}

// Init points viper at the config file and environment. An explicit file
// must exist; the default .ls-cluster.toml is optional.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-cluster")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("data_path", DefaultDataPath)
	viper.SetDefault("max_batch_size", cluster.MaxParticlesPerSystem)
	viper.SetDefault("log_level", "warn")

	tl := scene.DefaultTimeline()
	viper.SetDefault("timeline.start_frame", tl.StartFrame)
	viper.SetDefault("timeline.end_frame", tl.EndFrame)
	viper.SetDefault("timeline.lifetime_frames", tl.LifetimeFrames)

	for c, a := range scene.DefaultAppearances() {
		key := "appearance." + appearanceKey(c)
		viper.SetDefault(key+".material", a.Material)
		viper.SetDefault(key+".emission_volume", a.EmissionVolume)
		viper.SetDefault(key+".style", string(a.Style))
	}

	viper.SetDefault("view.azimuth", 30.0)
	viper.SetDefault("view.elevation", 20.0)
	viper.SetDefault("view.spin", false)

	viper.SetDefault("watch.enabled", false)
	viper.SetDefault("watch.debounce", "100ms")
}

func appearanceKey(c cluster.Category) string {
	switch c {
	case cluster.CategoryMainSequence:
		return "main_sequence"
	case cluster.CategoryWhiteDwarf:
		return "white_dwarf"
	case cluster.CategoryNeutronStar:
		return "neutron_star"
	default:
		return "black_hole"
	}
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("data_path must not be empty")
	}
	if c.MaxBatchSize <= 0 || c.MaxBatchSize > cluster.MaxParticlesPerSystem {
		return fmt.Errorf("max_batch_size must be in 1..%d, got %d", cluster.MaxParticlesPerSystem, c.MaxBatchSize)
	}
	if err := c.Timeline.Validate(); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}
	for _, cat := range cluster.Categories {
		a := c.Appearance.Get(cat)
		if !a.Style.Valid() {
			return fmt.Errorf("appearance.%s.style: unknown style %q", appearanceKey(cat), a.Style)
		}
		if a.EmissionVolume < 0 {
			return fmt.Errorf("appearance.%s.emission_volume must not be negative", appearanceKey(cat))
		}
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// BuilderOptions converts the scene settings into builder options.
func (c Config) BuilderOptions() []scene.BuilderOption {
	opts := []scene.BuilderOption{
		scene.WithMaxBatchSize(c.MaxBatchSize),
		scene.WithTimeline(c.Timeline),
	}
	for _, cat := range cluster.Categories {
		opts = append(opts, scene.WithAppearance(cat, c.Appearance.Get(cat)))
	}
	return opts
}
