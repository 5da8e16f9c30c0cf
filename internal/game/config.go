package game

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/darkcave/internal/entity"
	"github.com/samdwyer/darkcave/internal/world"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated for every new game.
	Seed int64 `env:"DARKCAVE_SEED" yaml:"seed"`

	SavesDir   string `env:"DARKCAVE_SAVES_DIR"  envDefault:"saves"        yaml:"saves_dir"`
	SaveExt    string `env:"DARKCAVE_SAVE_EXT"   envDefault:".sav"         yaml:"save_ext"`
	LogFile    string `env:"DARKCAVE_LOG_FILE"   envDefault:"darkcave.log" yaml:"log_file"`
	Telemetry  bool   `env:"DARKCAVE_TELEMETRY"                            yaml:"telemetry"`
	MapWidth   int    `env:"DARKCAVE_MAP_WIDTH"  envDefault:"80"           yaml:"map_width"`
	MapHeight  int    `env:"DARKCAVE_MAP_HEIGHT" envDefault:"43"           yaml:"map_height"`
	Background string `env:"DARKCAVE_BACKGROUND" envDefault:"ranger"       yaml:"background"`
}

// LoadConfig reads configuration from the environment and then, when path is
// not empty, overlays the YAML file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can start a game.
func (c Config) Validate() error {
	if c.SavesDir == "" {
		return fmt.Errorf("saves directory is empty")
	}
	if !strings.HasPrefix(c.SaveExt, ".") || len(c.SaveExt) < 2 {
		return fmt.Errorf("save extension %q must look like \".sav\"", c.SaveExt)
	}
	if c.MapWidth < 20 || c.MapHeight < 10 {
		return fmt.Errorf("map size %dx%d is too small", c.MapWidth, c.MapHeight)
	}
	if c.MapWidth > world.MaxWidth || c.MapHeight > world.MaxHeight {
		return fmt.Errorf("map size %dx%d exceeds %dx%d", c.MapWidth, c.MapHeight, world.MaxWidth, world.MaxHeight)
	}
	if _, err := entity.ParseBackground(c.Background); err != nil {
		return err
	}
	return nil
}

// StartingBackground returns the configured baseline archetype.
func (c Config) StartingBackground() entity.Background {
	bg, err := entity.ParseBackground(c.Background)
	if err != nil {
		return entity.Ranger
	}
	return bg
}
