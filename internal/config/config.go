package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var ErrDatabaseURLUnset = errors.New("DATABASE_URL is not set")

type Config struct {
	Debug bool `yaml:"debug" env:"DEBUG" env-default:"false"`
	DB    DB   `yaml:"db"`
	Seed  Seed `yaml:"seed"`
}

type DB struct {
	URL             string        `yaml:"url" env:"DATABASE_URL"`
	MaxConns        int           `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"10m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	LogQueries      bool          `yaml:"log_queries" env:"DB_LOG_QUERIES" env-default:"false"`
}

type Seed struct {
	DataDir    string `yaml:"data_dir" env:"SEED_DATA_DIR" env-default:"db/seeds/processed"`
	GenresFile string `yaml:"genres_file" env:"SEED_GENRES_FILE" env-default:"tmdb_genres_clean.csv"`
	MoviesFile string `yaml:"movies_file" env:"SEED_MOVIES_FILE" env-default:"tmdb_movies_clean.csv"`
}

// Load reads the environment, or the yaml file at configPath with environment overrides.
// The nearest .env file above the working directory is loaded first; variables already
// present in the environment win over it.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	if cfg.DB.URL == "" {
		return nil, ErrDatabaseURLUnset
	}
	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadDotEnv() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, ok := findDotEnv(wd)
	if !ok {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func findDotEnv(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, ".env")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
