package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Backend задаёт тип хранилища приложения.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
// Источник — TOML-файл из SALES_CONFIG, поверх которого
// применяются переменные окружения.
type Config struct {
	HTTPAddr    string        `toml:"http_addr"`
	MetricsAddr string        `toml:"metrics_addr"`
	Storage     StorageConfig `toml:"storage"`
	Kafka       KafkaConfig   `toml:"kafka"`
}

// StorageConfig выбирает backend хранилища и его параметры.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// KafkaConfig задаёт подключение к брокеру событий.
type KafkaConfig struct {
	Brokers string `toml:"brokers"`
}

// DefaultConfig возвращает конфигурацию настольного режима:
// HTTP API, метрики и встраиваемая база в рабочем каталоге.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "data/sales.db",
		},
	}
}

// LoadConfig собирает итоговую конфигурацию: значения по умолчанию,
// затем TOML-файл из SALES_CONFIG (если задан), затем переменные окружения.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("SALES_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SALES_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SALES_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("SALES_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("SALES_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("SALES_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = v
	}
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage backend %q requires sqlite_path", c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage backend %q requires postgres_dsn", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}

	return nil
}
