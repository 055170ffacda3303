package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера освещения.

type Config struct {
	EventBus EventBusConfig `yaml:"eventbus"`
	World    WorldConfig    `yaml:"world"`
	Lighting LightingConfig `yaml:"lighting"`
	Server   ServerConfig   `yaml:"server"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type WorldConfig struct {
	Seed         int64  `yaml:"seed"`
	DataPath     string `yaml:"data_path"`
	SpawnRadius  int    `yaml:"spawn_radius"`  // Радиус предзагрузки чанков вокруг (0,0)
	UsePersisted bool   `yaml:"use_persisted"` // Поднимать чанки из BadgerDB, если сохранены
}

type LightingConfig struct {
	QueueCapacity int `yaml:"queue_capacity"`
	BackoffMS     int `yaml:"backoff_ms"` // Задержка перед повтором после ошибки провайдера
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

// GetMetricsPort возвращает порт Prometheus-метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(s.MetricsPort, "LIGHT_METRICS_PORT", 2112)
}

// GetQueueCapacity возвращает ёмкость очереди пересчёта
func (l *LightingConfig) GetQueueCapacity() int {
	return getIntWithEnvFallback(l.QueueCapacity, "LIGHT_QUEUE_CAPACITY", 4096)
}

// GetBackoffMS возвращает задержку повтора после ошибки провайдера геометрии
func (l *LightingConfig) GetBackoffMS() int {
	return getIntWithEnvFallback(l.BackoffMS, "LIGHT_BACKOFF_MS", 250)
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	if configVal > 0 {
		return configVal
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV LIGHT_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("LIGHT_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
