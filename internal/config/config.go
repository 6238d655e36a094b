// Package config предоставляет структуры и функцию для загрузки конфигурации сервиса.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	RateLimit               `yaml:"rate_limit"`
	Telemetry               `yaml:"telemetry"`
	Import                  `yaml:"import"`
}

// HTTPServer настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
	TTL          time.Duration `yaml:"ttl" env-default:"1h"`
}

// RateLimit параметры ограничения частоты запросов.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"10"`
	Burst int     `yaml:"burst" env-default:"20"`
}

// Telemetry параметры трассировки OpenTelemetry.
type Telemetry struct {
	TracesEnabled    bool    `yaml:"enabled" env:"OTEL_ENABLED"`
	ServiceName      string  `yaml:"service_name" env-default:"letters-packages"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	OTLPInsecure     bool    `yaml:"insecure" env-default:"true"`
	TraceSampleRatio float64 `yaml:"sample_ratio" env-default:"1"`
}

// Import параметры загрузки справочников из CSV.
type Import struct {
	DataDir string `yaml:"data_dir" env:"IMPORT_DATA_DIR" env-default:"./static/data"`
}

// MustLoad загружает конфигурацию из файла CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"Redis: %s (db %d, ttl %s)\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"RateLimit: %.2f rps, burst %d\n"+
			"Telemetry: enabled=%t endpoint=%s\n"+
			"Import: %s\n",
		c.Env,
		c.MigrationsPath,
		c.AddressRedis, c.DB, c.TTL,
		c.AddressHTTP, c.TimeoutHTTP, c.IdleTimeout,
		c.RPS, c.Burst,
		c.TracesEnabled, c.OTLPEndpoint,
		c.DataDir,
	)
}
