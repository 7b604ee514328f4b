package config

import (
	"errors"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

// ServerConfig - конфигурация сервера
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:":8080"`
}

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	// DSN в формате go-sql-driver, например
	// "user:password@tcp(localhost:3306)/career_management?parseTime=true"
	DSN string `env:"DATABASE_DSN" envDefault:"root:12341234@tcp(localhost:3306)/career_management?parseTime=true"`
}

// JWTConfig - конфигурация JWT
type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
}

// Load загружает конфигурацию из .env файла (если есть) и переменных окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env не обязателен, конфигурация может прийти из окружения
		log.Println("[Config] Файл .env не найден, используются переменные окружения")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == "" {
		return nil, errors.New("необходимо указать порт сервера")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("необходимо установить секретный ключ JWT (JWT_SECRET)")
	}

	return cfg, nil
}
