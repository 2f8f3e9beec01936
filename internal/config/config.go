package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	JWTAccessMin  int    `env:"JWT_ACCESS_MINUTES" envDefault:"15"`
	JWTRefreshHrs int    `env:"JWT_REFRESH_HOURS" envDefault:"720"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	MinIOEndpoint string `env:"MINIO_ENDPOINT"`
	MinIOAccess   string `env:"MINIO_ACCESS_KEY"`
	MinIOSecret   string `env:"MINIO_SECRET_KEY"`
	MinIOBucket   string `env:"MINIO_BUCKET" envDefault:"journeymap"`
	MinIOUseSSL   bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MaxImageBytes int64  `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
