// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RabbitMQConnection      string `yaml:"rabbitmq_connection"`
	RabbitMQMaxRetries      int    `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	DefaultTimezone         string `yaml:"default_timezone" env-default:"Europe/Paris"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// SMTP структура для настройки отправки почтовых уведомлений
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной окружения CONFIG_PATH
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
			"StorageConnectionString: %s\n"+
			"RabbitMQConnection: %s\n"+
			"DefaultTimezone: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.RabbitMQConnection,
		c.DefaultTimezone,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
	)
}
