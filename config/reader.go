package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfigSchema struct {
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
		// SQLitePath - локальная разработка без postgres, реплики игнорируются
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"db"`
	Redis    RedisConfig `yaml:"redis"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Queue    string `yaml:"queue"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
	Backend struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Service string `yaml:"service"`
		// AdminToken открывает /api/v1/admin, пустой - админка выключена
		AdminToken string `yaml:"admin_token"`
		// TrustUserHeader разрешает X-User-ID вместо токена (для внутренних сервисов и тестов)
		TrustUserHeader bool `yaml:"trust_user_header"`
	} `yaml:"backend"`
	Logs struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logs"`
	Feed struct {
		PageSize     int           `yaml:"page_size"`
		MaxPageSize  int           `yaml:"max_page_size"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		QueueWorkers int           `yaml:"queue_workers"`
	} `yaml:"feed"`
	Drafts struct {
		Dir       string        `yaml:"dir"`
		RedisTTL  time.Duration `yaml:"redis_ttl"`
		KeyPrefix string        `yaml:"key_prefix"`
	} `yaml:"drafts"`
}

var AppConfig *ConfigSchema

// applyDefaults заполняет значения, которые не заданы в файле
func (c *ConfigSchema) applyDefaults() {
	if c.Backend.Port == 0 {
		c.Backend.Port = 8080
	}
	if c.Backend.Service == "" {
		c.Backend.Service = "tattoola"
	}
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = 20
	}
	if c.Feed.MaxPageSize <= 0 {
		c.Feed.MaxPageSize = 100
	}
	if c.Feed.CacheTTL <= 0 {
		c.Feed.CacheTTL = 24 * time.Hour
	}
	if c.Feed.QueueWorkers <= 0 {
		c.Feed.QueueWorkers = 5
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "feed_events"
	}
	if c.Drafts.KeyPrefix == "" {
		c.Drafts.KeyPrefix = "draft:"
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 50
	}
}

// Parse разбирает YAML конфигурацию и подставляет значения по умолчанию
func Parse(data []byte) (*ConfigSchema, error) {
	conf := &ConfigSchema{}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		conf.RabbitMQ.URL = url
	}
	conf.applyDefaults()
	return conf, nil
}

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	conf, err := Parse(data)
	if err != nil {
		return err
	}
	AppConfig = conf
	return nil
}
