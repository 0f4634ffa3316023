package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Relational RelationalConfig `mapstructure:"relational"`
	Submitter  SubmitterConfig  `mapstructure:"submitter"`
	Retry      RetryConfig      `mapstructure:"retry"`
	Poller     PollerConfig     `mapstructure:"poller"`
	Processor  ProcessorConfig  `mapstructure:"processor"`
	Notifier   NotifierConfig   `mapstructure:"notifier"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// MongoConfig 工单库配置
type MongoConfig struct {
	URI            string        `mapstructure:"uri" validate:"required"`
	Database       string        `mapstructure:"database" validate:"required"`
	Collection     string        `mapstructure:"collection" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RelationalConfig 客户/缴费库配置
type RelationalConfig struct {
	Driver       string        `mapstructure:"driver" validate:"required,oneof=mysql postgres"`
	DSN          string        `mapstructure:"dsn" validate:"required"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// SubmitterConfig 工单创建服务配置
type SubmitterConfig struct {
	URL     string        `mapstructure:"url"` // 允许为空，运行时按 ConfigError 处理
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetryConfig 瞬时故障重试
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// PollerConfig 轮询配置
type PollerConfig struct {
	IdleInterval time.Duration `mapstructure:"idle_interval"` // 无待处理工单时的等待
	PassInterval time.Duration `mapstructure:"pass_interval"` // 一轮处理完成后的等待
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 拉取失败后的等待
}

// ProcessorConfig 单工单处理配置
type ProcessorConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// NotifierConfig 完成通知配置
type NotifierConfig struct {
	Kind   string       `mapstructure:"kind" validate:"omitempty,oneof=none redis lmstfy"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Lmstfy LmstfyConfig `mapstructure:"lmstfy"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`

	Enabled bool `mapstructure:"-"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
	Token     string `mapstructure:"token" validate:"required_if=Enabled true"`
	Queue     string `mapstructure:"queue" validate:"required_if=Enabled true"`

	Enabled bool `mapstructure:"-"`
}

var validate = validator.New()

// Load 加载配置文件，环境变量 ORDERSYNC_* 覆盖同名配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ORDERSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("relational.driver", "mysql")
	v.SetDefault("relational.query_timeout", 30*time.Second)
	v.SetDefault("submitter.timeout", 30*time.Second)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_interval", 500*time.Millisecond)
	v.SetDefault("retry.max_interval", 5*time.Second)
	v.SetDefault("poller.idle_interval", 5*time.Second)
	v.SetDefault("poller.pass_interval", 1*time.Second)
	v.SetDefault("poller.error_backoff", 5*time.Second)
	v.SetDefault("processor.timeout", 60*time.Second)
	v.SetDefault("notifier.kind", "none")
	v.SetDefault("notifier.redis.channel", "order_incident_completed")
	v.SetDefault("notifier.lmstfy.port", 7777)
}

// Validate 验证配置
func (c *Config) Validate() error {
	c.Notifier.Redis.Enabled = c.Notifier.Kind == "redis"
	c.Notifier.Lmstfy.Enabled = c.Notifier.Kind == "lmstfy"

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
