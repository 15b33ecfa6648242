package config

import (
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/b2session"
)

// EnvPrefix is prepended to every environment variable, e.g. B2SESSION_REDIS_ADDR.
const EnvPrefix = "B2SESSION"

type Config struct {
	Redis struct {
		Addr        string        `mapstructure:"addr"`
		Username    string        `mapstructure:"username"`
		Password    string        `mapstructure:"password"`
		DB          int           `mapstructure:"db"`
		DialTimeout time.Duration `mapstructure:"dial_timeout"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"redis"`
	Prefix string `mapstructure:"prefix"`
	Log    struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// New returns a viper instance with defaults and env bindings registered.
// Flags may be bound on top before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("prefix", b2session.DefaultPrefix)
	v.SetDefault("log.level", "info")
	return v
}

// Load reads file (if non-empty) and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("config: redis.db must be >= 0, got %d", cfg.Redis.DB)
	}
	return &cfg, nil
}

// RedisOptions passes the connection settings through to go-redis.
func (c *Config) RedisOptions() *goredis.Options {
	return &goredis.Options{
		Addr:        c.Redis.Addr,
		Username:    c.Redis.Username,
		Password:    c.Redis.Password,
		DB:          c.Redis.DB,
		DialTimeout: c.Redis.DialTimeout,
		ReadTimeout: c.Redis.ReadTimeout,
	}
}
