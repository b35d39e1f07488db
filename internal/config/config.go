package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type PostgresConfig struct {
	DSN             string `mapstructure:"dsn"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifeSec  int    `mapstructure:"conn_max_life_sec"`
	SlowThresholdMS int    `mapstructure:"slow_threshold_ms"`
}

type RedisConfig struct {
	Addr           string `mapstructure:"addr"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	DialTimeoutMS  int    `mapstructure:"dial_timeout_ms"`
	ReadTimeoutMS  int    `mapstructure:"read_timeout_ms"`
	WriteTimeoutMS int    `mapstructure:"write_timeout_ms"`
	PingTimeoutMS  int    `mapstructure:"ping_timeout_ms"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	OperateTopic  string   `mapstructure:"operate_topic"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
}

type EtcdConfig struct {
	Endpoints    []string `mapstructure:"endpoints"`
	DialTimeoutS int      `mapstructure:"dial_timeout_sec"`
	HeartbeatSec int64    `mapstructure:"heartbeat_sec"`
	Prefix       string   `mapstructure:"prefix"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireSeconds int    `mapstructure:"expire_seconds"`
	Issuer        string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type OTelConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
	Insecure   bool    `mapstructure:"insecure"`
}

type AppMeta struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type CacheConfig struct {
	LocalTTLSec int `mapstructure:"local_ttl_sec"`
	RedisTTLSec int `mapstructure:"redis_ttl_sec"`
}

type Config struct {
	App      AppMeta        `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	OTel     OTelConfig     `mapstructure:"otel"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// Load 读取 yaml 配置并套用环境变量覆盖，前缀 SYSADMIN_
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SYSADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-sysadmin")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout_sec", 10)
	v.SetDefault("http.write_timeout_sec", 10)
	v.SetDefault("http.idle_timeout_sec", 60)
	v.SetDefault("postgres.max_open_conns", 50)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_life_sec", 1800)
	v.SetDefault("postgres.slow_threshold_ms", 200)
	v.SetDefault("redis.dial_timeout_ms", 500)
	v.SetDefault("redis.read_timeout_ms", 300)
	v.SetDefault("redis.write_timeout_ms", 300)
	v.SetDefault("redis.ping_timeout_ms", 1000)
	v.SetDefault("etcd.dial_timeout_sec", 3)
	v.SetDefault("etcd.heartbeat_sec", 10)
	v.SetDefault("etcd.prefix", "/services")
	v.SetDefault("jwt.expire_seconds", 7200)
	v.SetDefault("jwt.issuer", "go-sysadmin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)
	v.SetDefault("otel.sample_rate", 1.0)
	v.SetDefault("cache.local_ttl_sec", 30)
	v.SetDefault("cache.redis_ttl_sec", 300)
}

// Validate 启动前做硬校验，缺关键配置直接拒绝拉起
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("config: postgres.dsn is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("config: jwt.secret too short, need at least 16 bytes")
	}
	if c.JWT.ExpireSeconds <= 0 {
		return fmt.Errorf("config: jwt.expire_seconds must be positive")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	return nil
}
