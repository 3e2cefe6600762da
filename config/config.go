package config

import (
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

type Config struct {
    Debug    bool           `mapstructure:"debug"`
    Server   ServerConfig   `mapstructure:"server"`
    Database DatabaseConfig `mapstructure:"database"`
    Redis    RedisConfig    `mapstructure:"redis"`
    RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
    Sentry   SentryConfig   `mapstructure:"sentry"`
    Fanout   FanoutConfig   `mapstructure:"fanout"`
    Schedule ScheduleConfig `mapstructure:"schedule"`
}

type ServerConfig struct {
    Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
    Driver   string `mapstructure:"driver"` // postgres | sqlite
    Host     string `mapstructure:"host"`
    Port     int    `mapstructure:"port"`
    User     string `mapstructure:"user"`
    Password string `mapstructure:"password"`
    DBName   string `mapstructure:"dbname"`
    SSLMode  string `mapstructure:"sslmode"`
    // Path is only used by the sqlite driver.
    Path string `mapstructure:"path"`
}

func (d DatabaseConfig) DSN() string {
    return fmt.Sprintf(
        "host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
        d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
    )
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
}

type RabbitMQConfig struct {
    URL        string `mapstructure:"url"`
    Exchange   string `mapstructure:"exchange"`
    RoutingKey string `mapstructure:"routing_key"`
    QueueName  string `mapstructure:"queue_name"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type FanoutConfig struct {
    BatchSize int `mapstructure:"batch_size"`
}

type ScheduleConfig struct {
    TickInterval  time.Duration `mapstructure:"tick_interval"`
    BufferMinutes int           `mapstructure:"buffer_minutes"`
    BatchSize     int           `mapstructure:"batch_size"`
    LockTTL       time.Duration `mapstructure:"lock_ttl"`
}

// Load 读取 config.yaml（可用 FEEDCORE_ 前缀环境变量覆盖）
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")

    v.SetEnvPrefix("FEEDCORE")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    v.SetDefault("debug", false)
    v.SetDefault("server.addr", ":8080")
    v.SetDefault("database.driver", "postgres")
    v.SetDefault("database.sslmode", "disable")
    v.SetDefault("redis.addr", "127.0.0.1:6379")
    v.SetDefault("rabbitmq.exchange", "feedcore")
    v.SetDefault("rabbitmq.routing_key", "content.publish")
    v.SetDefault("rabbitmq.queue_name", "content_publish_jobs")
    v.SetDefault("fanout.batch_size", 1000)
    v.SetDefault("schedule.tick_interval", time.Minute)
    v.SetDefault("schedule.buffer_minutes", 1)
    v.SetDefault("schedule.batch_size", 100)
    v.SetDefault("schedule.lock_ttl", 5*time.Second)

    if err := v.ReadInConfig(); err != nil {
        // 配置文件可选，全部走默认值/环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("unmarshal config: %w", err)
    }
    return &cfg, nil
}
