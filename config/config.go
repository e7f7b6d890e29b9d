package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database     DatabaseConfigs     `toml:"database"`
	Auth         AuthConfigs         `toml:"auth"`
	Notification NotificationConfigs `toml:"notification"`
	Lobby        LobbyConfigs        `toml:"lobby"`
	Task         TaskConfigs         `toml:"task"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	SnowFlake    SnowFlakeConfigs    `toml:"snowflake"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type NotificationConfigs struct {
	Server ServerConfigs `toml:"server"`

	// SessionBufferSize is the number of group events a connection can hold
	// before new events for it are dropped.
	SessionBufferSize int `toml:"session_buffer_size"`

	// Registry is either "memory" or "redis".
	Registry string `toml:"registry"`

	HeartbeatInterval time.Duration `toml:"heartbeat_interval"`
	HeartbeatTTL      time.Duration `toml:"heartbeat_ttl"`
}

type LobbyConfigs struct {
	MaxMessageLength int `toml:"max_message_length"`
	DefaultHistory   int `toml:"default_history"`
	MaxHistory       int `toml:"max_history"`
}

type TaskConfigs struct {
	// Queue is either "memory" or "kafka".
	Queue       string        `toml:"queue"`
	Topic       string        `toml:"topic"`
	RetryTopic  string        `toml:"retry_topic"`
	GroupID     string        `toml:"group_id"`
	MaxAttempts int           `toml:"max_attempts"`
	MinBackoff  time.Duration `toml:"min_backoff"`
	MaxBackoff  time.Duration `toml:"max_backoff"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr []string `toml:"addr"`
}

type SnowFlakeConfigs struct {
	NodeID int64 `toml:"node_id"`
}

// Default returns the configurations used when a key is missing from the
// configuration file.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "classroom",
			User:     "mysql",
			LogLevel: "error",
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 5 * time.Minute,
			},
		},
		Notification: NotificationConfigs{
			Server:            ServerConfigs{Port: "8082", AllowedOrigins: []string{"*"}},
			SessionBufferSize: 64,
			Registry:          "memory",
			HeartbeatInterval: 10 * time.Second,
			HeartbeatTTL:      30 * time.Second,
		},
		Lobby: LobbyConfigs{
			MaxMessageLength: 1000,
			DefaultHistory:   50,
			MaxHistory:       200,
		},
		Task: TaskConfigs{
			Queue:       "memory",
			Topic:       "notification_tasks",
			RetryTopic:  "notification_tasks_retry",
			GroupID:     "notification_worker",
			MaxAttempts: 5,
			MinBackoff:  time.Second,
			MaxBackoff:  time.Minute,
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{Addr: []string{"localhost:9092"}},
	}
}

// Load reads the TOML file at path on top of Default, then applies the
// environment overrides. An empty path skips the file.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Notification.Server.Port, "NOTIFICATION_PORT")
	setString(&cfg.Notification.Registry, "NOTIFICATION_REGISTRY")
	setString(&cfg.Task.Queue, "TASK_QUEUE")
	setString(&cfg.Redis.Addr, "REDIS_ADDRESS")

	if v := os.Getenv("KAFKA_ADDRESS"); v != "" {
		cfg.Kafka.Addr = []string{v}
	}

	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SNOWFLAKE_NODE_ID: %w", err)
		}
		cfg.SnowFlake.NodeID = id
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
