package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	Turso        TursoConfig
	SlotDuration time.Duration
	Auth         AuthConfig
	Push         PushConfig
	Slack        SlackConfig
	Events       EventsConfig
	Redis        RedisConfig
	CORSOrigins  []string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type AuthConfig struct {
	JWTSecret string
	DevTokens bool
}
type PushConfig struct {
	ServerKey     string
	Endpoint      string
	RatePerSecond float64
}
type SlackConfig struct {
	Token     string
	ChannelID string
}

// EventsConfig selects the broker domain events are published to.
// Backend is one of "pubsub", "amqp" or "none".
type EventsConfig struct {
	Backend   string
	ProjectID string
	AMQPURL   string
}

// RedisConfig is optional. An empty Addr keeps the change feed in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}
