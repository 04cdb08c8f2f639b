// Package config loads the sync gateway's YAML configuration, with
// environment variable expansion, matching the original board server's
// config layer. The WebSocket and Logging sections are parsed but not
// read by the gateway.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//nolint:govet // fieldalignment: struct field order optimized for readability over memory
type Config struct {
	App         AppConfig         `yaml:"app"`
	Store       StoreConfig       `yaml:"store"`
	Broker      BrokerConfig      `yaml:"broker"`
	EventBus    EventBusConfig    `yaml:"eventbus"`
	BlobStore   BlobStoreConfig   `yaml:"blobstore"`
	Session     SessionConfig     `yaml:"session"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	CORS        CORSConfig        `yaml:"cors"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type AppConfig struct {
	Name  string `yaml:"name"`
	Env   string `yaml:"env"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

// StoreConfig configures the Postgres pool backing the change/snapshot
// store (§4.M).
//
//nolint:govet // fieldalignment: struct field order optimized for readability
type StoreConfig struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	Name                  string `yaml:"name"`
	User                  string `yaml:"user"`
	Password              string `yaml:"password"`
	SSLMode               string `yaml:"ssl_mode"`
	MaxConnections        int    `yaml:"max_connections"`
	MaxIdleConnections    int    `yaml:"max_idle_connections"`
	ConnectionMaxLifetime int    `yaml:"connection_max_lifetime"`
}

// BrokerConfig configures the Redis pub/sub fan-out between gateway
// instances (§4.N).
//
//nolint:govet // fieldalignment: struct field order optimized for readability
type BrokerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	MaxRetries int    `yaml:"max_retries"`
	PoolSize   int    `yaml:"pool_size"`
}

// EventBusConfig configures the NATS document-event stream (§4.O).
type EventBusConfig struct {
	URL           string `yaml:"url"`
	MaxReconnect  int    `yaml:"max_reconnect"`
	ReconnectWait int    `yaml:"reconnect_wait"`
	Subject       string `yaml:"subject"`
}

// BlobStoreConfig configures the MinIO bucket snapshots and thumbnails
// are exported to (§4.P, §4.Q).
//
//nolint:govet // fieldalignment: struct field order optimized for readability
type BlobStoreConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	BucketSnapshots string `yaml:"bucket_snapshots"`
}

// SessionConfig configures JWT verification of the actor identity
// attached to a sync connection (§4.R).
type SessionConfig struct {
	Secret       string `yaml:"secret"`
	TokenExpiry  string `yaml:"token_expiry"`
	ClockSkew    string `yaml:"clock_skew"`
}

// CoordinatorConfig configures the client-credentials token source used
// to authenticate this gateway instance against a coordinator cluster
// (§4.S).
type CoordinatorConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	TokenURL     string   `yaml:"token_url"`
	Scopes       []string `yaml:"scopes"`
	// Endpoint is the upstream coordinator's base URL ChangePacks are
	// forwarded to. Empty disables federation forwarding entirely.
	Endpoint string `yaml:"endpoint"`
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
	MaxMessageSize  int `yaml:"max_message_size"`
	PingPeriod      int `yaml:"ping_period"`
	PongWait        int `yaml:"pong_wait"`
	WriteWait       int `yaml:"write_wait"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file, expanding ${VAR} references
// against the process environment before unmarshaling.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetDSN returns the PostgreSQL connection string for the store pool.
func (c *StoreConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetAddr returns the broker's Redis address.
func (c *BrokerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetTokenExpiry parses the session token lifetime.
func (c *SessionConfig) GetTokenExpiry() (time.Duration, error) {
	return time.ParseDuration(c.TokenExpiry)
}

// GetClockSkew parses the allowed clock skew for token validation.
func (c *SessionConfig) GetClockSkew() (time.Duration, error) {
	if c.ClockSkew == "" {
		return 0, nil
	}
	return time.ParseDuration(c.ClockSkew)
}
