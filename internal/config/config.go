package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Service holds general service settings
type Service struct {
	Environment string `default:"development"`
	APIPort     string `default:"8080"`
	Host        string `default:"localhost:8080"`
}

// SQS holds ingestion queue settings
type SQS struct {
	Endpoint string
	QueueURL string `required:"true"`
	Region   string `required:"true"`
}

// ClickHouse holds event store settings
type ClickHouse struct {
	Host            string `required:"true"`
	Port            string `default:"9000"`
	Database        string `required:"true"`
	User            string `default:""`
	Password        string `default:""`
	UseTLS          bool   `default:"false"`
	MaxOpenConns    int    `default:"5"`
	MaxIdleConns    int    `default:"2"`
	ConnMaxLifetime int    `default:"3600"`
}

// Redis holds session and account-link store settings
type Redis struct {
	Addr     string `required:"true"`
	Password string `default:""`
	DB       int    `default:"0"`
}

// Consumer holds batch writer settings
type Consumer struct {
	BatchSizeMax    int    `default:"2000"`
	BatchTimeoutSec int    `default:"10"`
	HealthCheckPort string `default:"8081"`
}

// Identity holds visitor identity settings
type Identity struct {
	CookiePrefix  string `default:"fluxa"`
	CookieSecret  string `required:"true"`
	CookieTTLDays int    `default:"365"`
	TokenSecret   string `required:"true"`
}

// Tracking is the read-only tracking policy owned by the admin layer
type Tracking struct {
	Enabled      bool   `default:"true"`
	EnabledTypes string `default:""`
	Audience     string `default:"all"`
}

// Assistant holds settings for the external conversational AI service
type Assistant struct {
	BaseURL            string
	APIKey             string
	ReplicaID          string
	TimeoutMs          int `default:"3000"`
	ProvisionTimeoutMs int `default:"1500"`
}

type Config struct {
	Service    Service
	SQS        SQS
	ClickHouse ClickHouse
	Redis      Redis
	Consumer   Consumer
	Identity   Identity
	Tracking   Tracking
	Assistant  Assistant
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// EnabledTypeSet parses the comma-separated per-event-type enable list.
// An empty list means every type is enabled.
func (t Tracking) EnabledTypeSet() map[string]bool {
	if strings.TrimSpace(t.EnabledTypes) == "" {
		return nil
	}

	set := make(map[string]bool)
	for _, name := range strings.Split(t.EnabledTypes, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = true
		}
	}
	return set
}
