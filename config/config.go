package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Log          LogConfigs
	Database     DatabaseConfigs
	ApiServer    APIServerConfigs
	Prometheus   ServerConfigs
	Auth         AuthConfigs
	Kafka        KafkaConfigs
	SearchServer SearchServerConfigs
	Post         PostConfigs
	Poll         PollConfigs
	Message      MessageConfigs
	Moderation   ModerationConfigs
	Ad           AdConfigs
	Webhook      WebhookConfigs
	Security     SecurityConfigs
}

type LogConfigs struct {
	Level  string
	Pretty bool
}

type DatabaseConfigs struct {
	// Driver is either mysql or sqlite. For sqlite, Database is the file path.
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string

	MaxOpenConns int
	MaxIdleConns int
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Database
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	AllowedOrigins []string
	DefaultLimit   int
	MaxLimit       int
}

type AuthConfigs struct {
	TokenSecret string
	Issuer      string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type KafkaConfigs struct {
	Addr          string
	ClientID      string
	ConsumerGroup string
}

type SearchServerConfigs struct {
	IndexDir string
}

type PostConfigs struct {
	MaxContentLength     int
	MentionPreviewLength int
	MaxHashtagLength     int
}

type PollConfigs struct {
	DefaultDuration time.Duration
	MaxDuration     time.Duration
	MinOptions      int
	MaxOptions      int
	MaxOptionLength int
}

type MessageConfigs struct {
	MaxBodyLength int
}

type ModerationConfigs struct {
	// SuperAdminUsername is promoted to the super admin role by the migrate
	// command. Nothing compares against it at request time.
	SuperAdminUsername string
}

type AdConfigs struct {
	CostPerClick float64
}

type WebhookConfigs struct {
	Topic       string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type SecurityConfigs struct {
	TOTPIssuer      string
	BackupCodeCount int
}
