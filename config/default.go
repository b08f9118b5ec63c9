package config

import "time"

// Default returns the configurations used when a key is absent from the
// configuration file.
func Default() Configs {
	return Configs{
		Env: "local",
		Log: LogConfigs{Level: "info", Pretty: true},
		Database: DatabaseConfigs{
			Driver:       "sqlite",
			Database:     "ywitter.db",
			LogLevel:     "silent",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Host: "", Port: "8080"},
			AllowedOrigins: []string{"*"},
			DefaultLimit:   20,
			MaxLimit:       100,
		},
		Prometheus: ServerConfigs{Host: "", Port: "9090"},
		Auth: AuthConfigs{
			Issuer:      "ywitter",
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 24 * time.Hour},
		},
		Kafka: KafkaConfigs{
			Addr:          "localhost:9092",
			ClientID:      "ywitter",
			ConsumerGroup: "ywitter-webhook",
		},
		SearchServer: SearchServerConfigs{IndexDir: "search_index"},
		Post: PostConfigs{
			MaxContentLength:     280,
			MentionPreviewLength: 100,
			MaxHashtagLength:     50,
		},
		Poll: PollConfigs{
			DefaultDuration: 24 * time.Hour,
			MaxDuration:     30 * 24 * time.Hour,
			MinOptions:      2,
			MaxOptions:      10,
			MaxOptionLength: 100,
		},
		Message: MessageConfigs{MaxBodyLength: 1000},
		Ad:      AdConfigs{CostPerClick: 0.1},
		Webhook: WebhookConfigs{
			Topic:       "webhook",
			Timeout:     10 * time.Second,
			MaxAttempts: 3,
			RetryDelay:  time.Second,
		},
		Security: SecurityConfigs{TOTPIssuer: "Ywitter", BackupCodeCount: 10},
	}
}
