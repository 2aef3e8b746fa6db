package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("SITEJOBS_TEST_DB_PASSWORD", "s3cret")

	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, DriverPostgres, cfg.Database.Driver)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "s3cret", cfg.Database.Password)
				assert.Equal(t, "sitejobs_db", cfg.Database.Database)
				assert.True(t, cfg.RabbitMQ.Enabled)
				assert.Equal(t, "notifications_exchange", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "notifications_dlx", cfg.RabbitMQ.Queue.DeadLetterExchange)
				assert.Equal(t, 64, cfg.Jobs.LockStripes)
				assert.Equal(t, 30*time.Second, cfg.Photos.Timeout)
				assert.Equal(t, 24*time.Hour, cfg.Notifier.MaxMessageAge)
				assert.Equal(t, "1234567890", cfg.WhatsApp.PhoneNumberID)
				assert.Equal(t, "sitejobs-api-service", cfg.App.Name)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			Database: "sitejobs_db",
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "notifications_exchange"},
			Queue:    QueueConfig{Name: "notifications_queue"},
		},
		Notifier: NotifierConfig{
			Sender:          SenderLog,
			Concurrency:     2,
			SendTimeout:     10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "memory driver needs nothing", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: DriverMemory} }},
		{name: "sqlite with path", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: DriverSQLite, Path: "jobs.db"} }},
		{name: "rabbitmq disabled skips its checks", mutate: func(c *Config) { c.RabbitMQ = RabbitMQConfig{} }},
		{name: "invalid server port - too low", mutate: func(c *Config) { c.Server.Port = 0 }, errString: "invalid server port"},
		{name: "invalid server port - too high", mutate: func(c *Config) { c.Server.Port = 70000 }, errString: "invalid server port"},
		{name: "empty database host", mutate: func(c *Config) { c.Database.Host = "" }, errString: "database host is required"},
		{name: "invalid database port", mutate: func(c *Config) { c.Database.Port = 0 }, errString: "invalid database port"},
		{name: "empty database name", mutate: func(c *Config) { c.Database.Database = "" }, errString: "database name is required"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: DriverSQLite} }, errString: "database path is required"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mongo" }, errString: "unsupported database driver"},
		{name: "empty rabbitmq host", mutate: func(c *Config) { c.RabbitMQ.Host = "" }, errString: "rabbitmq host is required"},
		{name: "empty exchange name", mutate: func(c *Config) { c.RabbitMQ.Exchange.Name = "" }, errString: "rabbitmq exchange name is required"},
		{name: "empty queue name", mutate: func(c *Config) { c.RabbitMQ.Queue.Name = "" }, errString: "rabbitmq queue name is required"},
		{name: "negative photo timeout", mutate: func(c *Config) { c.Photos.Timeout = -time.Second }, errString: "photos timeout"},
		{name: "negative lock stripes", mutate: func(c *Config) { c.Jobs.LockStripes = -1 }, errString: "lock_stripes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateNotifierConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name: "whatsapp sender with credentials",
			mutate: func(c *Config) {
				c.Notifier.Sender = SenderWhatsApp
				c.WhatsApp = WhatsAppConfig{APIURL: "https://graph.facebook.com/v18.0", PhoneNumberID: "1", AccessToken: "t"}
			},
		},
		{name: "rabbitmq is required", mutate: func(c *Config) { c.RabbitMQ = RabbitMQConfig{} }, errString: "rabbitmq host is required"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Notifier.Concurrency = 0 }, errString: "concurrency must be greater than 0"},
		{name: "zero send timeout", mutate: func(c *Config) { c.Notifier.SendTimeout = 0 }, errString: "send_timeout must be greater than 0"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Notifier.ShutdownTimeout = 0 }, errString: "shutdown_timeout must be greater than 0"},
		{name: "whatsapp without token", mutate: func(c *Config) {
			c.Notifier.Sender = SenderWhatsApp
			c.WhatsApp = WhatsAppConfig{APIURL: "https://graph.facebook.com/v18.0", PhoneNumberID: "1"}
		}, errString: "whatsapp access_token is required"},
		{name: "unknown sender", mutate: func(c *Config) { c.Notifier.Sender = "sms" }, errString: "unsupported notifier sender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateNotifierConfig()

			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateNotifierConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})

	t.Run("unset variables expand to empty", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		assert.Empty(t, cfg.Database.Password)
	})
}

func TestPortConstants(t *testing.T) {
	assert.Equal(t, 1, MinPort)
	assert.Equal(t, 65535, MaxPort)
}
