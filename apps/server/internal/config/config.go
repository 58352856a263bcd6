package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Table  TableConfig  `mapstructure:"table"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	NATS   NATSConfig   `mapstructure:"nats"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Mode    string        `mapstructure:"mode"` // gin mode: debug, release, test
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type TableConfig struct {
	WinningThreshold      int           `mapstructure:"winning_threshold"`
	AllowDealerPassRound2 bool          `mapstructure:"allow_dealer_pass_round2"`
	AllowObservers        bool          `mapstructure:"allow_observers"`
	TrickPause            time.Duration `mapstructure:"trick_pause"`
	Passphrase            string        `mapstructure:"passphrase"`
	PassphraseHash        string        `mapstructure:"passphrase_hash"`
	PersonasFile          string        `mapstructure:"personas_file"`
}

type LedgerConfig struct {
	Mode        string `mapstructure:"mode"` // memory, sqlite, postgres
	Path        string `mapstructure:"path"`
	DSN         string `mapstructure:"dsn"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	Subject       string        `mapstructure:"subject"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	PoolSize  int           `mapstructure:"pool_size"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.idle_ttl", 10*time.Minute)

	v.SetDefault("table.winning_threshold", 1001)
	v.SetDefault("table.allow_dealer_pass_round2", false)
	v.SetDefault("table.allow_observers", true)
	v.SetDefault("table.trick_pause", 1500*time.Millisecond)
	v.SetDefault("table.passphrase", "")
	v.SetDefault("table.passphrase_hash", "")
	v.SetDefault("table.personas_file", "")

	v.SetDefault("ledger.mode", "memory")
	v.SetDefault("ledger.path", "")
	v.SetDefault("ledger.dsn", "")
	v.SetDefault("ledger.recent_limit", 200)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "belote")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "belote")
	v.SetDefault("redis.ttl", 24*time.Hour)
}

// Load 加载配置. path may be empty; BELOTE_* environment variables
// (e.g. BELOTE_LEDGER_MODE, BELOTE_TABLE_TRICK_PAUSE) override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BELOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Ledger.Mode)) {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported ledger mode %q", c.Ledger.Mode)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server mode %q", c.Server.Mode)
	}
	if c.Table.WinningThreshold <= 0 {
		return fmt.Errorf("table.winning_threshold must be > 0")
	}
	if c.Table.TrickPause < 0 {
		return fmt.Errorf("table.trick_pause must be >= 0")
	}
	return nil
}
