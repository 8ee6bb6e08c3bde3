package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Ledger LedgerConfig `yaml:"ledger"`

	Moderation struct {
		Denylist []string `yaml:"denylist"`
	} `yaml:"moderation"`
}

// LedgerConfig tunes the connector and the confirmation state machine.
type LedgerConfig struct {
	Backend       string `yaml:"backend"` // ethereum, simulated
	Endpoint      string `yaml:"endpoint"`
	ChainID       int64  `yaml:"chain_id"`
	PrivateKey    string `yaml:"private_key"`    // hex, no 0x prefix
	AnchorAddress string `yaml:"anchor_address"` // contract receiving review anchors

	ConnectAttempts       int           `yaml:"connect_attempts"`
	ConnectBackoff        time.Duration `yaml:"connect_backoff"`
	PollInterval          time.Duration `yaml:"poll_interval"`
	RequiredConfirmations int           `yaml:"required_confirmations"`
	ConfirmTimeout        time.Duration `yaml:"confirm_timeout"`

	// Fallbacks used when gas estimation itself fails. Estimation must
	// never block submission.
	DefaultGasLimit uint64 `yaml:"default_gas_limit"`
	DefaultGasPrice int64  `yaml:"default_gas_price"` // wei
}

// Load reads configuration from CONFIG_PATH (default config/config.yaml).
// When DATABASE_URL is set, environment variables win instead - that is
// the mode integration tests run in.
func Load() (*Config, error) {
	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTL = 60

		cfg.Ledger.Backend = os.Getenv("LEDGER_BACKEND")
		cfg.Ledger.Endpoint = os.Getenv("LEDGER_ENDPOINT")
		if chainID := os.Getenv("LEDGER_CHAIN_ID"); chainID != "" {
			cfg.Ledger.ChainID, _ = strconv.ParseInt(chainID, 10, 64)
		}
		cfg.Ledger.PrivateKey = os.Getenv("LEDGER_PRIVATE_KEY")
		cfg.Ledger.AnchorAddress = os.Getenv("LEDGER_ANCHOR_ADDRESS")

		cfg.applyDefaults()
		return &cfg, nil
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}

	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "simulated"
	}
	if c.Ledger.ConnectAttempts == 0 {
		c.Ledger.ConnectAttempts = 3
	}
	if c.Ledger.ConnectBackoff == 0 {
		c.Ledger.ConnectBackoff = 1 * time.Second
	}
	if c.Ledger.PollInterval == 0 {
		c.Ledger.PollInterval = 1500 * time.Millisecond
	}
	if c.Ledger.RequiredConfirmations == 0 {
		c.Ledger.RequiredConfirmations = 3
	}
	if c.Ledger.ConfirmTimeout == 0 {
		c.Ledger.ConfirmTimeout = 60 * time.Second
	}
	if c.Ledger.DefaultGasLimit == 0 {
		c.Ledger.DefaultGasLimit = 120_000
	}
	if c.Ledger.DefaultGasPrice == 0 {
		c.Ledger.DefaultGasPrice = 20_000_000_000 // 20 gwei
	}

	if len(c.Moderation.Denylist) == 0 {
		c.Moderation.Denylist = defaultDenylist
	}
}

// defaultDenylist is the fallback moderation policy. Production
// deployments are expected to override it in config.
var defaultDenylist = []string{
	"scam",
	"fraud",
	"spam",
	"fake",
}
