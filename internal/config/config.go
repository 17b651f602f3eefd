package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Network describes the chain the dashboard talks to.
type Network struct {
	Name        string
	ChainID     int64
	RPCURL      string
	ExplorerURL string
	Testnet     bool
}

// IsCorrectNetwork reports whether chainID matches the configured chain.
func (n Network) IsCorrectNetwork(chainID int64) bool {
	return chainID == n.ChainID
}

var (
	polygonMainnet = Network{
		Name:        "Polygon",
		ChainID:     137,
		RPCURL:      "https://polygon-rpc.com",
		ExplorerURL: "https://polygonscan.com",
	}
	polygonAmoy = Network{
		Name:        "Polygon Amoy",
		ChainID:     80002,
		RPCURL:      "https://rpc-amoy.polygon.technology",
		ExplorerURL: "https://amoy.polygonscan.com",
		Testnet:     true,
	}
)

// Contracts holds the six vesting contract addresses.
type Contracts struct {
	Ecosystem       string
	Foundation      string
	PrivateInvestor string
	Team            string
	Marketing       string
	Advisor         string
}

// All returns the contract addresses keyed by their env variable name.
func (c Contracts) All() map[string]string {
	return map[string]string{
		"VESTING_ECOSYSTEM_ADDRESS":        c.Ecosystem,
		"VESTING_FOUNDATION_ADDRESS":       c.Foundation,
		"VESTING_PRIVATE_INVESTOR_ADDRESS": c.PrivateInvestor,
		"VESTING_TEAM_ADDRESS":             c.Team,
		"VESTING_MARKETING_ADDRESS":        c.Marketing,
		"VESTING_ADVISOR_ADDRESS":          c.Advisor,
	}
}

// Config is built once at startup and shared read-only.
type Config struct {
	// HTTP Server
	Port        string
	Environment string

	// Logging
	LogLevel  string
	LogFormat string

	// Chain
	Network        Network
	Contracts      Contracts
	ManagerAddress string
	TokenAddress   string
	ReleaseKey     string
	ChainTimeout   time.Duration

	// Key-value store
	KVBackend     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLiteDBPath  string

	// Session
	SessionSecret string
	SessionTTL    time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	DashboardCacheTTL time.Duration
	DisplayTimezone   string

	// Worker
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
}

func Load() *Config {
	env := getEnv("APP_ENV", EnvDevelopment)

	network := polygonMainnet
	if env == EnvDevelopment || getEnv("NETWORK", NetworkMainnet) == NetworkTestnet {
		network = polygonAmoy
	}
	network.RPCURL = getEnv("RPC_URL", network.RPCURL)
	network.ExplorerURL = getEnv("EXPLORER_URL", network.ExplorerURL)

	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		Environment: env,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Network: network,
		Contracts: Contracts{
			Ecosystem:       getEnv("VESTING_ECOSYSTEM_ADDRESS", "0x4f1202E6e6f2f2BeB96CcBc5c1E0dc739Fa6e7e8"),
			Foundation:      getEnv("VESTING_FOUNDATION_ADDRESS", "0xfc5221B71D694f34621BF424A2431FE41EDD6131"),
			PrivateInvestor: getEnv("VESTING_PRIVATE_INVESTOR_ADDRESS", "0xe2a592F2B71f53aB10De1293dfe73D6A178E4ea1"),
			Team:            getEnv("VESTING_TEAM_ADDRESS", "0x022022BCd209234D89FE605F42F57b5Af38276d7"),
			Marketing:       getEnv("VESTING_MARKETING_ADDRESS", "0x4cee01b5766A55Ce59602AECFc59df64a33a9959"),
			Advisor:         getEnv("VESTING_ADVISOR_ADDRESS", "0x067De3706DaBC25b27B6a816Cea216e2723739ab"),
		},
		ManagerAddress: getEnv("VESTING_MANAGER_ADDRESS", "0x8CC178bB60Ae361a655610009D3B4E18d64D0b22"),
		TokenAddress:   getEnv("VESTING_TOKEN_ADDRESS", "0x0000000000000000000000000000000000000000"),
		ReleaseKey:     getEnv("RELEASE_PRIVATE_KEY", ""),
		ChainTimeout:   getEnvDuration("CHAIN_TIMEOUT", 10*time.Second),

		KVBackend:     getEnv("KV_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/vestadmin.db"),

		SessionSecret: getEnv("JWT_SECRET", "your-secret-key-please-change-in-production"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "vestadmin"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "release_submitted"),

		DashboardCacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 15*time.Second),
		DisplayTimezone:   getEnv("DISPLAY_TIMEZONE", "Asia/Seoul"),

		ReceiptTimeout:      getEnvDuration("RECEIPT_TIMEOUT", 5*time.Minute),
		ReceiptPollInterval: getEnvDuration("RECEIPT_POLL_INTERVAL", 5*time.Second),
	}

	return cfg
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ReleaseEnabled reports whether a server-side signer is configured.
func (c *Config) ReleaseEnabled() bool {
	return c.ReleaseKey != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be one of [%s %s]", c.Environment, EnvDevelopment, EnvProduction))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Validate RPC endpoint
	if parsedURL, err := url.Parse(c.Network.RPCURL); err != nil || parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid RPC URL '%s'", c.Network.RPCURL))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" && parsedURL.Scheme != "ws" && parsedURL.Scheme != "wss" {
		errors = append(errors, fmt.Sprintf("invalid RPC URL scheme '%s': must be http(s) or ws(s)", parsedURL.Scheme))
	}

	// Validate contract addresses
	seen := make(map[common.Address]string)
	for name, addr := range c.Contracts.All() {
		if !common.IsHexAddress(addr) {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': not a hex address", name, addr))
			continue
		}
		key := common.HexToAddress(addr)
		if other, dup := seen[key]; dup {
			errors = append(errors, fmt.Sprintf("%s duplicates %s", name, other))
		}
		seen[key] = name
	}
	if !common.IsHexAddress(c.ManagerAddress) {
		errors = append(errors, fmt.Sprintf("invalid VESTING_MANAGER_ADDRESS '%s': not a hex address", c.ManagerAddress))
	}
	if !common.IsHexAddress(c.TokenAddress) {
		errors = append(errors, fmt.Sprintf("invalid VESTING_TOKEN_ADDRESS '%s': not a hex address", c.TokenAddress))
	}
	if c.ChainTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid chain timeout %v: must be at least 1 second", c.ChainTimeout))
	}

	// Validate key-value backend
	validBackends := []string{"memory", "redis", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.KVBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid kv backend '%s': must be one of %v", c.KVBackend, validBackends))
	}

	if c.KVBackend == "redis" && c.RedisAddr == "" {
		errors = append(errors, "Redis address cannot be empty when using redis backend")
	}
	if c.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("invalid redis db %d: must not be negative", c.RedisDB))
	}

	if c.KVBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate session settings
	if len(c.SessionSecret) < 16 {
		errors = append(errors, "session secret must be at least 16 characters")
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DashboardCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache TTL %v: must not be negative", c.DashboardCacheTTL))
	}
	if c.ReceiptPollInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid receipt poll interval %v: must be at least 1 second", c.ReceiptPollInterval))
	}
	if c.ReceiptTimeout < c.ReceiptPollInterval {
		errors = append(errors, fmt.Sprintf("invalid receipt timeout %v: must not be shorter than the poll interval", c.ReceiptTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
