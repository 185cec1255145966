package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the support bot.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Orders   OrdersConfig   `yaml:"orders"`
	Cache    CacheConfig    `yaml:"cache"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig locates the product catalog and FAQ files.
type DataConfig struct {
	Dir             string   `yaml:"dir"`
	ProductsFile    string   `yaml:"products_file"`    // explicit path, overrides discovery
	FAQFile         string   `yaml:"faq_file"`         // explicit path, overrides discovery
	ProductPatterns []string `yaml:"product_patterns"` // doublestar patterns relative to Dir
	FAQPatterns     []string `yaml:"faq_patterns"`
}

// RetrieveConfig holds the routing and matching policy.
type RetrieveConfig struct {
	AmbiguousTerms []string `yaml:"ambiguous_terms"`
	Qualifiers     []string `yaml:"qualifiers"`
	ProductFields  []string `yaml:"product_fields"` // any of name, category, gender, style
	ProductLimit   int      `yaml:"product_limit"`  // 0 = unlimited
	OrderIDPattern string   `yaml:"order_id_pattern"`
}

// OrdersConfig selects where order status comes from.
type OrdersConfig struct {
	Mode    string            `yaml:"mode"` // "memory", "http" or "off"
	BaseURL string            `yaml:"base_url"`
	Timeout time.Duration     `yaml:"timeout"`
	Mock    []MockOrderConfig `yaml:"mock"`
}

type MockOrderConfig struct {
	ID                string `yaml:"id"`
	Status            string `yaml:"status"`
	EstimatedDelivery string `yaml:"estimated_delivery"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend"` // "memory", "redis" or "off"
	MaxSize   int           `yaml:"max_size"`
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
	KeyPrefix string        `yaml:"key_prefix"`
}

type SessionConfig struct {
	Backend      string `yaml:"backend"` // "memory", "bolt" or "postgres"
	HistoryLimit int    `yaml:"history_limit"`
	BoltPath     string `yaml:"bolt_path"`
	PostgresEnv  string `yaml:"postgres_env"` // environment variable holding the DSN
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	OrdersAddr     string   `yaml:"orders_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LLMConfig configures the optional answer phrasing model.
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:             "data",
			ProductPatterns: []string{"products.jsonl", "products.csv", "**/products.jsonl", "**/products.csv"},
			FAQPatterns:     []string{"faq.jsonl", "faq.txt", "**/faq.jsonl", "**/faq.txt"},
		},
		Retrieve: RetrieveConfig{
			AmbiguousTerms: []string{"jeans", "shirt", "t-shirt", "trousers", "shoes", "jacket"},
			Qualifiers:     []string{"men", "woman", "women", "kid", "kids", "boy", "girl"},
			ProductFields:  []string{"name", "category", "gender", "style"},
			ProductLimit:   5,
			OrderIDPattern: `(?i)\bORD\d+\b`,
		},
		Orders: OrdersConfig{
			Mode:    "memory",
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 5 * time.Second,
			Mock: []MockOrderConfig{
				{ID: "ORD12345", Status: "Shipped", EstimatedDelivery: "2 days"},
				{ID: "ORD67890", Status: "Processing", EstimatedDelivery: "5 days"},
				{ID: "ORD54321", Status: "Delivered", EstimatedDelivery: "N/A"},
			},
		},
		Cache: CacheConfig{
			Backend:   "memory",
			MaxSize:   256,
			TTL:       10 * time.Minute,
			RedisAddr: "127.0.0.1:6379",
			KeyPrefix: "supportbot:result:",
		},
		Session: SessionConfig{
			Backend:      "memory",
			HistoryLimit: 20,
			PostgresEnv:  "DATABASE_URL",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			OrdersAddr:     ":5000",
			AllowedOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Enabled:     false,
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for supportbot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "supportbot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".supportbot", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir returns the data directory, relative paths anchored at root.
func (c *Config) ResolveDataDir(root string) string {
	if filepath.IsAbs(c.Data.Dir) {
		return c.Data.Dir
	}
	return filepath.Join(root, c.Data.Dir)
}

// SnapshotPath returns the path to the compiled knowledge snapshot.
func SnapshotPath(dir string) string {
	return filepath.Join(dir, ".supportbot", "knowledge.db")
}

// SessionDBPath returns the default path of the bolt session log.
func SessionDBPath(dir string) string {
	return filepath.Join(dir, ".supportbot", "sessions.db")
}

// EnsureStateDir ensures the .supportbot directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".supportbot"), 0755)
}
