package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "8080"
	defaultMySQLPort      = "3306"
	defaultRedisAddr      = "localhost:6379"
	defaultExchange       = "order.exchange"
	defaultPaytmWebsite   = "WEBSTAGING"
	defaultPaytmChannel   = "WEB"
	defaultPaytmIndustry  = "Retail"
	defaultPaytmPrefix    = "AARAMB_"
	defaultPaytmCallback  = "http://localhost:5000/api/payments/paytm/callback"
	defaultPaytmTimeout   = 10 * time.Second
	defaultFrontendURL    = "http://localhost:5173"
	defaultTokenTTL       = 24 * time.Hour
	defaultDealSweep      = time.Hour
	defaultReaperInterval = 5 * time.Minute
	defaultAbandonTimeout = 30 * time.Minute
	defaultLogLevel       = "info"
	productionEnvironment = "production"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	MySQL       MySQLConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Paytm       PaytmConfig
	Frontend    FrontendConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Sweeps      SweepConfig
}

type ServerConfig struct {
	Port string
}

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// DSN renders the go-sql-driver connection string.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Addr string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// PaytmConfig holds the merchant credentials and endpoints for the UPI gateway.
type PaytmConfig struct {
	MerchantID    string
	MerchantKey   string
	Website       string
	ChannelID     string
	IndustryType  string
	OrderIDPrefix string
	CallbackURL   string
	Timeout       time.Duration
}

type FrontendConfig struct {
	BaseURL string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StorageConfig struct {
	Bucket        string
	PublicBaseURL string
}

// SweepConfig controls the background deal-expiry and abandoned-order sweeps.
type SweepConfig struct {
	DealInterval   time.Duration
	ReaperInterval time.Duration
	AbandonTimeout time.Duration
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

func (c Config) Production() bool {
	return c.Environment == productionEnvironment
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	var invalid []string

	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return fallback
		}
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
		invalid = append(invalid, key)
		return fallback
	}

	cfg := Config{
		Environment: strings.ToLower(get("APP_ENV", "development")),
		LogLevel:    get("LOG_LEVEL", defaultLogLevel),
		Server: ServerConfig{
			Port: get("PORT", defaultPort),
		},
		MySQL: MySQLConfig{
			User:     get("MYSQL_USER", ""),
			Password: get("MYSQL_PASSWORD", ""),
			Host:     get("MYSQL_HOST", "localhost"),
			Port:     get("MYSQL_PORT", defaultMySQLPort),
			Database: get("MYSQL_DATABASE", ""),
		},
		Redis: RedisConfig{
			Addr: get("REDIS_ADDR", defaultRedisAddr),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      get("RABBITMQ_URL", ""),
			Exchange: get("RABBITMQ_EXCHANGE", defaultExchange),
		},
		Paytm: PaytmConfig{
			MerchantID:    get("PAYTM_MID", ""),
			MerchantKey:   get("PAYTM_MERCHANT_KEY", ""),
			Website:       get("PAYTM_WEBSITE", defaultPaytmWebsite),
			ChannelID:     get("PAYTM_CHANNEL_ID", defaultPaytmChannel),
			IndustryType:  get("PAYTM_INDUSTRY_TYPE_ID", defaultPaytmIndustry),
			OrderIDPrefix: get("PAYTM_ORDER_ID_PREFIX", defaultPaytmPrefix),
			CallbackURL:   get("PAYTM_CALLBACK_URL", defaultPaytmCallback),
			Timeout:       duration("PAYTM_TIMEOUT", defaultPaytmTimeout),
		},
		Frontend: FrontendConfig{
			BaseURL: strings.TrimRight(get("FRONTEND_URL", defaultFrontendURL), "/"),
		},
		Auth: AuthConfig{
			JWTSecret: get("JWT_SECRET", ""),
			TokenTTL:  duration("JWT_TTL", defaultTokenTTL),
		},
		Storage: StorageConfig{
			Bucket:        get("IMAGE_BUCKET", ""),
			PublicBaseURL: strings.TrimRight(get("IMAGE_PUBLIC_BASE_URL", "https://storage.googleapis.com"), "/"),
		},
		Sweeps: SweepConfig{
			DealInterval:   duration("DEAL_SWEEP_INTERVAL", defaultDealSweep),
			ReaperInterval: duration("ORDER_REAPER_INTERVAL", defaultReaperInterval),
			AbandonTimeout: duration("ORDER_ABANDON_TIMEOUT", defaultAbandonTimeout),
		},
	}

	if cfg.Paytm.MerchantID == "" {
		invalid = append(invalid, "PAYTM_MID")
	}
	// AES-128 needs a 16 byte merchant key.
	if len(cfg.Paytm.MerchantKey) != 16 {
		invalid = append(invalid, "PAYTM_MERCHANT_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		invalid = append(invalid, "JWT_SECRET")
	}
	if len(invalid) > 0 {
		return cfg, &ValidationError{fields: invalid}
	}
	return cfg, nil
}
