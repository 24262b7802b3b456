package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Audit      AuditConfig
	Classifier ClassifierConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings. Driver selects the
// backing store: "postgres" for the server deployment, "sqlite" for local
// single-file audits.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	RequestTimeout time.Duration // per-request deadline for audit runs
	TrustedProxies []string

	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// AuditConfig holds the audit engine thresholds. These are business
// assumptions, not algorithmic constants; every deployment may tune them.
type AuditConfig struct {
	LargeTransactionLimit   float64
	NearDuplicateThreshold  float64
	RoundNumberGranularity  int64
	RoundNumberWarnCount    int
	EndOfPeriodWindowDays   int
	Tolerance               float64
	WarningCountsAsHalfPass bool
}

// ClassifierConfig holds the account-code prefix conventions. Empty lists
// fall back to the standard chart defaults.
type ClassifierConfig struct {
	CashPrefixes             []string
	CurrentAssetPrefixes     []string
	InventoryPrefixes        []string
	CurrentLiabilityPrefixes []string
	AssetPrefixes            []string
	LiabilityPrefixes        []string
	EquityPrefixes           []string
	RevenuePrefixes          []string
	ExpensePrefixes          []string
	COGSPrefixes             []string
	DepreciationPrefixes     []string
	InvestingPrefixes        []string
	FinancingPrefixes        []string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with AUDIT_ prefix (e.g., AUDIT_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			RequestTimeout: v.GetDuration("http.request_timeout"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),

			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		Audit: AuditConfig{
			LargeTransactionLimit:   v.GetFloat64("audit.large_transaction_limit"),
			NearDuplicateThreshold:  v.GetFloat64("audit.near_duplicate_threshold"),
			RoundNumberGranularity:  v.GetInt64("audit.round_number_granularity"),
			RoundNumberWarnCount:    v.GetInt("audit.round_number_warn_count"),
			EndOfPeriodWindowDays:   v.GetInt("audit.end_of_period_window_days"),
			Tolerance:               v.GetFloat64("audit.tolerance"),
			WarningCountsAsHalfPass: v.GetBool("audit.warning_counts_as_half_pass"),
		},
		Classifier: ClassifierConfig{
			CashPrefixes:             v.GetStringSlice("classifier.cash_prefixes"),
			CurrentAssetPrefixes:     v.GetStringSlice("classifier.current_asset_prefixes"),
			InventoryPrefixes:        v.GetStringSlice("classifier.inventory_prefixes"),
			CurrentLiabilityPrefixes: v.GetStringSlice("classifier.current_liability_prefixes"),
			AssetPrefixes:            v.GetStringSlice("classifier.asset_prefixes"),
			LiabilityPrefixes:        v.GetStringSlice("classifier.liability_prefixes"),
			EquityPrefixes:           v.GetStringSlice("classifier.equity_prefixes"),
			RevenuePrefixes:          v.GetStringSlice("classifier.revenue_prefixes"),
			ExpensePrefixes:          v.GetStringSlice("classifier.expense_prefixes"),
			COGSPrefixes:             v.GetStringSlice("classifier.cogs_prefixes"),
			DepreciationPrefixes:     v.GetStringSlice("classifier.depreciation_prefixes"),
			InvestingPrefixes:        v.GetStringSlice("classifier.investing_prefixes"),
			FinancingPrefixes:        v.GetStringSlice("classifier.financing_prefixes"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fintegrity-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "fintegrity"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "fintegrity.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB; audit requests are small
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Accept", "Origin"}
	}
	if cfg.Audit.LargeTransactionLimit == 0 {
		cfg.Audit.LargeTransactionLimit = 50_000_000
	}
	if cfg.Audit.NearDuplicateThreshold == 0 {
		cfg.Audit.NearDuplicateThreshold = 0.9
	}
	if cfg.Audit.RoundNumberGranularity == 0 {
		cfg.Audit.RoundNumberGranularity = 10
	}
	if cfg.Audit.RoundNumberWarnCount == 0 {
		cfg.Audit.RoundNumberWarnCount = 10
	}
	if cfg.Audit.EndOfPeriodWindowDays == 0 {
		cfg.Audit.EndOfPeriodWindowDays = 7
	}
	if cfg.Audit.Tolerance == 0 {
		cfg.Audit.Tolerance = 0.01
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be 'postgres' or 'sqlite', got %q", c.Database.Driver)
	}

	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	// Audit threshold sanity; the domain layer re-validates, but rejecting
	// bad values at load time gives a clearer error.
	if c.Audit.LargeTransactionLimit < 0 {
		return fmt.Errorf("audit.large_transaction_limit cannot be negative")
	}
	if c.Audit.NearDuplicateThreshold < 0 || c.Audit.NearDuplicateThreshold > 1 {
		return fmt.Errorf("audit.near_duplicate_threshold must be between 0.0 and 1.0, got %f", c.Audit.NearDuplicateThreshold)
	}
	if c.Audit.EndOfPeriodWindowDays < 0 {
		return fmt.Errorf("audit.end_of_period_window_days cannot be negative")
	}
	if c.Audit.Tolerance < 0 {
		return fmt.Errorf("audit.tolerance cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Driver == "postgres" {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
