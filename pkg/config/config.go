package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers for the invoice counter.
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// Config groups the application settings (read through Viper from env and optionally a file).
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Storage  StorageConfig
	Branding BrandingConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig logger settings.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig PostgreSQL settings. Only used with STORAGE_DRIVER=postgres.
// A non-empty DatabaseURL is used as the full connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DATABASE_URL when set, DSN() otherwise.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL URL, escaping special characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StorageConfig where the counter lives and where PDFs are archived.
type StorageConfig struct {
	Driver       string // file | postgres
	CounterFile  string // plain-text counter, file driver only
	SequenceName string // counter row, postgres driver only
	ArchiveDir   string // empty = do not keep a copy of the PDFs
}

// BrandingConfig letterhead printed on every invoice.
type BrandingConfig struct {
	CompanyName string
	Slogan      string
	Address     string
	Phone       string
	Email       string
	Website     string
}

// Load reads the configuration from environment variables and, optionally, .env / config.env.
// Environment variables win. Expected names: APP_ENV, HTTP_PORT, STORAGE_DRIVER, COMPANY_NAME, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "invoice-pdf"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "invoices"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getString(v, "STORAGE_DRIVER", StorageDriverFile)),
			CounterFile:  getString(v, "COUNTER_FILE", "invoice_counter.txt"),
			SequenceName: getString(v, "SEQUENCE_NAME", "invoice"),
			ArchiveDir:   getString(v, "ARCHIVE_DIR", ""),
		},
		Branding: BrandingConfig{
			CompanyName: getString(v, "COMPANY_NAME", "Prajapati Electronics & Furniture Showroom"),
			Slogan:      getString(v, "COMPANY_SLOGAN", "Style Your Space, Power Your Life!"),
			Address:     getString(v, "COMPANY_ADDRESS", "Main Road, Sukheda, District Ratlam (M.P.)"),
			Phone:       getString(v, "COMPANY_PHONE", "+91 9977524020"),
			Email:       getString(v, "COMPANY_EMAIL", "prajapatifurnitures@gmail.com"),
			Website:     getString(v, "COMPANY_WEBSITE", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.CounterFile == "" {
			return fmt.Errorf("config: COUNTER_FILE is required with STORAGE_DRIVER=file")
		}
	case StorageDriverPostgres:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q (file|postgres)", c.Storage.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT out of range: %d", c.HTTP.Port)
	}
	if c.Branding.CompanyName == "" {
		return fmt.Errorf("config: COMPANY_NAME is required")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return -1
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
