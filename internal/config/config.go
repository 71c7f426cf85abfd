package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const dotEnvFile = ".env"

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET"`

	PaymentProviderURL string `env:"PAYMENT_PROVIDER_URL"`
	PaymentProviderKey string `env:"PAYMENT_PROVIDER_KEY"`

	PlatformFeePercent decimal.Decimal `env:"PLATFORM_FEE_PERCENT" envDefault:"10"`
	Currency           string          `env:"CURRENCY"             envDefault:"USD"`

	SweepInterval     time.Duration `env:"SWEEP_INTERVAL"      envDefault:"1m"`
	AutoReleaseWindow time.Duration `env:"AUTO_RELEASE_WINDOW" envDefault:"72h"`
	TransferWorkers   int           `env:"TRANSFER_WORKERS"    envDefault:"5"`
	QueueConcurrency  int           `env:"QUEUE_CONCURRENCY"   envDefault:"10"`
}

// LoadConfig reads an optional .env file, then the environment, then args. Environment values win over flags.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %s", dotEnvFile, err.Error())
	}

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config, args []string) error {
	flags := flag.NewFlagSet("ledger", flag.ContinueOnError)
	flags.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flags.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flags.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flags.StringVar(&flagConfig.RedisAddr, "r", "localhost:6379", "Redis address in format host:port")
	flags.StringVar(&flagConfig.PaymentProviderURL, "p", "http://localhost:12111", "Payment provider base URL")

	return flags.Parse(args) //nolint:wrapcheck
}

// mergeConfig flags only cover the connection settings, everything else comes from the environment.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	conf.RedisAddr = defaultIfBlank(envConfig.RedisAddr, flagsConfig.RedisAddr)
	conf.PaymentProviderURL = defaultIfBlank(envConfig.PaymentProviderURL, flagsConfig.PaymentProviderURL)
	return &conf
}

func (c *Config) validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database DSN is not set")
	case c.JWTSecret == "":
		return errors.New("JWT secret is not set")
	case c.PlatformFeePercent.IsNegative() || c.PlatformFeePercent.GreaterThan(decimal.NewFromInt(100)):
		return fmt.Errorf("platform fee percent %s is out of [0, 100]", c.PlatformFeePercent)
	case len(c.Currency) != 3: //nolint:mnd
		return fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency)
	case c.SweepInterval <= 0:
		return errors.New("sweep interval must be positive")
	case c.TransferWorkers <= 0 || c.QueueConcurrency <= 0:
		return errors.New("worker counts must be positive")
	}
	return nil
}

// String hides secrets so the config can be logged.
func (c *Config) String() string {
	masked := *c
	for _, secret := range []*string{&masked.DatabaseDSN, &masked.RedisPassword, &masked.JWTSecret, &masked.PaymentProviderKey} {
		if *secret != "" {
			*secret = "***"
		}
	}
	type plain Config
	return fmt.Sprintf("%+v", plain(masked))
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
