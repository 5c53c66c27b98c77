package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only the variables needed by the selected
// store backend are required; everything else falls back to a default
// suitable for a single-machine demo.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	LogLevel       string        // zap level name (debug, info, warn, error)
	StoreDriver    string        // memory, redis or mysql
	StoreNamespace string        // prefix shared by every store key
	DBUser         string        // database username (mysql driver)
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign session tokens
	SessionTTL     time.Duration // lifetime of a session token
	TaxRate        string        // decimal tax rate applied at checkout
	SaleIDPrefix   string        // prefix of generated sale ids
	Seed           int64         // bootstrap data seed; 0 derives one from the clock
	AMQPURL        string        // broker for sale events; empty disables publishing
	SalesLogDir    string        // directory the sales consumer appends to
	SalesConsumer  bool          // run the sales.completed consumer in-process
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is loaded first when
// present; real environment variables win over its contents.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", "memory")),
		StoreNamespace: getenv("STORE_NAMESPACE", "cinema"),
		JWTSecret:      getenv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_MIN", 8*60)) * time.Minute,
		TaxRate:        getenv("TAX_RATE", "0.16"),
		SaleIDPrefix:   getenv("SALE_ID_PREFIX", "STAR"),
		Seed:           envInt64("SEED", 0),
		AMQPURL:        amqpURL(),
		SalesLogDir:    getenv("SALES_LOG_DIR", "logs"),
		SalesConsumer:  envBool("SALES_CONSUMER", true),
	}
	if cfg.StoreDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// amqpURL accepts either RABBITMQ_URL or AMQP_URL.  Unlike the other
// settings there is no default: without a broker URL sale events are
// simply not published.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
