package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Signing and hashing parameters are fixed at
// startup and read-only afterwards.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	JWTSecret         string // secret used to sign tokens
	JWTAlgorithm      string // HMAC signing algorithm identifier (HS256/HS384/HS512)
	AccessTTLMin      int    // access token time-to-live in minutes
	RefreshTTLDays    int    // refresh token time-to-live in days
	PwdHashSalt       string // process-wide salt of legacy password hashes (optional)
	PwdHashIterations int    // PBKDF2 iteration count
	RabbitMQURL       string // broker URL; catalog events are disabled when empty
	EventsConsumer    bool   // run the catalog event consumer in-process
	EventsLogPath     string // file the consumer appends events to
	AdminUsername     string // bootstrap admin account (optional)
	AdminPassword     string // bootstrap admin password (optional)
	Gates             map[string]ResourceGate
}

// Load reads a .env file when present, then environment variables, and
// returns a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}
	return Config{
		Env:               envStr("APP_ENV", "dev"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		JWTAlgorithm:      envStr("JWT_ALGORITHM", "HS256"),
		AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLDays:    envInt("REFRESH_TOKEN_TTL_DAYS", 130),
		PwdHashSalt:       os.Getenv("PWD_HASH_SALT"),
		PwdHashIterations: envInt("PWD_HASH_ITERATIONS", 100_000),
		RabbitMQURL:       envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		EventsConsumer:    envBool("EVENTS_CONSUMER", false),
		EventsLogPath:     envStr("EVENTS_LOG_PATH", "logs/catalog.log"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		Gates:             LoadGates(),
	}
}

// AccessTTL returns the access token lifetime.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL returns the refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
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

