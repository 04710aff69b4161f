package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and page sizes.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign JWTs
	AccessTTLMin    int    // access token time‑to‑live in minutes
	RefreshTTLDays  int    // refresh token time‑to‑live in days
	BcryptCost      int    // bcrypt cost for password hashing
	PageSizeDefault int    // records per page when the client does not ask for a size
	PageSizeMax     int    // hard cap on records per page
	StorageRoot     string // directory where uploaded images are stored
	PublicBaseURL   string // external base URL used to build file download links
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The page size fields
// are the single documented source of pagination defaults: there are no
// hidden static fallbacks anywhere else in the codebase.
func Load() Config {
	cfg := Config{
		Env:             must("APP_ENV"),                   // environment (dev/test/prod)
		Port:            must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:          must("DB_USER"),                   // database user
		DBPass:          os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:          must("DB_HOST"),                   // database host
		DBPort:          must("DB_PORT"),                   // database port
		DBName:          must("DB_NAME"),                   // database name
		JWTSecret:       must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:      mustInt("BCRYPT_COST"),            // bcrypt cost factor
		PageSizeDefault: envInt("PAGE_SIZE_DEFAULT", 10),   // default records per page
		PageSizeMax:     envInt("PAGE_SIZE_MAX", 50),       // maximum records per page
		StorageRoot:     envStr("STORAGE_ROOT", "uploads"), // local file storage root
		PublicBaseURL:   os.Getenv("PUBLIC_BASE_URL"),      // optional; derived from port when empty
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.PageSizeMax < 1 {
		cfg.PageSizeMax = 50
	}
	if cfg.PageSizeDefault < 1 || cfg.PageSizeDefault > cfg.PageSizeMax {
		cfg.PageSizeDefault = 10
	}
	return cfg
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
