package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and paths, ints for TTLs, costs
// and size limits.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    TokenTTLHours  int    // access token time-to-live in hours
    BcryptCost     int    // bcrypt cost for password hashing
    UploadDir      string // directory where banner uploads are stored
    MaxBannerBytes int64  // maximum accepted banner size in bytes
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Upload settings
// fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),                 // environment (dev/test/prod)
        Port:           must("APP_PORT"),                // port to bind the HTTP server
        DBUser:         must("DB_USER"),                 // database user
        DBPass:         os.Getenv("DB_PASS"),            // database password (empty allowed)
        DBHost:         must("DB_HOST"),                 // database host
        DBPort:         must("DB_PORT"),                 // database port
        DBName:         must("DB_NAME"),                 // database name
        TokenTTLHours:  mustInt("ACCESS_TOKEN_TTL_HOURS"), // TTL for access tokens in hours
        BcryptCost:     mustInt("BCRYPT_COST"),          // bcrypt cost factor
        UploadDir:      getenvDefault("UPLOAD_DIR", "uploads"),
        MaxBannerBytes: int64(atoiDefault(os.Getenv("MAX_BANNER_BYTES"), 2<<20)), // 2 MiB default
    }
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

// getenvDefault returns the environment value or def when unset.
func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// atoiDefault parses s as an int, returning def when empty or invalid.
func atoiDefault(s string, def int) int {
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return n
}
