package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DatabaseDriver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                 string
	AppEnv                  string
	AppPort                 string
	DatabaseDriver          string
	MongoURI                string
	MongoDatabase           string
	DatabaseURL             string
	RedisURL                string
	JWTSecret               string
	JWTTTL                  time.Duration
	CookieSecure            bool
	ProtectedRoutes         []string
	UpsertOnMissing         bool
	StoreTimeout            time.Duration
	AssignmentCountCacheTTL time.Duration
	NATSURL                 string
	NATSSubjectPrefix       string
	CloudinaryCloudName     string
	CloudinaryAPIKey        string
	CloudinaryAPISecret     string
	CloudinaryUploadFolder  string
	CORSAllowOrigins        string
	TokenRateLimit          int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CloudinaryEnabled reports whether upload credentials were supplied.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHAMPS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unprefixed names used by the original deployment.
	_ = v.BindEnv("app.port", "CHAMPS_APP_PORT", "PORT")
	_ = v.BindEnv("jwt.secret", "CHAMPS_JWT_SECRET", "ACCESS_TOKEN_SECRET")
	_ = v.BindEnv("db.user", "CHAMPS_DB_USER", "DB_USER")
	_ = v.BindEnv("db.pass", "CHAMPS_DB_PASS", "DB_PASS")

	v.SetDefault("app.name", "Assignment Champs API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("mongo.database", "assignments")
	v.SetDefault("mongo.host", "cluster0.igno3bw.mongodb.net")
	v.SetDefault("jwt.ttl", "1h")
	v.SetDefault("cookie.secure", true)
	v.SetDefault("auth.protected_routes", "submissions.list")
	v.SetDefault("store.upsert_on_missing", false)
	v.SetDefault("store.timeout", "0s")
	v.SetDefault("assignment_count.cache_ttl", "30s")
	v.SetDefault("nats.subject_prefix", "champs")
	v.SetDefault("cloudinary.folder", "champs/thumbnails")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("auth.token_rate_limit", 0)

	jwtTTL, err := parseDuration(v, "jwt.ttl")
	if err != nil {
		return Config{}, err
	}
	storeTimeout, err := parseDuration(v, "store.timeout")
	if err != nil {
		return Config{}, err
	}
	countTTL, err := parseDuration(v, "assignment_count.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                 v.GetString("app.name"),
		AppEnv:                  v.GetString("app.env"),
		AppPort:                 v.GetString("app.port"),
		DatabaseDriver:          strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		MongoURI:                v.GetString("mongo.uri"),
		MongoDatabase:           v.GetString("mongo.database"),
		DatabaseURL:             v.GetString("database.url"),
		RedisURL:                v.GetString("redis.url"),
		JWTSecret:               v.GetString("jwt.secret"),
		JWTTTL:                  jwtTTL,
		CookieSecure:            v.GetBool("cookie.secure"),
		ProtectedRoutes:         SplitList(v.GetString("auth.protected_routes")),
		UpsertOnMissing:         v.GetBool("store.upsert_on_missing"),
		StoreTimeout:            storeTimeout,
		AssignmentCountCacheTTL: countTTL,
		NATSURL:                 v.GetString("nats.url"),
		NATSSubjectPrefix:       v.GetString("nats.subject_prefix"),
		CloudinaryCloudName:     v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:        v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:     v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder:  v.GetString("cloudinary.folder"),
		CORSAllowOrigins:        v.GetString("cors.allow_origins"),
		TokenRateLimit:          v.GetInt("auth.token_rate_limit"),
	}

	if cfg.MongoURI == "" && cfg.DatabaseDriver == DriverMongo {
		cfg.MongoURI = buildMongoURI(v.GetString("db.user"), v.GetString("db.pass"), v.GetString("mongo.host"))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must be provided")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}

	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo uri or DB_USER/DB_PASS must be provided")
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url must be provided for driver %q", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}

	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func buildMongoURI(user, pass, host string) string {
	if user == "" || pass == "" || host == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

// SplitList splits a comma separated value into trimmed, non-empty entries.
func SplitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
