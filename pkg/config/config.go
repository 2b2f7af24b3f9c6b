package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogMode                 string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	RedisAddr               string
	RedisChannel            string
	SeedAchievements        bool

	OtelEnabled     bool
	OtelEndpoint    string
	OtelInsecure    bool
	OtelSampleRatio float64
}

// Load reads configuration from the environment, loading a .env file first if one exists
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		LogMode:                 getEnv("LOG_MODE", env),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "discgolf"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisChannel:            getEnv("REDIS_CHANNEL", "discgolf.events"),
		SeedAchievements:        getEnvBool("SEED_ACHIEVEMENTS", true),
		OtelEnabled:             getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:            getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelInsecure:            getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio:         getEnvFloat("OTEL_SAMPLER_RATIO", 0.1),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
