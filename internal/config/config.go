// config.go
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	MongoDBName    string
	BackendURL     string
	BackendToken   string
	RabbitURL      string
	RabbitExchange string
	Port           string
	LogLevel       string
	CORSOrigins    []string
	HTTPTimeout    time.Duration
}

// Load reads the environment, picking up a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "order_view_db"),
		BackendURL:     getEnv("BACKEND_URL", "http://host.docker.internal:3000/api"),
		BackendToken:   getEnv("BACKEND_TOKEN", ""),
		RabbitURL:      getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "order_events"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    corsOrigins(),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// corsOrigins falls back to any origin when CORS_ORIGINS holds no entries,
// since cors.New rejects an empty allow list.
func corsOrigins() []string {
	if origins := splitList(getEnv("CORS_ORIGINS", "*")); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
