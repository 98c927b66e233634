package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ServiceConfig carries every env-tunable setting except the database
// connection, which persistence parses on its own.
type ServiceConfig struct {
	Port string `env:"PORT" env-default:"8080"`

	JwtSecret string        `env:"JWT_SECRET" env-default:"dev-only-secret"`
	JwtIssuer string        `env:"JWT_ISSUER" env-default:"nextvision"`
	JwtExpire time.Duration `env:"JWT_EXPIRE" env-default:"720h"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" env-default:"100"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" env-default:"200"`

	// CorsOrigins is a comma separated allow-list; empty admits any origin.
	CorsOrigins string `env:"CORS_ORIGINS"`

	// ElasticsearchURL enables the project search index when set.
	ElasticsearchURL string `env:"ELASTICSEARCH_URL"`

	AdminName   string `env:"ADMIN_NAME" env-default:"admin"`
	AdminSecret string `env:"ADMIN_SECRET"`
}

var Service ServiceConfig

func Load() error {
	return cleanenv.ReadEnv(&Service)
}
