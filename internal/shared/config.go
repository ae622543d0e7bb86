package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	SessionTTL  time.Duration

	JWTSecret string
	JWTIssuer string
	IDPBase   string
	IDPKey    string

	StripeKey  string
	StripeURL  string
	Currency   string
	PaymentRPS int

	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3PublicBase string
	UploadMax    int64

	LocationsFile string

	SweepSchedule string
	SweepWorkers  int
}

// Load reads an optional .env file, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:  time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,

		JWTSecret: env("AUTH_JWT_SECRET", ""),
		JWTIssuer: env("AUTH_ISSUER", ""),
		IDPBase:   env("IDP_BASE_URL", "https://api.clerk.com/v1"),
		IDPKey:    env("IDP_API_KEY", ""),

		StripeKey:  env("STRIPE_SECRET_KEY", ""),
		StripeURL:  env("STRIPE_API_URL", ""),
		Currency:   env("PAYMENT_CURRENCY", "usd"),
		PaymentRPS: atoi("PAYMENT_RPS", 20),

		S3Bucket:     env("S3_BUCKET", ""),
		S3Region:     env("S3_REGION", "us-east-1"),
		S3Endpoint:   env("S3_ENDPOINT", ""),
		S3PublicBase: env("S3_PUBLIC_BASE_URL", ""),
		UploadMax:    int64(atoi("UPLOAD_MAX_BYTES", 4<<20)),

		LocationsFile: env("LOCATIONS_FILE", ""),

		SweepSchedule: env("SWEEP_SCHEDULE", "@every 5m"),
		SweepWorkers:  atoi("SWEEP_WORKERS", 4),
	}
	for k, v := range map[string]string{
		"AUTH_JWT_SECRET":   c.JWTSecret,
		"IDP_API_KEY":       c.IDPKey,
		"STRIPE_SECRET_KEY": c.StripeKey,
		"S3_BUCKET":         c.S3Bucket,
	} {
		if v == "" {
			log.Warn().Msgf("%s is empty", k)
		}
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
