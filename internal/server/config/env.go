package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables take precedence over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if d, ok := lookupDuration("ACCESS_TOKEN_TTL"); ok {
		config.AccessTokenValidityDuration = d
	}
	if d, ok := lookupDuration("REFRESH_TOKEN_TTL"); ok {
		config.RefreshTokenValidityDuration = d
	}
	if n, ok := lookupInt("DEFAULT_PAGE_SIZE"); ok {
		config.DefaultPageSize = n
	}
	if n, ok := lookupInt("MAX_PAGE_SIZE"); ok {
		config.MaxPageSize = n
	}
	if n, ok := lookupInt("BCRYPT_COST"); ok {
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("KAFKA_BROKER"); ok {
		config.KafkaBroker = v
	}
	if v, ok := os.LookupEnv("KAFKA_TOPIC"); ok {
		config.KafkaTopic = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}

func lookupDuration(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
