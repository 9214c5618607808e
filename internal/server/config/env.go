package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is read for variables missing from the process environment.
var dotenvFile = ".env"

// parseEnv overlays Config with environment variables. Non-empty values in
// the process environment win over the ones from the .env file. A missing .env
// file is fine; an unreadable one panics, as do malformed numbers.
//
//	ADDRESS             listen address
//	DATABASE_URL        PostgreSQL DSN
//	JWT_SECRET          token signing key
//	TOKEN_TTL           token lifetime, e.g. "12h"
//	CORS_ORIGIN         comma separated list of allowed origins
//	MAX_UPLOAD_SIZE     request size limit in bytes
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PUBLIC_URL
func parseEnv(config *Config) {
	file, err := godotenv.Read(dotenvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"ADDRESS", &config.EndpointAddr},
		{"DATABASE_URL", &config.DatabaseDSN},
		{"JWT_SECRET", &config.SecretKey},
		{"S3_ACCESS_KEY", &config.S3RootUser},
		{"S3_SECRET_KEY", &config.S3RootPassword},
		{"S3_BUCKET", &config.S3Bucket},
		{"S3_REGION", &config.S3Region},
		{"S3_ENDPOINT", &config.S3BaseEndpoint},
		{"S3_PUBLIC_URL", &config.S3PublicURL},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		config.CORSOrigins = splitOrigins(v)
	}

	if v, ok := lookup("MAX_UPLOAD_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxUploadSize = n
	}
}

// splitOrigins parses a comma separated origin list. Trailing slashes are
// dropped since browsers never send them.
func splitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
