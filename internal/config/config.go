package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Env          string         `yaml:"env"`
	Addr         string         `yaml:"addr"`
	APITimeout   time.Duration  `yaml:"timeout"`
	DatabasePath string         `yaml:"database_path"`
	JWTSecret    string         `yaml:"jwt_secret"`
	BcryptCost   int            `yaml:"bcrypt_cost"`
	CORSOrigin   string         `yaml:"cors_origin"`
	SentryDSN    string         `yaml:"sentry_dsn"`
	Identity     IdentityConfig `yaml:"identity"`
	Blob         BlobConfig     `yaml:"blob"`
}

// IdentityConfig configures the external identity provider used for
// applicants: session token verification and user-sync webhooks.
type IdentityConfig struct {
	WebhookSecret        string   `yaml:"webhook_secret"`
	SessionPublicKey     string   `yaml:"session_public_key"`
	SessionPublicKeyPath string   `yaml:"session_public_key_path"`
	Issuer               string   `yaml:"issuer"`
	AuthorizedParties    []string `yaml:"authorized_parties"`
}

// BlobConfig selects the blob backend for logos and resumes.
// Type is "memory" or "s3"; the s3 fields are ignored otherwise.
type BlobConfig struct {
	Type            string `yaml:"type"`
	Bucket          string `yaml:"bucket,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Prefix          string `yaml:"prefix,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	PublicBaseURL   string `yaml:"public_base_url,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Env:          getEnv("JOBBOARD_ENV", "development"),
		Addr:         getEnv("JOBBOARD_ADDR", ":8080"),
		APITimeout:   15 * time.Second,
		DatabasePath: getEnv("JOBBOARD_DATABASE_PATH", "jobboard.db"),
		JWTSecret:    getEnv("JOBBOARD_JWT_SECRET", insecureJWTSecret),
		BcryptCost:   getEnvInt("JOBBOARD_BCRYPT_COST", 10),
		CORSOrigin:   getEnv("JOBBOARD_CORS_ORIGIN", "*"),
		SentryDSN:    os.Getenv("JOBBOARD_SENTRY_DSN"),
		Identity: IdentityConfig{
			WebhookSecret:        os.Getenv("JOBBOARD_IDENTITY_WEBHOOK_SECRET"),
			SessionPublicKey:     os.Getenv("JOBBOARD_IDENTITY_SESSION_PUBLIC_KEY"),
			SessionPublicKeyPath: os.Getenv("JOBBOARD_IDENTITY_SESSION_PUBLIC_KEY_PATH"),
			Issuer:               os.Getenv("JOBBOARD_IDENTITY_ISSUER"),
			AuthorizedParties:    splitList(os.Getenv("JOBBOARD_IDENTITY_AUTHORIZED_PARTIES")),
		},
		Blob: BlobConfig{
			Type:            getEnv("JOBBOARD_BLOB_TYPE", "memory"),
			Bucket:          os.Getenv("JOBBOARD_BLOB_BUCKET"),
			Region:          os.Getenv("JOBBOARD_BLOB_REGION"),
			Prefix:          getEnv("JOBBOARD_BLOB_PREFIX", "job-portal"),
			Endpoint:        os.Getenv("JOBBOARD_BLOB_ENDPOINT"),
			PublicBaseURL:   os.Getenv("JOBBOARD_BLOB_PUBLIC_BASE_URL"),
			AccessKeyID:     os.Getenv("JOBBOARD_BLOB_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("JOBBOARD_BLOB_SECRET_ACCESS_KEY"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsProduction reports whether internal error detail must be hidden.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionKeyPEM returns the identity provider's session public key, read from
// SessionPublicKeyPath when the inline key is empty. It returns nil when
// neither is configured.
func (c *Config) SessionKeyPEM() ([]byte, error) {
	if c.Identity.SessionPublicKey != "" {
		return []byte(c.Identity.SessionPublicKey), nil
	}
	if c.Identity.SessionPublicKeyPath == "" {
		return nil, nil
	}
	b, err := os.ReadFile(c.Identity.SessionPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read session public key: %w", err)
	}
	return b, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.JWTSecret == insecureJWTSecret && c.Env != "development" {
		errs = append(errs, errors.New("jwt_secret uses the insecure default outside development"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch c.Blob.Type {
	case "memory":
		if c.IsProduction() {
			errs = append(errs, errors.New("memory blob store is not allowed in production"))
		}
	case "s3":
		if c.Blob.Bucket == "" || c.Blob.Region == "" {
			errs = append(errs, errors.New("s3 blob store requires bucket and region"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob type: %q", c.Blob.Type))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
