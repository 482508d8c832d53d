package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. PORTAL_SESSION_SECRET.
const EnvPrefix = "PORTAL"

// EnvConfig lists the variables read from the environment. Empty values are
// treated as unset. PORT is honored for hosting platforms that inject it.
type EnvConfig struct {
	Port            string        `envconfig:"PORT"`
	ListenAddr      string        `split_words:"true"`
	DataDir         string        `split_words:"true"`
	PublicDir       string        `split_words:"true"`
	UploadDir       string        `split_words:"true"`
	TempDir         string        `split_words:"true"`
	SessionSecret   string        `split_words:"true"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL"`
	AdminUsername   string        `split_words:"true"`
	AdminPassword   string        `split_words:"true"`
	BcryptCost      int           `split_words:"true"`
	MaxUploadBytes  int64         `split_words:"true"`
	MaxPhotos       int           `split_words:"true"`
	LogLevel        string        `split_words:"true"`
	LogFormat       string        `split_words:"true"`
	MetricsEnabled  string        `split_words:"true"`
	ShutdownTimeout time.Duration `split_words:"true"`
	PhotoBackend    string        `split_words:"true"`
	S3Bucket        string        `envconfig:"S3_BUCKET"`
	S3Region        string        `envconfig:"S3_REGION"`
	S3BaseEndpoint  string        `envconfig:"S3_BASE_ENDPOINT"`
	S3AccessKey     string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string        `envconfig:"S3_SECRET_KEY"`
	S3PublicURL     string        `envconfig:"S3_PUBLIC_URL"`
}

// loadDotEnv is a test seam; a missing .env file is fine.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays PORTAL_* variables (after loading .env, which never
// overrides variables that are already set) onto config. Panics on values
// that cannot be parsed, like parseJson does for a bad file.
func parseEnv(config *Config) {
	loadDotEnv()

	var e EnvConfig
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		panic(err)
	}

	e.apply(config)
}

func (e *EnvConfig) apply(config *Config) {
	if e.Port != "" {
		config.ListenAddr = ":" + e.Port
	}
	setString(&config.ListenAddr, e.ListenAddr)
	setString(&config.DataDir, e.DataDir)
	setString(&config.PublicDir, e.PublicDir)
	setString(&config.UploadDir, e.UploadDir)
	setString(&config.TempDir, e.TempDir)
	setString(&config.SessionSecret, e.SessionSecret)
	setString(&config.AdminUsername, e.AdminUsername)
	setString(&config.AdminPassword, e.AdminPassword)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.LogFormat, e.LogFormat)
	setString(&config.PhotoBackend, e.PhotoBackend)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setString(&config.S3AccessKey, e.S3AccessKey)
	setString(&config.S3SecretKey, e.S3SecretKey)
	setString(&config.S3PublicURL, e.S3PublicURL)

	if e.SessionTTL > 0 {
		config.SessionTTL = e.SessionTTL
	}
	if e.ShutdownTimeout > 0 {
		config.ShutdownTimeout = e.ShutdownTimeout
	}
	if e.BcryptCost > 0 {
		config.BcryptCost = e.BcryptCost
	}
	if e.MaxUploadBytes > 0 {
		config.MaxUploadBytes = e.MaxUploadBytes
	}
	if e.MaxPhotos > 0 {
		config.MaxPhotos = e.MaxPhotos
	}
	if e.MetricsEnabled != "" {
		enabled, err := strconv.ParseBool(e.MetricsEnabled)
		if err != nil {
			panic("PORTAL_METRICS_ENABLED: " + err.Error())
		}
		config.MetricsEnabled = enabled
	}
}
