// Package config handles configuration for the portal server: defaults,
// a JSON file overlay, environment variables (optionally from .env) and
// command-line flags, applied in that order.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the portal server.
//
// SessionSecret signs session cookies and AdminPassword guards the admin
// area; both are secrets and have no usable default. AdminPassword may be
// a bcrypt hash (see portalctl hash-password).
type Config struct {
	ListenAddr      string
	DataDir         string
	PublicDir       string
	UploadDir       string
	TempDir         string
	SessionSecret   string
	SessionTTL      time.Duration
	AdminUsername   string
	AdminPassword   string
	BcryptCost      int
	MaxUploadBytes  int64
	MaxPhotos       int
	LogLevel        string
	LogFormat       string
	MetricsEnabled  bool
	ShutdownTimeout time.Duration

	// PhotoBackend is "local" (files under UploadDir) or "s3".
	PhotoBackend   string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.DataDir = "data"
	c.PublicDir = "public"
	c.UploadDir = "public/uploads"
	c.TempDir = "uploads"
	c.SessionTTL = 24 * time.Hour
	c.AdminUsername = "admin"
	c.BcryptCost = 10
	c.MaxUploadBytes = 32 << 20
	c.MaxPhotos = 6
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.MetricsEnabled = true
	c.ShutdownTimeout = 10 * time.Second
	c.PhotoBackend = "local"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then .env and PORTAL_* environment variables, then flags.
// It panics when a named config file cannot be read or parsed.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	args := os.Args[1:]
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
