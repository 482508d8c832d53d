package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/estateportal/internal/flagx"
	"github.com/dmitrijs2005/estateportal/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "24h" or integer
// nanoseconds. Pointer fields distinguish "absent" from "false"/"0".
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DataDir         string         `json:"data_dir"`
	PublicDir       string         `json:"public_dir"`
	UploadDir       string         `json:"upload_dir"`
	TempDir         string         `json:"temp_dir"`
	SessionSecret   string         `json:"session_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	AdminUsername   string         `json:"admin_username"`
	AdminPassword   string         `json:"admin_password"`
	BcryptCost      int            `json:"bcrypt_cost"`
	MaxUploadBytes  int64          `json:"max_upload_bytes"`
	MaxPhotos       int            `json:"max_photos"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	MetricsEnabled  *bool          `json:"metrics_enabled"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	PhotoBackend    string         `json:"photo_backend"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3PublicURL     string         `json:"s3_public_url"`
}

// parseJson overlays the file named by -c/-config onto config. Only keys
// present with non-zero values override. Panics on unreadable or invalid
// files, the same way a bad flag would abort startup.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DataDir, c.DataDir)
	setString(&config.PublicDir, c.PublicDir)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.TempDir, c.TempDir)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.AdminUsername, c.AdminUsername)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.PhotoBackend, c.PhotoBackend)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3PublicURL, c.S3PublicURL)

	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.MaxPhotos > 0 {
		config.MaxPhotos = c.MaxPhotos
	}
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
