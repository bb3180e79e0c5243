package config

import (
	"encoding/json"
	"os"

	"github.com/dmarifin/dompet/internal/flagx"
)

// jsonConfig is the DTO for the optional JSON configuration file. Its
// fields are copied into the runtime Config after unmarshalling.
type jsonConfig struct {
	DatabaseDSN      string `json:"database_dsn"`
	RemoteBackend    string `json:"remote_backend"`
	PostgresDSN      string `json:"postgres_dsn"`
	S3AccessKey      string `json:"s3_access_key"`
	S3SecretKey      string `json:"s3_secret_key"`
	S3Bucket         string `json:"s3_bucket"`
	S3Region         string `json:"s3_region"`
	S3BaseEndpoint   string `json:"s3_base_endpoint"`
	SessionTokenFile string `json:"session_token_file"`
	SessionSecret    string `json:"session_secret"`
	DeviceLabel      string `json:"device_label"`
	Locale           string `json:"locale"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into config. Absent flag means nothing to load. A file
// that cannot be read or parsed is a startup failure and panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RemoteBackend != "" {
		config.RemoteBackend = c.RemoteBackend
	}
	if c.PostgresDSN != "" {
		config.PostgresDSN = c.PostgresDSN
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.SessionTokenFile != "" {
		config.SessionTokenFile = c.SessionTokenFile
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.DeviceLabel != "" {
		config.DeviceLabel = c.DeviceLabel
	}
	if c.Locale != "" {
		config.Locale = c.Locale
	}
}
