package resyncrecorder

import (
	"os"
)

type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Configured reports whether both credentials needed for writing are present.
func (c InfluxDBConfig) Configured() bool {
	return c.Token != "" && c.Org != ""
}

type BigQueryConfig struct {
	ProjectID string
	Dataset   string
	Table     string
}

// Config selects and configures the resync result sink. Which sink is used
// depends on the build: InfluxDB locally, BigQuery under gcloud.
type Config struct {
	Disabled bool
	InfluxDB InfluxDBConfig
	BigQuery BigQueryConfig
}

func LoadConfig() *Config {
	return &Config{
		Disabled: os.Getenv("RESYNC_RESULTS_DISABLED") == "true",
		InfluxDB: InfluxDBConfig{
			URL:    envOr("INFLUXDB_URL", "http://localhost:8086"),
			Token:  os.Getenv("INFLUXDB_TOKEN"),
			Org:    os.Getenv("INFLUXDB_ORG"),
			Bucket: envOr("INFLUXDB_BUCKET", "resync_results"),
		},
		BigQuery: BigQueryConfig{
			ProjectID: envOr("BIGQUERY_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
			Dataset:   envOr("BIGQUERY_DATASET", "reminder_scheduler"),
			Table:     envOr("BIGQUERY_TABLE", "resync_results"),
		},
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
