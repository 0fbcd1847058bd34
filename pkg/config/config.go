package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Data source kinds
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Database holds Postgres connection settings
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a lib/pq connection string
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Config is the resolved configuration shared by all binaries
type Config struct {
	DataSource string
	CSVPath    string
	Database   Database

	ServerPort      string
	AllowedOrigins  []string
	ImageServerPort string
	ImageHostURL    string
	ImagesDir       string
	FallbackDir     string

	JWTSecret string

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string
}

// SetDefaults installs defaults and environment binding on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("DATA_SOURCE", SourceCSV)
	v.SetDefault("DATA_CSV_PATH", "data/sensor_data.csv")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "sensor_user")
	v.SetDefault("DB_PASSWORD", "sensor_pass")
	v.SetDefault("DB_NAME", "sensor_db")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("SERVER_PORT", "8059")
	v.SetDefault("SERVER_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("IMAGE_SERVER_PORT", "5000")
	v.SetDefault("IMAGE_HOST_URL", "http://localhost:5000")
	v.SetDefault("IMAGES_DIR", "temp_graficos")
	v.SetDefault("IMAGES_FALLBACK_DIR", "temp_graficos/local")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "sensor.corrections")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.AutomaticEnv()
}

// Load resolves a Config from v
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DataSource: strings.ToLower(strings.TrimSpace(v.GetString("DATA_SOURCE"))),
		CSVPath:    v.GetString("DATA_CSV_PATH"),
		Database: Database{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		ServerPort:      v.GetString("SERVER_PORT"),
		AllowedOrigins:  splitList(v.GetString("SERVER_ALLOWED_ORIGINS")),
		ImageServerPort: v.GetString("IMAGE_SERVER_PORT"),
		ImageHostURL:    v.GetString("IMAGE_HOST_URL"),
		ImagesDir:       v.GetString("IMAGES_DIR"),
		FallbackDir:     v.GetString("IMAGES_FALLBACK_DIR"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		KafkaBrokers:    splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	switch cfg.DataSource {
	case SourceCSV:
		if cfg.CSVPath == "" {
			return cfg, fmt.Errorf("DATA_CSV_PATH must be set when DATA_SOURCE=csv")
		}
	case SourcePostgres:
	default:
		return cfg, fmt.Errorf("invalid DATA_SOURCE: %s (valid: %s, %s)", cfg.DataSource, SourceCSV, SourcePostgres)
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return cfg, fmt.Errorf("KAFKA_TOPIC must be set when KAFKA_BROKERS is configured")
	}

	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
