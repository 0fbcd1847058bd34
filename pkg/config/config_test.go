package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, "data/sensor_data.csv", cfg.CSVPath)
	assert.Equal(t, "8059", cfg.ServerPort)
	assert.Equal(t, "http://localhost:5000", cfg.ImageHostURL)
	assert.Equal(t, "temp_graficos", cfg.ImagesDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "sensor.corrections", cfg.KafkaTopic)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		set      map[string]string
		errorMsg string
	}{
		{
			name:     "Invalid data source",
			set:      map[string]string{"DATA_SOURCE": "sqlite"},
			errorMsg: "invalid DATA_SOURCE",
		},
		{
			name:     "Empty csv path",
			set:      map[string]string{"DATA_CSV_PATH": ""},
			errorMsg: "DATA_CSV_PATH must be set",
		},
		{
			name:     "Brokers without topic",
			set:      map[string]string{"KAFKA_BROKERS": "k1:9092", "KAFKA_TOPIC": ""},
			errorMsg: "KAFKA_TOPIC must be set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tc.set {
				v.Set(k, val)
			}

			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorMsg)
		})
	}
}

func TestDatabase_DSN(t *testing.T) {
	d := Database{Host: "h", Port: "1", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
}
