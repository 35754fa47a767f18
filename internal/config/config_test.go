package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/aus_suburbs.json", cfg.Dataset.Path)
	assert.Empty(t, cfg.Dataset.URL)
	assert.Equal(t, "auto", cfg.Dataset.Format)
	assert.Equal(t, "suburb-cli/1.0", cfg.Dataset.UserAgent)
	assert.Equal(t, 30, cfg.Dataset.TimeoutSecs)
	assert.Equal(t, 3, cfg.Dataset.MaxRetries)
	assert.InDelta(t, 10.0, cfg.Search.NearbyKM, 0.001)
	assert.InDelta(t, 50.0, cfg.Search.FringeKM, 0.001)
	assert.Equal(t, 600, cfg.Search.ScanCap)
	assert.Equal(t, 15, cfg.Search.MaxResults)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  path: /srv/data/suburbs.csv
  format: csv
search:
  nearby_km: 5
  max_results: 20
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data/suburbs.csv", cfg.Dataset.Path)
	assert.Equal(t, "csv", cfg.Dataset.Format)
	assert.InDelta(t, 5.0, cfg.Search.NearbyKM, 0.001)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.InDelta(t, 50.0, cfg.Search.FringeKM, 0.001)
	assert.Equal(t, 600, cfg.Search.ScanCap)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  path: /srv/data/suburbs.json
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SUBURB_DATASET_PATH", "/tmp/other.json")
	t.Setenv("SUBURB_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "/tmp/other.json", cfg.Dataset.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SUBURB_DATASET_URL", "https://example.com/aus_suburbs.json")
	t.Setenv("SUBURB_SEARCH_FRINGE_KM", "75.5")
	t.Setenv("SUBURB_OUTPUT_FORMAT", "geojson")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/aus_suburbs.json", cfg.Dataset.URL)
	assert.Equal(t, "https://example.com/aus_suburbs.json", cfg.Dataset.Source())
	assert.InDelta(t, 75.5, cfg.Search.FringeKM, 0.001)
	assert.Equal(t, "geojson", cfg.Output.Format)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("dataset: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestDatasetConfig(t *testing.T) {
	d := DatasetConfig{Path: "./a.json", TimeoutSecs: 12}
	assert.Equal(t, "./a.json", d.Source())
	assert.Equal(t, 12*time.Second, d.Timeout())

	d.URL = "ftp://example.com/a.json"
	assert.Equal(t, "ftp://example.com/a.json", d.Source())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Dataset.Path = "./data/aus_suburbs.json"
	cfg.Dataset.Format = "auto"
	cfg.Dataset.TimeoutSecs = 30
	cfg.Dataset.MaxRetries = 3
	cfg.Search.NearbyKM = 10
	cfg.Search.FringeKM = 50
	cfg.Search.ScanCap = 600
	cfg.Search.MaxResults = 15
	cfg.Output.Format = "text"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_Bands(t *testing.T) {
	cfg := validDefaults()
	cfg.Search.NearbyKM = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.nearby_km must be > 0")

	cfg = validDefaults()
	cfg.Search.FringeKM = 10
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.fringe_km must be greater than search.nearby_km")
}

func TestValidate_Limits(t *testing.T) {
	cfg := validDefaults()
	cfg.Search.ScanCap = -1
	cfg.Search.MaxResults = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.scan_cap must be > 0")
	assert.Contains(t, err.Error(), "search.max_results must be > 0")
}

func TestValidate_Formats(t *testing.T) {
	cfg := validDefaults()
	cfg.Dataset.Format = "parquet"
	cfg.Output.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset.format "parquet"`)
	assert.Contains(t, err.Error(), `output.format "xml"`)

	cfg = validDefaults()
	cfg.Dataset.Format = "XLSX"
	cfg.Output.Format = "GeoJSON"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingSource(t *testing.T) {
	cfg := validDefaults()
	cfg.Dataset.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.path or dataset.url is required")
}

func TestValidate_Fetch(t *testing.T) {
	cfg := validDefaults()
	cfg.Dataset.TimeoutSecs = 0
	cfg.Dataset.MaxRetries = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.timeout_secs must be > 0")
	assert.Contains(t, err.Error(), "dataset.max_retries must be >= 0")

	cfg = validDefaults()
	cfg.Dataset.MaxRetries = 0
	assert.NoError(t, cfg.Validate())
}
