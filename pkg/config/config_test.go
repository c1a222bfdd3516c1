package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "TM", c.Symbol)
	assert.Equal(t, "stocks_db", c.ClickHouse.Database)
	assert.Equal(t, 9000, c.ClickHouse.Port)
	assert.Equal(t, 2000, c.ClickHouse.InsertChunkSize)
	assert.Equal(t, "2019-01-01", c.Pipeline.StartDate)
	assert.Equal(t, "2024-01-01", c.Pipeline.SplitDate)
	assert.Equal(t, []string{"earnings", "product", "recall", "regulatory", "management", "macro"}, c.Features.NewsCategories)
	assert.Equal(t, 5, c.Analysis.EventWindow)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	p := writeFile(t, "config.yaml", `
environment: test
symbol: AAPL
clickhouse:
  host: ch.local
  port: 9440
pipeline:
  start_date: "2020-01-01"
  split_date: "2023-06-01"
features:
  news_categories: [earnings, recall]
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", c.Symbol)
	assert.Equal(t, "ch.local", c.ClickHouse.Host)
	assert.Equal(t, 9440, c.ClickHouse.Port)
	assert.Equal(t, []string{"earnings", "recall"}, c.Features.NewsCategories)
	assert.Equal(t, 2023, c.SplitDate().Year())
}

func TestLoadRejectsSplitBeforeStart(t *testing.T) {
	p := writeFile(t, "config.yaml", `
pipeline:
  start_date: "2024-01-01"
  split_date: "2019-01-01"
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split_date")
}

func TestLoadRejectsBadDate(t *testing.T) {
	p := writeFile(t, "config.yaml", `
pipeline:
  start_date: "01/01/2019"
`)
	_, err := Load(p)
	require.Error(t, err)
}

func TestLoadWithEnvReadsCredentialsFile(t *testing.T) {
	envFile := writeFile(t, "credentials.env", "CH_USER=analyst\nCH_PASSWORD=s3cret\n")
	t.Setenv("CH_USER", "")
	t.Setenv("CH_PASSWORD", "")
	os.Unsetenv("CH_USER")
	os.Unsetenv("CH_PASSWORD")
	t.Setenv("SYMBOL", "HMC")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "none.yaml"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "analyst", c.ClickHouse.User)
	assert.Equal(t, "s3cret", c.ClickHouse.Password)
	assert.Equal(t, "HMC", c.Symbol)
}

func TestKafkaExportRequiresBrokers(t *testing.T) {
	p := writeFile(t, "config.yaml", `
export:
  kafka:
    enabled: true
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brokers")
}

func TestApplyEnvSplitsBrokers(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	c.applyEnv(func(k string) string {
		if k == "KAFKA_BROKERS" {
			return "a:9092,b:9092"
		}
		return ""
	})
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Export.Kafka.Brokers)
}
