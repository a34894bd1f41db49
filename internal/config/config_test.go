package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, float32(0.1), cfg.OpenAI.Temperature)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, "pol", cfg.OCR.PrimaryLang)
	assert.Equal(t, "eng", cfg.OCR.FallbackLang)
	assert.Equal(t, 300.0, cfg.OCR.DPI)
	assert.Equal(t, 10*time.Second, cfg.Rates.ProviderTimeout)
	assert.Equal(t, 4.25, cfg.Rates.DefaultRate)
	assert.Contains(t, cfg.Ledger.OutputPath, "faktury_data.xlsx")
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
openai:
  model: gpt-4o
ocr:
  primary_lang: deu
ledger:
  output_path: /tmp/out.xlsx
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "deu", cfg.OCR.PrimaryLang)
	assert.Equal(t, "/tmp/out.xlsx", cfg.Ledger.OutputPath)
	// untouched defaults survive
	assert.Equal(t, "eng", cfg.OCR.FallbackLang)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.OpenAI.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.OpenAI.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.Ledger.OutputPath = ""
	assert.Error(t, cfg.Validate())
}
