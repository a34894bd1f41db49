package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	OCR    OCRConfig    `mapstructure:"ocr"`
	Rates  RatesConfig  `mapstructure:"rates"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// OpenAIConfig holds the generative model configuration.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// OCRConfig holds the digitizer configuration.
type OCRConfig struct {
	TesseractBin string  `mapstructure:"tesseract_bin"`
	PrimaryLang  string  `mapstructure:"primary_lang"`
	FallbackLang string  `mapstructure:"fallback_lang"`
	DPI          float64 `mapstructure:"dpi"`
}

// RatesConfig holds the exchange-rate provider configuration.
type RatesConfig struct {
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	DefaultRate     float64       `mapstructure:"default_rate"`
}

// LedgerConfig holds the output table configuration.
type LedgerConfig struct {
	OutputPath string `mapstructure:"output_path"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file and environment
// variables. A missing config file is not an error; defaults and env
// overrides are enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.timeout", 60*time.Second)

	// OCR defaults
	v.SetDefault("ocr.tesseract_bin", "tesseract")
	v.SetDefault("ocr.primary_lang", "pol")
	v.SetDefault("ocr.fallback_lang", "eng")
	v.SetDefault("ocr.dpi", 300.0)

	// Rates defaults
	v.SetDefault("rates.provider_timeout", 10*time.Second)
	v.SetDefault("rates.default_rate", 4.25)

	// Ledger defaults to the user's downloads directory
	v.SetDefault("ledger.output_path", defaultLedgerPath())

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	v.BindEnv("openai.api_key", "OPENAI_API_KEY", "GENAI_API_KEY")
	v.BindEnv("ledger.output_path", "LEDGER_OUTPUT_PATH")
	v.BindEnv("ocr.tesseract_bin", "TESSERACT_BIN")
}

func defaultLedgerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "faktury_data.xlsx"
	}
	return filepath.Join(home, "Downloads", "faktury_data.xlsx")
}

// Validate checks the fields the full pipeline cannot run without.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (set OPENAI_API_KEY)")
	}
	if c.Ledger.OutputPath == "" {
		return fmt.Errorf("ledger.output_path is required")
	}
	return nil
}
