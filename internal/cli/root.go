package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/config"
	"github.com/piotrkw/invoice-ledger/pkg/utils"
)

var version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "invoice-ledger",
	Short: "OCR scanned invoices and append them to a cumulative spreadsheet ledger",
	Long: `invoice-ledger digitizes scanned invoice documents (PDF/TIFF), extracts
identity fields from their filenames and financial fields from their
content, converts EUR amounts to PLN with a live exchange rate, and
appends the results to a cumulative spreadsheet without touching prior
rows.

Filename contract: "company invoice_number topic_number type(optional).pdf",
whitespace-delimited. Company names may contain spaces; the trailing three
tokens are then read as invoice number, topic number and type.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. The process exits non-zero on batch-level
// failure so launchers can surface it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "config file path")
}

// setup loads config and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
