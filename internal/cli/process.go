package cli

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/piotrkw/invoice-ledger/internal/ai"
	"github.com/piotrkw/invoice-ledger/internal/ledger"
	"github.com/piotrkw/invoice-ledger/internal/ocr"
	"github.com/piotrkw/invoice-ledger/internal/pipeline"
	"github.com/piotrkw/invoice-ledger/internal/rates"
	"github.com/piotrkw/invoice-ledger/internal/record"
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Process invoice documents and append them to the ledger",
	Long: `Process runs the full pipeline over the given documents: OCR, filename
parsing, AI content extraction, EUR/PLN rate acquisition and append to
the spreadsheet ledger. Per-document failures are reported and skipped;
the batch only fails when nothing could be processed or the ledger
cannot be written.`,
	Example: `  # Process two scanned invoices
  invoice-ledger process "Acme 123 T7.pdf" "Globex 124 T7 corr.tiff"

  # Write the ledger somewhere else
  invoice-ledger process --output /tmp/faktury.xlsx "Acme 123 T7.pdf"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("output", "o", "", "ledger file path (default from config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Ledger.OutputPath = output
	}

	extractor, err := ai.NewExtractor(openai.NewClient(cfg.OpenAI.APIKey), ai.Config{
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to build content extractor: %w", err)
	}

	p := pipeline.New(
		ocr.NewDigitizer(ocr.Config{
			TesseractBin: cfg.OCR.TesseractBin,
			PrimaryLang:  cfg.OCR.PrimaryLang,
			FallbackLang: cfg.OCR.FallbackLang,
			DPI:          cfg.OCR.DPI,
		}, logger),
		record.NewAssembler(extractor, logger),
		rates.NewSource(rates.Config{
			ProviderTimeout: cfg.Rates.ProviderTimeout,
			DefaultRate:     cfg.Rates.DefaultRate,
		}, logger),
		ledger.NewStore(logger),
		cfg.Ledger.OutputPath,
		logger,
	)

	summary, err := p.Run(cmd.Context(), args)
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return err
}
