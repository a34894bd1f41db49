package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piotrkw/invoice-ledger/internal/rates"
	"github.com/piotrkw/invoice-ledger/internal/record"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Print the current EUR/PLN exchange rate",
	Long: `Rate walks the same provider chain the pipeline uses (NBP first,
public rate APIs after) and prints the rate that would be applied to
EUR amounts in the next batch. With every provider unreachable the
configured default rate is printed.`,
	Args: cobra.NoArgs,
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	source := rates.NewSource(rates.Config{
		ProviderTimeout: cfg.Rates.ProviderTimeout,
		DefaultRate:     cfg.Rates.DefaultRate,
	}, logger)

	rate := source.Rate(cmd.Context(), "EUR", record.BaseCurrency)
	fmt.Fprintf(cmd.OutOrStdout(), "EUR/%s: %.4f\n", record.BaseCurrency, rate)
	return nil
}
