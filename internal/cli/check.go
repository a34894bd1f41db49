package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piotrkw/invoice-ledger/internal/filename"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate filenames against the naming contract",
	Long: `Check parses each filename the way the pipeline will and prints the
extracted fields, without opening the files. Useful for verifying a
batch before processing it.`,
	Example: `  invoice-ledger check "Acme 123 T7 corr.pdf" skan_001.pdf`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, path := range args {
		base := filepath.Base(path)
		if !filename.Validate(base) {
			invalid++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, filename.DisplayName(base))
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d filenames do not match the naming contract", invalid, len(args))
	}
	return nil
}
