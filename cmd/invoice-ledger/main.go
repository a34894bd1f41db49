package main

import (
	"github.com/subosito/gotenv"

	"github.com/piotrkw/invoice-ledger/internal/cli"
)

func main() {
	// Credentials (OPENAI_API_KEY) may live in a local .env file; a
	// missing file is fine.
	_ = gotenv.Load()

	cli.Execute()
}
