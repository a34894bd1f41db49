package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/ledger"
	"github.com/piotrkw/invoice-ledger/internal/ocr"
	"github.com/piotrkw/invoice-ledger/internal/record"
)

// Digitizer converts a document file into page-ordered OCR text.
type Digitizer interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// RateSource supplies one conversion rate per batch. It never fails.
type RateSource interface {
	Rate(ctx context.Context, base, quote string) float64
}

// Assembler builds the canonical record for one document. It never
// fails.
type Assembler interface {
	Assemble(ctx context.Context, path, text string) record.InvoiceRecord
}

// Ledger appends a batch of records to the persistent table.
type Ledger interface {
	Append(records []record.InvoiceRecord, rate float64, destination string) ledger.AppendResult
}

// Summary is the immutable result of one batch run, rendered for the
// presentation layer as a single plain-text string.
type Summary struct {
	BatchID     string
	Processed   int
	Skipped     []string // per-document failures: "path: reason"
	Appended    int
	Total       int
	Rate        float64
	Destination string
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d of %d documents.", s.Processed, s.Processed+len(s.Skipped))
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped %d:", len(s.Skipped))
		for _, skip := range s.Skipped {
			fmt.Fprintf(&b, "\n  - %s", skip)
		}
	}
	if s.Appended > 0 {
		fmt.Fprintf(&b, "\nExported %d records to %s (%d total).", s.Appended, s.Destination, s.Total)
	}
	return b.String()
}

// Pipeline chains digitization, assembly, rate acquisition and
// persistence over a list of input documents.
type Pipeline struct {
	digitizer   Digitizer
	assembler   Assembler
	rateSource  RateSource
	ledger      Ledger
	destination string
	logger      *zap.Logger
}

func New(digitizer Digitizer, assembler Assembler, rateSource RateSource, ledger Ledger, destination string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		digitizer:   digitizer,
		assembler:   assembler,
		rateSource:  rateSource,
		ledger:      ledger,
		destination: destination,
		logger:      logger,
	}
}

// Run processes the batch sequentially. Per-document failures are
// isolated: an unsupported or unreadable document is recorded and
// skipped while the batch continues. Only persistence failure, or a
// batch with zero usable documents, surfaces as an error; the returned
// Summary is valid either way.
func (p *Pipeline) Run(ctx context.Context, paths []string) (Summary, error) {
	summary := Summary{BatchID: uuid.NewString(), Destination: p.destination}
	logger := p.logger.With(zap.String("batch_id", summary.BatchID))
	logger.Info("starting batch", zap.Int("documents", len(paths)))

	var records []record.InvoiceRecord
	for _, path := range paths {
		text, err := p.digitizer.ExtractText(ctx, path)
		if err != nil {
			logger.Warn("skipping document", zap.String("path", path), zap.Error(err))
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		rec := p.assembler.Assemble(ctx, path, ocr.CleanText(text))
		records = append(records, rec)
		summary.Processed++
	}

	if len(records) == 0 {
		return summary, fmt.Errorf("no valid files to process")
	}

	// One rate for the whole batch, applied at export time.
	summary.Rate = p.rateSource.Rate(ctx, "EUR", record.BaseCurrency)

	res := p.ledger.Append(records, summary.Rate, p.destination)
	if !res.OK {
		return summary, fmt.Errorf("export to %s failed: %w", p.destination, res.Err)
	}
	summary.Appended = res.Appended
	summary.Total = res.Total

	logger.Info("batch finished",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("appended", summary.Appended))
	return summary, nil
}
