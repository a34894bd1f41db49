package record

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/filename"
)

// ContentExtractor reads financial fields from document text. It never
// fails; degraded extraction comes back as FallbackExtraction.
type ContentExtractor interface {
	Extract(ctx context.Context, text string) Extraction
}

// Assembler merges filename fields and content fields into one
// canonical InvoiceRecord.
type Assembler struct {
	extractor ContentExtractor
	logger    *zap.Logger
}

func NewAssembler(extractor ContentExtractor, logger *zap.Logger) *Assembler {
	return &Assembler{extractor: extractor, logger: logger}
}

// Assemble builds the record for one document. It never fails: a
// malformed filename and a failed content extraction each degrade
// independently, so a single bad input cannot abort a batch.
//
// The filename is the deterministic source and wins for identity fields
// (company, invoice number, topic, type); the content supplies the
// date, amounts, currency and country. When the filename is malformed
// the company is taken from the content and tagged, and the invoice
// identifier falls back to the extracted one.
func (a *Assembler) Assemble(ctx context.Context, path, text string) InvoiceRecord {
	extraction := a.extractor.Extract(ctx, text)

	rec := InvoiceRecord{
		InvoiceDate:    extraction.InvoiceDate,
		NetValue:       extraction.NetValue,
		GrossValue:     extraction.GrossValue,
		TaxValue:       extraction.TaxValue,
		EuroNetValue:   extraction.EuroNetValue,
		Currency:       extraction.Currency,
		CompanyCountry: extraction.CompanyCountry,
		Filepath:       path,
	}

	fields, err := filename.Parse(filepath.Base(path))
	if err != nil {
		var malformed *filename.MalformedFilenameError
		if errors.As(err, &malformed) {
			a.logger.Warn("filename does not match naming contract",
				zap.String("path", path))
		} else {
			a.logger.Warn("filename parse failed", zap.String("path", path), zap.Error(err))
		}
		rec.CompanyName = markMalformed(extraction.CompanyName)
		rec.InvoiceID = extraction.InvoiceID
	} else {
		rec.CompanyName = fields.CompanyName
		rec.InvoiceID = fields.InvoiceNumber
		rec.TopicNumber = fields.TopicNumber
		rec.InvoiceType = fields.InvoiceType
	}

	return finalize(rec)
}

func markMalformed(companyName string) string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		name = FallbackCompanyName
	}
	return MalformedNamePrefix + " " + name
}

// finalize enforces the record invariants: every field populated, no
// negative amounts, currency defaulted, EUR records carrying their net
// figure in the euro column.
func finalize(rec InvoiceRecord) InvoiceRecord {
	rec.CompanyName = strings.TrimSpace(rec.CompanyName)
	if rec.CompanyName == "" {
		rec.CompanyName = FallbackCompanyName
	}
	if strings.TrimSpace(rec.InvoiceDate) == "" {
		rec.InvoiceDate = SentinelDate
	}
	if rec.Currency == "" {
		rec.Currency = BaseCurrency
	}
	if rec.CompanyCountry == "" {
		rec.CompanyCountry = "Brak"
	}
	if rec.NetValue < 0 {
		rec.NetValue = 0
	}
	if rec.GrossValue < 0 {
		rec.GrossValue = 0
	}
	if rec.TaxValue < 0 {
		rec.TaxValue = 0
	}
	if rec.EuroNetValue < 0 {
		rec.EuroNetValue = 0
	}
	if rec.EuroNetValue == 0 && rec.Currency == "EUR" {
		rec.EuroNetValue = rec.NetValue
	}
	return rec
}
