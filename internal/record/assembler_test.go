package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubExtractor returns a fixed extraction and remembers the text it
// was handed.
type stubExtractor struct {
	extraction Extraction
	lastText   string
}

func (s *stubExtractor) Extract(_ context.Context, text string) Extraction {
	s.lastText = text
	return s.extraction
}

func plnExtraction() Extraction {
	return Extraction{
		CompanyName:    "Acme Sp. z o.o.",
		InvoiceID:      "FV/123/2024",
		InvoiceDate:    "2024-03-05",
		GrossValue:     1230,
		NetValue:       1000,
		TaxValue:       230,
		Currency:       "PLN",
		CompanyCountry: "Polska",
	}
}

func TestAssemble_FilenameFieldsWin(t *testing.T) {
	stub := &stubExtractor{extraction: plnExtraction()}
	a := NewAssembler(stub, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/Acme 123 T7 corr.pdf", "ocr text")

	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "123", rec.InvoiceID)
	assert.Equal(t, "T7", rec.TopicNumber)
	assert.Equal(t, "corr", rec.InvoiceType)
	assert.Equal(t, "2024-03-05", rec.InvoiceDate)
	assert.Equal(t, 1000.0, rec.NetValue)
	assert.Equal(t, "Polska", rec.CompanyCountry)
	assert.Equal(t, "/in/Acme 123 T7 corr.pdf", rec.Filepath)
	assert.Equal(t, "ocr text", stub.lastText)
}

func TestAssemble_MalformedFilenameStillExtractsContent(t *testing.T) {
	stub := &stubExtractor{extraction: plnExtraction()}
	a := NewAssembler(stub, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/skan.pdf", "ocr text")

	assert.True(t, rec.IsMarkedMalformed())
	assert.Equal(t, MalformedNamePrefix+" Acme Sp. z o.o.", rec.CompanyName)
	assert.Equal(t, "FV/123/2024", rec.InvoiceID)
	assert.Empty(t, rec.TopicNumber)
	assert.Equal(t, 1230.0, rec.GrossValue)
}

func TestAssemble_MalformedFilenameAndFailedContent(t *testing.T) {
	stub := &stubExtractor{extraction: FallbackExtraction()}
	a := NewAssembler(stub, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/skan.pdf", "")

	assert.Equal(t, MalformedNamePrefix+" "+FallbackCompanyName, rec.CompanyName)
	assert.Equal(t, SentinelDate, rec.InvoiceDate)
	assert.Equal(t, BaseCurrency, rec.Currency)
	assert.Zero(t, rec.GrossValue)
	assert.Zero(t, rec.NetValue)
	assert.Zero(t, rec.TaxValue)
	assert.Zero(t, rec.EuroNetValue)
}

func TestAssemble_DualCurrencyKeepsDistinctEuroNet(t *testing.T) {
	x := plnExtraction()
	x.Currency = "EUR"
	x.EuroNetValue = 232.56
	a := NewAssembler(&stubExtractor{extraction: x}, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/Acme 123 T7.pdf", "text")

	assert.Equal(t, "EUR", rec.Currency)
	assert.Equal(t, 1000.0, rec.NetValue)
	assert.Equal(t, 1230.0, rec.GrossValue)
	assert.Equal(t, 230.0, rec.TaxValue)
	assert.Equal(t, 232.56, rec.EuroNetValue)
	assert.NotEqual(t, rec.NetValue, rec.EuroNetValue)
}

func TestAssemble_EuroOnlyDefaultsEuroNetToNet(t *testing.T) {
	x := plnExtraction()
	x.Currency = "EUR"
	x.EuroNetValue = 0
	a := NewAssembler(&stubExtractor{extraction: x}, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/Acme 123 T7.pdf", "text")

	assert.Equal(t, "EUR", rec.Currency)
	assert.Equal(t, 1000.0, rec.EuroNetValue)
}

func TestAssemble_FullyPopulated(t *testing.T) {
	a := NewAssembler(&stubExtractor{extraction: Extraction{}}, zap.NewNop())

	rec := a.Assemble(context.Background(), "/in/Acme 123 T7.pdf", "text")

	assert.NotEmpty(t, rec.CompanyName)
	assert.NotEmpty(t, rec.InvoiceDate)
	assert.NotEmpty(t, rec.Currency)
	assert.NotEmpty(t, rec.CompanyCountry)
	assert.NotEmpty(t, rec.Filepath)
	assert.GreaterOrEqual(t, rec.NetValue, 0.0)
	assert.GreaterOrEqual(t, rec.GrossValue, 0.0)
	assert.GreaterOrEqual(t, rec.TaxValue, 0.0)
}
