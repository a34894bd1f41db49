package record

import "strings"

// BaseCurrency is the currency all monetary columns are normalized to
// at export time.
const BaseCurrency = "PLN"

// SentinelDate marks a record whose invoice date could not be determined.
const SentinelDate = "1900-01-01"

// FallbackCompanyName marks a record whose content extraction failed.
const FallbackCompanyName = "Błąd danych"

// MalformedNamePrefix tags records whose filename did not match the
// naming contract. The document is still processed and exported.
const MalformedNamePrefix = "BŁĄD NAZWY:"

// InvoiceRecord is the canonical result of processing one document.
// Every field is always populated; unknown values use explicit
// sentinels so consumers never branch on absence.
type InvoiceRecord struct {
	CompanyName    string
	InvoiceID      string
	TopicNumber    string
	InvoiceType    string
	InvoiceDate    string
	NetValue       float64
	GrossValue     float64
	TaxValue       float64
	EuroNetValue   float64
	Currency       string
	CompanyCountry string
	Filepath       string
}

// IsMarkedMalformed reports whether the record carries the
// malformed-filename error tag.
func (r InvoiceRecord) IsMarkedMalformed() bool {
	return strings.HasPrefix(r.CompanyName, MalformedNamePrefix)
}
