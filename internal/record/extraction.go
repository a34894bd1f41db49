package record

// Extraction holds the financial fields read from one document's
// content. It is what the AI extractor reports and what the assembler
// merges with filename fields.
type Extraction struct {
	CompanyName    string  `json:"company_name"`
	InvoiceID      string  `json:"invoice_id"`
	InvoiceDate    string  `json:"invoice_date"`
	GrossValue     float64 `json:"gross_value"`
	NetValue       float64 `json:"net_value"`
	TaxValue       float64 `json:"tax_value"`
	EuroNetValue   float64 `json:"euro_net_value"`
	Currency       string  `json:"currency"`
	CompanyCountry string  `json:"company_country"`
}

// FallbackExtraction is the explicit degraded result substituted when a
// document's content cannot be extracted. All amounts are zero and the
// currency is the base currency, so downstream math stays valid.
func FallbackExtraction() Extraction {
	return Extraction{
		CompanyName:    FallbackCompanyName,
		InvoiceID:      "",
		InvoiceDate:    SentinelDate,
		Currency:       BaseCurrency,
		CompanyCountry: "Brak",
	}
}
