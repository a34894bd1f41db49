package ai

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = "You are an expert in reading OCR text of Polish and European invoices (faktury). " +
	"You extract financial fields with perfect accuracy and always respond with valid JSON and clean string values."

// buildExtractionPrompt builds the per-document instruction. The schema
// is embedded verbatim so that the response-shape constraint and the
// local validator always agree.
func buildExtractionPrompt(text string) string {
	schemaJSON, _ := json.MarshalIndent(buildExtractionSchema(), "", "  ")
	return fmt.Sprintf(`Extract company data from this invoice text.
Return ONLY valid JSON matching this schema, with clean string values (no excessive tabs or whitespace):

%s

Field semantics:
- company_name is the name of the company that issued the invoice.
- invoice_id is the invoice number/identifier (like "INV-2024-001", "FV/123/2024").
- invoice_date is the issue date in YYYY-MM-DD form.

Currency normalization:
- if the currency is written as zł, pln or zloty, use "PLN".
- if the currency is written as euro, use "EUR".
- if the currency is written as dollar, use "USD".
- if the currency is written as pound, use "GBP".

Country normalization, one canonical display form per country:
- "Poland", "PL", "POL", "Polska" -> "Polska"
- "Germany", "DE", "GER", "Niemcy" -> "Niemcy"
- apply the same rule to every other country.

Amount rules:
- If net_value is not present but tax_value and gross_value are, calculate net_value as gross_value - tax_value.
- Always use the FINAL values of net_value, gross_value and tax_value, after any corrections stated in the text.

When the invoice contains both PLN and EUR amounts:
- set currency to "EUR"
- use the PLN values for gross_value, net_value and tax_value
- set euro_net_value to the EUR net amount found in the invoice
If only EUR amounts exist, set currency to "EUR" and euro_net_value to 0.

Invoice text:
%s`, schemaJSON, text)
}
