package filename

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Fields holds the identity fields encoded in an invoice filename.
// The user-facing contract is "company invoice_number topic_number
// type(optional).pdf", whitespace-delimited; company names may contain
// spaces, in which case the trailing three tokens are read positionally
// and everything before them is the company.
type Fields struct {
	CompanyName   string
	InvoiceNumber string
	TopicNumber   string
	InvoiceType   string // empty when not present in the filename
}

// MalformedFilenameError reports a filename with too few tokens to
// satisfy the naming contract.
type MalformedFilenameError struct {
	Filename string
}

func (e *MalformedFilenameError) Error() string {
	return fmt.Sprintf("filename %q does not match expected format: 'company invoice_number topic_number type(optional).pdf'", e.Filename)
}

// Parse extracts identity fields from an invoice filename. It is pure:
// no I/O, identical input always yields identical output. The extension
// is stripped before tokenizing, so both basenames and full names work.
func Parse(filename string) (Fields, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Fields(base)

	var f Fields
	switch {
	case len(parts) < 3:
		return Fields{}, &MalformedFilenameError{Filename: filename}
	case len(parts) == 3:
		f = Fields{CompanyName: parts[0], InvoiceNumber: parts[1], TopicNumber: parts[2]}
	case len(parts) == 4:
		f = Fields{CompanyName: parts[0], InvoiceNumber: parts[1], TopicNumber: parts[2], InvoiceType: parts[3]}
	default:
		// Trailing three tokens are positional; the rest is the company.
		n := len(parts)
		f = Fields{
			CompanyName:   strings.Join(parts[:n-3], " "),
			InvoiceNumber: parts[n-3],
			TopicNumber:   parts[n-2],
			InvoiceType:   parts[n-1],
		}
	}

	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	f.TopicNumber = strings.TrimSpace(f.TopicNumber)
	f.InvoiceType = strings.TrimSpace(f.InvoiceType)
	return f, nil
}

// Validate reports whether a filename matches the naming contract.
func Validate(filename string) bool {
	_, err := Parse(filename)
	return err == nil
}

// DisplayName renders the parsed fields in a short human-readable form
// for CLI output.
func DisplayName(filename string) string {
	f, err := Parse(filename)
	if err != nil {
		return fmt.Sprintf("invalid format: %s", filename)
	}
	parts := []string{
		"Firma: " + f.CompanyName,
		"Faktura: " + f.InvoiceNumber,
		"Temat: " + f.TopicNumber,
	}
	if f.InvoiceType != "" {
		parts = append(parts, "Typ: "+f.InvoiceType)
	}
	return strings.Join(parts, " | ")
}
