package ledger

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/record"
)

// DefaultSheet is the worksheet holding the ledger table.
const DefaultSheet = "Faktury"

// headers enumerate the ledger columns in order.
var headers = []string{
	"Firma", "Nr faktury", "Temat", "Typ", "Data",
	"Brutto", "Netto", "Vat", "Netto EUR", "Waluta", "Kraj", "Plik",
}

// columnWidths are presentation constants tuned for this schema.
var columnWidths = []float64{50, 18, 12, 10, 15, 15, 15, 15, 15, 10, 15, 45}

// amountColumns are 0-based indexes of the numeric columns, used to
// keep prior rows numeric when the table is rewritten.
var amountColumns = map[int]bool{5: true, 6: true, 7: true, 8: true}

// AppendResult reports the outcome of one append.
type AppendResult struct {
	OK       bool
	Appended int // rows added in this call
	Total    int // rows in the destination after the call
	Err      error
}

// Store appends batches of invoice records to a cumulative spreadsheet
// file, never mutating or removing prior rows.
type Store struct {
	sheet  string
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{sheet: DefaultSheet, logger: logger}
}

// Append maps records to flat rows, re-reads the destination's prior
// rows, and writes the combined table back with fixed column widths.
// EUR rows have net/gross/vat converted to the base currency with the
// given rate and carry the original EUR net figure in the side column.
//
// The workbook is written to a temporary file next to the destination
// and renamed over it, so a failed append leaves an existing file
// byte-for-byte intact. Append never panics; failures come back in the
// result.
func (s *Store) Append(records []record.InvoiceRecord, rate float64, destination string) AppendResult {
	if len(records) == 0 {
		return AppendResult{Err: fmt.Errorf("no records to append")}
	}

	prior := s.readPrior(destination)

	rows := make([][]any, 0, len(prior)+len(records))
	rows = append(rows, prior...)
	for _, rec := range records {
		rows = append(rows, mapRow(rec, rate))
	}

	if err := s.write(destination, rows); err != nil {
		s.logger.Error("ledger write failed",
			zap.String("destination", destination),
			zap.Error(err))
		return AppendResult{Err: err}
	}

	s.logger.Info("ledger updated",
		zap.String("destination", destination),
		zap.Int("appended", len(records)),
		zap.Int("total", len(rows)))
	return AppendResult{OK: true, Appended: len(records), Total: len(rows)}
}

// mapRow flattens one record, recomputing the base-currency columns at
// write time.
func mapRow(rec record.InvoiceRecord, rate float64) []any {
	net, gross, tax := rec.NetValue, rec.GrossValue, rec.TaxValue
	var euroNet any = ""
	if rec.Currency == "EUR" {
		net = round2(net * rate)
		gross = round2(gross * rate)
		tax = round2(tax * rate)
		euroNet = rec.EuroNetValue
	}
	return []any{
		rec.CompanyName, rec.InvoiceID, rec.TopicNumber, rec.InvoiceType, rec.InvoiceDate,
		gross, net, tax, euroNet, rec.Currency, rec.CompanyCountry, rec.Filepath,
	}
}

// readPrior loads the destination's current rows (sans header). A
// missing or unreadable file starts the table fresh rather than
// aborting the batch.
func (s *Store) readPrior(destination string) [][]any {
	if _, err := os.Stat(destination); err != nil {
		return nil
	}
	f, err := excelize.OpenFile(destination)
	if err != nil {
		s.logger.Warn("could not read existing ledger, starting fresh",
			zap.String("destination", destination),
			zap.Error(err))
		return nil
	}
	defer f.Close()

	raw, err := f.GetRows(s.sheet)
	if err != nil || len(raw) == 0 {
		// Fall back to whichever sheet is first; older files may
		// predate the sheet name.
		if sheets := f.GetSheetList(); len(sheets) > 0 {
			raw, err = f.GetRows(sheets[0])
		}
		if err != nil {
			s.logger.Warn("could not read existing ledger rows, starting fresh",
				zap.String("destination", destination),
				zap.Error(err))
			return nil
		}
	}
	if len(raw) <= 1 {
		return nil
	}

	prior := make([][]any, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make([]any, len(headers))
		for i := range row {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			if amountColumns[i] && cell != "" {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row[i] = v
					continue
				}
			}
			row[i] = cell
		}
		prior = append(prior, row)
	}
	return prior
}

// write renders the full table into a fresh workbook and swaps it into
// place atomically.
func (s *Store) write(destination string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(s.sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(s.sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", h, err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(s.sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	for i, width := range columnWidths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(s.sheet, name, name, width); err != nil {
			return fmt.Errorf("set column width %s: %w", name, err)
		}
	}

	dir := filepath.Dir(destination)
	tmp, err := os.CreateTemp(dir, ".ledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("swap workbook into place: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
