package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piotrkw/invoice-ledger/internal/ledger"
	"github.com/piotrkw/invoice-ledger/internal/ocr"
	"github.com/piotrkw/invoice-ledger/internal/record"
)

type fakeDigitizer struct {
	failing map[string]error
}

func (f *fakeDigitizer) ExtractText(_ context.Context, path string) (string, error) {
	if err, ok := f.failing[path]; ok {
		return "", err
	}
	return "text of " + path, nil
}

type fakeAssembler struct{}

func (fakeAssembler) Assemble(_ context.Context, path, text string) record.InvoiceRecord {
	return record.InvoiceRecord{
		CompanyName: filepath.Base(path),
		Currency:    record.BaseCurrency,
		Filepath:    path,
	}
}

type fakeRateSource struct {
	rate  float64
	calls int
}

func (f *fakeRateSource) Rate(_ context.Context, base, quote string) float64 {
	f.calls++
	return f.rate
}

type fakeLedger struct {
	result   ledger.AppendResult
	records  []record.InvoiceRecord
	rate     float64
	appendTo string
}

func (f *fakeLedger) Append(records []record.InvoiceRecord, rate float64, destination string) ledger.AppendResult {
	f.records = records
	f.rate = rate
	f.appendTo = destination
	res := f.result
	if res.OK {
		res.Appended = len(records)
		res.Total = len(records)
	}
	return res
}

func newTestPipeline(d *fakeDigitizer, l *fakeLedger, r *fakeRateSource) *Pipeline {
	return New(d, fakeAssembler{}, r, l, "out.xlsx", zap.NewNop())
}

func TestRun_HappyPath(t *testing.T) {
	led := &fakeLedger{result: ledger.AppendResult{OK: true}}
	rs := &fakeRateSource{rate: 4.30}
	p := newTestPipeline(&fakeDigitizer{}, led, rs)

	summary, err := p.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, 3, summary.Appended)
	assert.Equal(t, 4.30, summary.Rate)
	assert.Equal(t, "out.xlsx", led.appendTo)
	assert.NotEmpty(t, summary.BatchID)
}

func TestRun_NewRowsKeepInputOrder(t *testing.T) {
	led := &fakeLedger{result: ledger.AppendResult{OK: true}}
	p := newTestPipeline(&fakeDigitizer{}, led, &fakeRateSource{rate: 4.30})

	_, err := p.Run(context.Background(), []string{"c.pdf", "a.pdf", "b.pdf"})
	require.NoError(t, err)

	require.Len(t, led.records, 3)
	assert.Equal(t, "c.pdf", led.records[0].CompanyName)
	assert.Equal(t, "a.pdf", led.records[1].CompanyName)
	assert.Equal(t, "b.pdf", led.records[2].CompanyName)
}

func TestRun_SkipsFailingDocumentsAndContinues(t *testing.T) {
	unsupported := &ocr.UnsupportedFormatError{Path: "b.docx", Ext: ".docx"}
	d := &fakeDigitizer{failing: map[string]error{
		"b.docx":     unsupported,
		"broken.pdf": errors.New("open broken.pdf: malformed"),
	}}
	led := &fakeLedger{result: ledger.AppendResult{OK: true}}
	p := newTestPipeline(d, led, &fakeRateSource{rate: 4.30})

	summary, err := p.Run(context.Background(), []string{"a.pdf", "b.docx", "broken.pdf", "c.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	require.Len(t, summary.Skipped, 2)
	assert.Contains(t, summary.Skipped[0], "b.docx")
	assert.Contains(t, summary.Skipped[1], "broken.pdf")
	require.Len(t, led.records, 2)
}

func TestRun_ZeroValidDocumentsIsBatchFailure(t *testing.T) {
	d := &fakeDigitizer{failing: map[string]error{"a.docx": &ocr.UnsupportedFormatError{Path: "a.docx", Ext: ".docx"}}}
	rs := &fakeRateSource{rate: 4.30}
	p := newTestPipeline(d, &fakeLedger{}, rs)

	summary, err := p.Run(context.Background(), []string{"a.docx"})
	require.Error(t, err)
	assert.Zero(t, summary.Processed)
	assert.Zero(t, rs.calls, "no rate round-trip for an empty batch")
}

func TestRun_PersistenceFailureSurfaces(t *testing.T) {
	led := &fakeLedger{result: ledger.AppendResult{Err: fmt.Errorf("disk full")}}
	p := newTestPipeline(&fakeDigitizer{}, led, &fakeRateSource{rate: 4.30})

	summary, err := p.Run(context.Background(), []string{"a.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, summary.Processed)
	assert.Zero(t, summary.Appended)
}

func TestRun_OneRatePerBatch(t *testing.T) {
	rs := &fakeRateSource{rate: 4.30}
	led := &fakeLedger{result: ledger.AppendResult{OK: true}}
	p := newTestPipeline(&fakeDigitizer{}, led, rs)

	_, err := p.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 1, rs.calls)
	assert.Equal(t, 4.30, led.rate)
}

func TestSummary_String(t *testing.T) {
	s := Summary{
		Processed:   2,
		Skipped:     []string{"x.docx: unsupported"},
		Appended:    2,
		Total:       5,
		Destination: "faktury_data.xlsx",
	}
	text := s.String()
	assert.Equal(t, "Processed 2 of 3 documents.\n"+
		"Skipped 1:\n"+
		"  - x.docx: unsupported\n"+
		"Exported 2 records to faktury_data.xlsx (5 total).", text)
}
