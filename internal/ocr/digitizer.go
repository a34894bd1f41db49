package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PageMarker is the boundary written before each page's text, with the
// 1-based page number.
const PageMarker = "=== Strona %d ==="

// Config tunes the digitizer. The defaults match the documents this
// pipeline is used for: Polish invoices scanned at print resolution.
type Config struct {
	TesseractBin string  // OCR binary, "tesseract" when empty
	PrimaryLang  string  // tried first for every page, "pol" when empty
	FallbackLang string  // retried per page on OCR failure, "eng" when empty
	DPI          float64 // render resolution for paged containers, 300 when zero
}

func (c Config) withDefaults() Config {
	if c.TesseractBin == "" {
		c.TesseractBin = "tesseract"
	}
	if c.PrimaryLang == "" {
		c.PrimaryLang = "pol"
	}
	if c.FallbackLang == "" {
		c.FallbackLang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}

// Digitizer converts a paged document file into page-ordered OCR text.
type Digitizer struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

// NewDigitizer builds a Digitizer that shells out to tesseract.
func NewDigitizer(cfg Config, logger *zap.Logger) *Digitizer {
	return &Digitizer{cfg: cfg.withDefaults(), runner: execRunner{logger: logger}, logger: logger}
}

// NewDigitizerWithRunner injects an alternative command runner; used by
// tests.
func NewDigitizerWithRunner(cfg Config, runner Runner, logger *zap.Logger) *Digitizer {
	return &Digitizer{cfg: cfg.withDefaults(), runner: runner, logger: logger}
}

// ExtractText dispatches by file extension to the paged-raster strategy
// for PDFs or the multi-frame strategy for TIFFs. Any other extension
// fails with UnsupportedFormatError. Errors opening or reading the file
// propagate so the caller can record and skip that document.
func (d *Digitizer) ExtractText(ctx context.Context, path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return d.extractPaged(ctx, path)
	case ".tif", ".tiff":
		return d.extractFrames(ctx, path)
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// extractPaged renders each PDF page to a raster at the configured DPI
// and OCRs it.
func (d *Digitizer) extractPaged(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		img, err := doc.ImageDPI(page, d.cfg.DPI)
		if err != nil {
			return "", fmt.Errorf("render page %d of %s: %w", page+1, path, err)
		}
		text, err := d.ocrPage(ctx, img, page)
		if err != nil {
			return "", fmt.Errorf("ocr page %d of %s: %w", page+1, path, err)
		}
		writePage(&b, page, text)
	}
	return b.String(), nil
}

// extractFrames walks the frames of a multi-frame image. Frames are
// already rasters, so they are OCR'd at native resolution. Running out
// of frames is the normal termination condition.
func (d *Digitizer) extractFrames(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for frame := 0; frame < doc.NumPage(); frame++ {
		img, err := doc.Image(frame)
		if err != nil {
			if frame > 0 {
				break // past the last frame
			}
			return "", fmt.Errorf("decode frame %d of %s: %w", frame+1, path, err)
		}
		text, err := d.ocrPage(ctx, img, frame)
		if err != nil {
			return "", fmt.Errorf("ocr frame %d of %s: %w", frame+1, path, err)
		}
		writePage(&b, frame, text)
	}
	return b.String(), nil
}

// ocrPage writes one page raster to a scratch file and recognizes it,
// trying the primary language first and retrying the same page with the
// fallback language. The scratch file is removed even when OCR fails.
func (d *Digitizer) ocrPage(ctx context.Context, img image.Image, page int) (string, error) {
	tmp, err := os.CreateTemp("", "invoice_page_*.png")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode page raster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	text, lang, err := d.recognize(ctx, tmpPath)
	if err != nil {
		return "", err
	}
	if lang != d.cfg.PrimaryLang {
		d.logger.Info("page recognized with fallback language",
			zap.Int("page", page+1),
			zap.String("lang", lang))
	}
	return text, nil
}

// recognize is the explicit attempt-then-fallback step: primary
// language first, secondary on failure, and the language that produced
// the text reported back.
func (d *Digitizer) recognize(ctx context.Context, imgPath string) (text, lang string, err error) {
	out, _, primaryErr := d.runner.Run(ctx, d.cfg.TesseractBin, imgPath, "stdout", "-l", d.cfg.PrimaryLang)
	if primaryErr == nil {
		return string(out), d.cfg.PrimaryLang, nil
	}

	out, _, fallbackErr := d.runner.Run(ctx, d.cfg.TesseractBin, imgPath, "stdout", "-l", d.cfg.FallbackLang)
	if fallbackErr == nil {
		return string(out), d.cfg.FallbackLang, nil
	}
	return "", "", fmt.Errorf("ocr failed with %s (%v) and %s: %w",
		d.cfg.PrimaryLang, primaryErr, d.cfg.FallbackLang, fallbackErr)
}

func writePage(b *strings.Builder, page int, text string) {
	fmt.Fprintf(b, PageMarker+"\n%s\n", page+1, text)
}

// CleanText drops blank lines from OCR output before it is handed to
// the content extractor.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
