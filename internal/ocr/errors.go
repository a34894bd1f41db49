package ocr

import "fmt"

// UnsupportedFormatError reports a file extension the digitizer has no
// strategy for.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q for %s (expected .pdf, .tif or .tiff)", e.Ext, e.Path)
}
