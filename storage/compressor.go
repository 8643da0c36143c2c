package storage

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Compressor shrinks an upload buffer before it is written out. Best effort
// only: implementations must return the original buffer on any failure and
// must never return an error.
type Compressor interface {
	Compress(data []byte) CompressionResult
}

type CompressionResult struct {
	Data          []byte
	WasCompressed bool
	OriginalSize  int64
	FinalSize     int64
}

// PDFCompressor runs pdfcpu's optimizer over a PDF buffer. Malformed or
// encrypted input falls through to the original bytes untouched.
type PDFCompressor struct {
	conf *model.Configuration
}

func NewPDFCompressor() *PDFCompressor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCompressor{conf: conf}
}

func (c *PDFCompressor) Compress(data []byte) (result CompressionResult) {
	result = CompressionResult{
		Data:         data,
		OriginalSize: int64(len(data)),
		FinalSize:    int64(len(data)),
	}

	// pdfcpu can panic on pathological input; an upload must survive that.
	defer func() {
		if r := recover(); r != nil {
			result = CompressionResult{
				Data:         data,
				OriginalSize: int64(len(data)),
				FinalSize:    int64(len(data)),
			}
		}
	}()

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &out, c.conf); err != nil {
		return result
	}
	if out.Len() >= len(data) {
		return result
	}

	compressed := out.Bytes()
	return CompressionResult{
		Data:          compressed,
		WasCompressed: true,
		OriginalSize:  int64(len(data)),
		FinalSize:     int64(len(compressed)),
	}
}
