package storage

import (
	"bytes"
	"testing"
)

func TestPDFCompressorMalformedInputFallsThrough(t *testing.T) {
	c := NewPDFCompressor()
	garbage := []byte("%PDF-1.7 this is not a real pdf body")

	res := c.Compress(garbage)

	if res.WasCompressed {
		t.Error("malformed input must not report compression")
	}
	if !bytes.Equal(res.Data, garbage) {
		t.Error("malformed input must pass through unchanged")
	}
	if res.OriginalSize != int64(len(garbage)) || res.FinalSize != int64(len(garbage)) {
		t.Errorf("sizes not preserved: original=%d final=%d", res.OriginalSize, res.FinalSize)
	}
}

func TestPDFCompressorEmptyInput(t *testing.T) {
	c := NewPDFCompressor()
	res := c.Compress(nil)
	if res.WasCompressed || len(res.Data) != 0 {
		t.Errorf("empty input must pass through: compressed=%v len=%d", res.WasCompressed, len(res.Data))
	}
}
