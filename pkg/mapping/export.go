package mapping

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Encode writes the registry as CBOR. With compress set the stream is
// wrapped in a zstd frame.
func (r *Registry) Encode(w io.Writer, compress bool) error {
	if !compress {
		if err := cbor.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("mapping: encode: %w", err)
		}
		return nil
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("mapping: zstd writer: %w", err)
	}
	if err := cbor.NewEncoder(zw).Encode(r); err != nil {
		zw.Close()
		return fmt.Errorf("mapping: encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("mapping: zstd close: %w", err)
	}
	return nil
}

// Decode reads a registry written by Encode.
func Decode(rd io.Reader, compressed bool) (*Registry, error) {
	if compressed {
		zr, err := zstd.NewReader(rd)
		if err != nil {
			return nil, fmt.Errorf("mapping: zstd reader: %w", err)
		}
		defer zr.Close()
		rd = zr
	}
	var r Registry
	if err := cbor.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("mapping: decode: %w", err)
	}
	return &r, nil
}
