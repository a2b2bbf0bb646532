// Package codec contains the stream compression formats that an archive may be wrapped in.
package codec

import (
	"io"
	"path/filepath"
	"strings"
)

// Codec has methods to create compressor/encoder and decompressor/decoder.
type Codec interface {
	// NewDecoder creates a decoder to decompress contents from the given io.Reader.
	NewDecoder(src io.Reader) (io.ReadCloser, error)
	// NewEncoder creates an encoder to compress contents to the given io.Writer.
	NewEncoder(dst io.Writer) (io.WriteCloser, error)
	// Ext returns the file extension including the leading dot.
	Ext() string
}

// FromName returns the Codec whose extension matches that of the given file name or S3 key.
//
// Returns nil if the extension is not recognized, in which case the content may still be identified by sniffing.
func FromName(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return GzipCodec{}
	case ".xz":
		return XzCodec{}
	case ".zst", ".zstd":
		return ZstdCodec{}
	case ".br":
		return BrotliCodec{}
	case ".lz4":
		return Lz4Codec{}
	default:
		return nil
	}
}
