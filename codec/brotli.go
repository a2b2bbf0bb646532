package codec

import (
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliCodec implements Codec for brotli compression algorithm.
type BrotliCodec struct {
}

var _ Codec = BrotliCodec{}

func (c BrotliCodec) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(src)), nil
}

func (c BrotliCodec) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriter(dst), nil
}

func (c BrotliCodec) Ext() string {
	return ".br"
}
