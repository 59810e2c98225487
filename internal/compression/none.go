package compression

import "fmt"

// NoneCodec stores payloads uncompressed.
type NoneCodec struct{}

func (c *NoneCodec) MethodByte() byte { return MethodNone }
func (c *NoneCodec) Name() string     { return "none" }

func (c *NoneCodec) Compress(src []byte) ([]byte, error) {
	return src, nil
}

func (c *NoneCodec) Decompress(src []byte, decompressedSize int) ([]byte, error) {
	if len(src) != decompressedSize {
		return nil, fmt.Errorf("stored block: expected %d bytes, got %d", decompressedSize, len(src))
	}
	dst := make([]byte, decompressedSize)
	copy(dst, src)
	return dst, nil
}
