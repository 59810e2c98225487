package compression

import (
	"fmt"
	"strings"
)

// Codec compresses and decompresses the payload of a batch frame.
type Codec interface {
	// MethodByte returns the single-byte codec identifier written to the
	// block header.
	MethodByte() byte
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, decompressedSize int) ([]byte, error)
}

// Method byte constants.
const (
	MethodNone byte = 0x02
	MethodLZ4  byte = 0x82
)

// ParseCodec returns the codec named "lz4" or "none".
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lz4":
		return &LZ4Codec{}, nil
	case "none", "":
		return &NoneCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec: %q", name)
	}
}

// CodecFor returns the codec identified by a block header method byte.
func CodecFor(method byte) (Codec, error) {
	switch method {
	case MethodLZ4:
		return &LZ4Codec{}, nil
	case MethodNone:
		return &NoneCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown compression method: 0x%02x", method)
	}
}
