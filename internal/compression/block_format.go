package compression

import (
	"encoding/binary"
	"fmt"
	"math"
)

// A block is one frame on the wire:
//
//	[method (1)] [total size incl. header (4 LE)] [uncompressed size (4 LE)] [payload...]

// HeaderSize is the length of the block header.
const HeaderSize = 9

// CompressBlock compresses data and returns the full block (header + compressed payload).
// Blocks are limited to 4 GiB by the 32-bit size fields.
func CompressBlock(codec Codec, data []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("block of %d bytes exceeds the 32-bit size field", len(data))
	}
	compressed, err := codec.Compress(data)
	if err != nil {
		return nil, err
	}
	method := codec.MethodByte()
	if len(data) > 0 && len(compressed) >= len(data) {
		// Incompressible payloads are stored raw.
		compressed, method = data, MethodNone
	}

	totalSize := HeaderSize + len(compressed)
	block := make([]byte, totalSize)

	// Write header
	block[0] = method
	binary.LittleEndian.PutUint32(block[1:5], uint32(totalSize))
	binary.LittleEndian.PutUint32(block[5:9], uint32(len(data)))

	// Write compressed payload
	copy(block[HeaderSize:], compressed)

	return block, nil
}

// DecompressBlock reads a compressed block, validates header, and decompresses.
func DecompressBlock(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("compressed block too small: %d bytes", len(data))
	}

	methodByte := data[0]
	compressedSizeWithHeader := binary.LittleEndian.Uint32(data[1:5])
	uncompressedSize := binary.LittleEndian.Uint32(data[5:9])

	if int(compressedSizeWithHeader) > len(data) {
		return nil, fmt.Errorf("compressed block size mismatch: header says %d, have %d",
			compressedSizeWithHeader, len(data))
	}

	if compressedSizeWithHeader < HeaderSize {
		return nil, fmt.Errorf("compressed block size %d smaller than header", compressedSizeWithHeader)
	}

	codec, err := CodecFor(methodByte)
	if err != nil {
		return nil, err
	}
	payload := data[HeaderSize:compressedSizeWithHeader]
	return codec.Decompress(payload, int(uncompressedSize))
}

// ReadBlockHeader reads the header from a compressed block and returns
// (compressedSizeWithHeader, uncompressedSize, error).
func ReadBlockHeader(data []byte) (compressedTotal uint32, uncompressed uint32, err error) {
	if len(data) < HeaderSize {
		return 0, 0, fmt.Errorf("not enough data for block header")
	}
	compressedTotal = binary.LittleEndian.Uint32(data[1:5])
	uncompressed = binary.LittleEndian.Uint32(data[5:9])
	return compressedTotal, uncompressed, nil
}
