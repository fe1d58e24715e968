package checkpoint

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the block compression applied to a checkpoint blob.
type Compression uint8

const (
	// CompressionNone stores the JSON document as-is inside the frame.
	CompressionNone Compression = 0
	// CompressionLZ4 is LZ4 block compression (fast decode).
	CompressionLZ4 Compression = 1
	// CompressionZSTD is ZSTD block compression (better ratio; the default
	// for published checkpoints, whose float arrays compress well).
	CompressionZSTD Compression = 2
)

// Frame layout: magic (4) | compression (1) | uncompressed size (4) | data.
// Blobs without the magic are treated as raw uncompressed JSON, so
// checkpoints produced by plain tooling load unchanged.
var frameMagic = [4]byte{'A', 'A', 'G', 'C'}

const frameHeaderSize = 9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress frames data with the requested compression. If compression does
// not shrink the payload, the frame falls back to CompressionNone.
func Compress(data []byte, typ Compression) ([]byte, error) {
	var compressed []byte
	switch typ {
	case CompressionNone:
		compressed = data
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(data) {
			typ = CompressionNone
			compressed = data
		} else {
			compressed = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
		if len(compressed) >= len(data) {
			typ = CompressionNone
			compressed = data
		}
	default:
		return nil, formatErrorf("unknown compression type %d", typ)
	}

	out := make([]byte, frameHeaderSize+len(compressed))
	copy(out, frameMagic[:])
	out[4] = byte(typ)
	binary.LittleEndian.PutUint32(out[5:], uint32(len(data)))
	copy(out[frameHeaderSize:], compressed)
	return out, nil
}

// Decompress unwraps a framed blob. Data without the frame magic is returned
// unchanged.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < frameHeaderSize || [4]byte(data[:4]) != frameMagic {
		return data, nil
	}

	typ := Compression(data[4])
	uncompressedSize := binary.LittleEndian.Uint32(data[5:])
	payload := data[frameHeaderSize:]

	switch typ {
	case CompressionNone:
		if len(payload) != int(uncompressedSize) {
			return nil, formatErrorf("frame size %d, header says %d", len(payload), uncompressedSize)
		}
		return payload, nil
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, formatErrorf("lz4 decode: %v", err)
		}
		if n != int(uncompressedSize) {
			return nil, formatErrorf("lz4 decoded %d bytes, header says %d", n, uncompressedSize)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, formatErrorf("zstd decode: %v", err)
		}
		if len(out) != int(uncompressedSize) {
			return nil, formatErrorf("zstd decoded %d bytes, header says %d", len(out), uncompressedSize)
		}
		return out, nil
	default:
		return nil, formatErrorf("unknown compression type %d", typ)
	}
}
