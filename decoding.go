package tmx

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

var (
	ErrNoTileData             = errors.New("layer data decoded to no bytes")
	ErrInflateSize            = errors.New("inflated layer data does not match layer size")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrInvalidTileData        = errors.New("invalid layer data")
)

// DecodeTiles decodes the text payload of a data element into GIDs.
//
// Compressed payloads must inflate to exactly tileCount*4 bytes. Uncompressed
// base64 payloads are reinterpreted as little-endian uint32 values as-is.
// EncodingNone carries no payload and is decoded through tile elements.
func DecodeTiles(payload string, encoding Encoding, compression Compression, tileCount int) ([]uint32, error) {
	switch encoding {
	case EncodingBase64:
		return decodeBase64(payload, compression, tileCount)
	case EncodingCSV:
		if compression != CompressionNone {
			return nil, fmt.Errorf("%w: %s with csv encoding", ErrUnsupportedCompression, compression)
		}
		return decodeCSV(payload)
	case EncodingNone:
		return nil, fmt.Errorf("%w: encoding none has no text payload", ErrInvalidTileData)
	}
	return nil, fmt.Errorf("%w: unsupported encoding %s", ErrInvalidTileData, encoding)
}

func decodeCSV(content string) ([]uint32, error) {
	var data []uint32
	for s := range strings.SplitSeq(content, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		gid, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %w", ErrInvalidTileData, err)
		}
		data = append(data, uint32(gid))
	}
	return data, nil
}

func decodeBase64(content string, compression Compression, tileCount int) ([]uint32, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(content), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrInvalidTileData, err)
	}
	if len(decoded) == 0 {
		return nil, ErrNoTileData
	}

	switch compression {
	case CompressionNone:
	case CompressionGzip:
		decoded, err = inflate(decoded, tileCount*4, func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		})
	case CompressionZlib:
		decoded, err = inflate(decoded, tileCount*4, zlib.NewReader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}
	if err != nil {
		return nil, err
	}

	return bytesToGIDs(decoded)
}

// inflate decompresses data and requires the output to be exactly sizeHint bytes.
func inflate(data []byte, sizeHint int, newReader func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	reader, err := newReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: inflate: %w", ErrInvalidTileData, err)
	}
	defer reader.Close()

	inflated := bytes.NewBuffer(make([]byte, 0, max(sizeHint, 0)))
	if _, err := io.Copy(inflated, io.LimitReader(reader, int64(sizeHint)+1)); err != nil {
		return nil, fmt.Errorf("%w: inflate: %w", ErrInvalidTileData, err)
	}

	if inflated.Len() == 0 {
		return nil, fmt.Errorf("%w: inflate produced no output", ErrInflateSize)
	}
	if inflated.Len() != sizeHint {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInflateSize, inflated.Len(), sizeHint)
	}

	return inflated.Bytes(), nil
}

func bytesToGIDs(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrInvalidTileData, len(raw))
	}

	data := make([]uint32, len(raw)/4)
	for i := range data {
		data[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return data, nil
}
