// Package imagecodec converts image payloads between raw bytes and the
// plain base64 form the generation API exchanges.
package imagecodec

import (
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Encode reads r to completion and returns its bytes as a standard base64
// string with no media-type prefix. An empty stream encodes to "".
func Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("imagecodec: read source: %w", err)
	}
	return EncodeBytes(data), nil
}

// EncodeBytes returns the standard base64 encoding of data. Empty input
// encodes to "".
func EncodeBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. A data URI header such as "data:image/png;base64,"
// is stripped before decoding.
func Decode(s string) ([]byte, error) {
	payload, _ := SplitDataURI(s)
	if payload == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("imagecodec: decode base64: %w", err)
	}
	return data, nil
}

// SplitDataURI separates an optional data URI header from a base64 payload.
// When the header names a media type it is returned alongside the payload;
// inputs without a header pass through unchanged.
func SplitDataURI(s string) (payload, mediaType string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s, ""
	}
	pieces := strings.SplitN(s, ",", 2)
	if len(pieces) != 2 {
		return "", ""
	}
	meta := strings.TrimPrefix(pieces[0], "data:")
	if idx := strings.Index(meta, ";"); idx >= 0 {
		meta = meta[:idx]
	}
	return pieces[1], strings.TrimSpace(meta)
}

// DetectMediaType resolves an image media type from the filename extension,
// falling back to magic-byte sniffing and finally to image/png.
func DetectMediaType(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}

	if len(data) >= 8 {
		if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
			return "image/png"
		}
		if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
			return "image/jpeg"
		}
		if data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' {
			return "image/gif"
		}
	}

	return "image/png"
}
