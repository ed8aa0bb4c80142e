// Package statecodec converts binary blobs (ROM images, save states) to and
// from the text-safe form used on the host/guest message boundary.
//
// The encoding is standard base64 with padding and no line wrapping. Decode
// accepts an optional header ending in a comma, such as the one produced by
// a data URL ("data:application/octet-stream;base64,").
package statecodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a payload is not valid base64.
var ErrMalformed = errors.New("malformed payload")

const headerDelimiter = ','

// Encode returns the text-safe form of data. The empty slice encodes to "".
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode returns the bytes encoded in payload. A header up to and including
// the first comma is discarded. The empty payload decodes to an empty,
// non-nil slice.
func Decode(payload string) ([]byte, error) {
	payload = StripHeader(payload)
	if payload == "" {
		return []byte{}, nil
	}

	enc := base64.StdEncoding
	if !strings.HasSuffix(payload, "=") && len(trimNewlines(payload))%4 != 0 {
		// Unpadded input from encoders that omit padding
		enc = base64.RawStdEncoding
	}

	data, err := enc.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return data, nil
}

// StripHeader removes everything up to and including the first comma.
// Payloads without a comma are returned unchanged.
func StripHeader(payload string) string {
	if i := strings.IndexByte(payload, headerDelimiter); i >= 0 {
		return payload[i+1:]
	}
	return payload
}

// EncodedLen returns the length of the encoding of n bytes.
func EncodedLen(n int) int {
	return base64.StdEncoding.EncodedLen(n)
}

// trimNewlines drops CR and LF, which the decoder ignores.
func trimNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
