package statecodec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	sizes := []int{0, 1, 2, 3, 4, 5, 63, 64, 65, 1023, 4096, 1 << 20}
	for _, size := range sizes {
		data := make([]byte, size)
		rng.Read(data)

		got, err := Decode(Encode(data))
		if err != nil {
			t.Fatalf("size %d: Decode failed: %v", size, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestRoundTripLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large payload in short mode")
	}
	data := make([]byte, 24<<20)
	for i := range data {
		data[i] = byte(i * 31)
	}

	encoded := Encode(data)
	if len(encoded) != EncodedLen(len(data)) {
		t.Fatalf("encoded length %d, want %d", len(encoded), EncodedLen(len(data)))
	}

	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("large round trip mismatch")
	}
}

func TestEmpty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}
	if got := Encode([]byte{}); got != "" {
		t.Errorf("Encode(empty) = %q, want empty", got)
	}

	got, err := Decode("")
	if err != nil {
		t.Fatalf("Decode(\"\") failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Decode(\"\") = %v, want empty non-nil slice", got)
	}
}

func TestNoLineWrapping(t *testing.T) {
	data := bytes.Repeat([]byte{0xFF, 0x00, 0x7F}, 1000)
	if bytes.ContainsAny([]byte(Encode(data)), "\r\n") {
		t.Error("encoded payload should not contain line breaks")
	}
}

func TestDecodeStripsHeader(t *testing.T) {
	data := []byte("save state bytes")
	payload := "data:application/octet-stream;base64," + Encode(data)

	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	got, err := Decode("data:application/octet-stream;base64,")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d bytes", len(got))
	}
}

func TestDecodeUnpadded(t *testing.T) {
	// "ab" encodes to "YWI=" padded
	got, err := Decode("YWI")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != "ab" {
		t.Errorf("got %q, want \"ab\"", got)
	}
}

func TestDecodeIgnoresNewlines(t *testing.T) {
	got, err := Decode("aGVs\nbG8=")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want \"hello\"", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		"!!!!",
		"YW=I",
		"data:x;base64,@@@@",
		"a",
	}
	for _, in := range inputs {
		_, err := Decode(in)
		if err == nil {
			t.Errorf("Decode(%q) should fail", in)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error %v should wrap ErrMalformed", in, err)
		}
	}
}

func TestStripHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"h,abc", "abc"},
		{",abc", "abc"},
		{"abc,", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHeader(tt.in); got != tt.want {
			t.Errorf("StripHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
