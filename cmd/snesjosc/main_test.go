package main

import (
	"net"
	"testing"
)

func TestGuestPageURL(t *testing.T) {
	addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8765}
	tests := []struct {
		origin string
		want   string
	}{
		{"appassets.localhost", "http://appassets.localhost:8765/assets/index.html"},
		{"", "http://127.0.0.1:8765/assets/index.html"},
	}
	for _, tc := range tests {
		if got := guestPageURL(tc.origin, addr, "/assets/index.html"); got != tc.want {
			t.Errorf("guestPageURL(%q) = %q, want %q", tc.origin, got, tc.want)
		}
	}
}
