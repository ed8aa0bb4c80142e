package standalone

import "testing"

func TestAppStateString(t *testing.T) {
	tests := []struct {
		state    AppState
		expected string
	}{
		{StateLibrary, "Library"},
		{StateError, "Error"},
		{StatePlaying, "Playing"},
		{AppState(99), "Unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.state.String(); got != tc.expected {
				t.Errorf("AppState(%d).String() = %q, want %q", tc.state, got, tc.expected)
			}
		})
	}
}
