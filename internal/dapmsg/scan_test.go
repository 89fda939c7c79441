package dapmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanInspectorURL(t *testing.T) {
	cases := []struct {
		name   string
		output string
		url    string
		ok     bool
	}{
		{"present, newline terminated", "Debugger listening on ws://127.0.0.1:9229/abcd\nfor help", "ws://127.0.0.1:9229/abcd", true},
		{"present, space terminated", "ws://localhost:1234/id other text", "ws://localhost:1234/id", true},
		{"absent", "nothing to see here", "no URL", false},
		{"at end of output", "listening at ws://host:1/x", "ws://host:1/x", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url, ok := ScanInspectorURL(tc.output)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.url, url)
		})
	}
}

func TestScanAdapterPort(t *testing.T) {
	cases := []struct {
		name   string
		output string
		port   string
		ok     bool
	}{
		{"present", "Debug server listening at 127.0.0.1:4711\n", "4711", true},
		{"absent marker", "no such line here", "", false},
		{"no colon", "Debug server listening at localhost\n", "", false},
		{"non-numeric port", "Debug server listening at host:abc\n", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			port, ok := ScanAdapterPort(tc.output)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.port, port)
		})
	}
}
