package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunUsageErrors(t *testing.T) {
	require.Equal(t, 2, run(nil))
	require.Equal(t, 2, run([]string{"frobnicate"}))
	require.Equal(t, 2, run([]string{"run"}), "run without --profile is a usage error")
	require.Equal(t, 2, run([]string{"run", "--profile", "p.yaml", "--format", "xml"}))
}

func TestRunHelpAndVersion(t *testing.T) {
	require.Equal(t, 0, run([]string{"--help"}))
	require.Equal(t, 0, run([]string{"--version"}))
}

func TestScanReport(t *testing.T) {
	out := scanReport("Debugger listening on ws://127.0.0.1:9229/abc-def\nDebug server listening at 127.0.0.1:38697\n")
	require.Contains(t, out, "inspector: ws://127.0.0.1:9229/abc-def\n")
	require.Contains(t, out, "port: 38697\n")

	out = scanReport("nothing interesting here\n")
	require.Contains(t, out, "inspector: no URL\n")
	require.Contains(t, out, "port: none\n")
}
