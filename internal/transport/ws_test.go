package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildUpgradeRequestCarriesRequiredHeaders(t *testing.T) {
	req := string(BuildUpgradeRequest("127.0.0.1:9229", "/session/abc", "dGhlIHNhbXBsZSBub25jZQ=="))

	require.True(t, strings.HasPrefix(req, "GET /session/abc HTTP/1.1\r\n"))
	require.Contains(t, req, "Host: 127.0.0.1:9229\r\n")
	require.Contains(t, req, "Upgrade: websocket\r\n")
	require.Contains(t, req, "Connection: Upgrade\r\n")
	require.Contains(t, req, "Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n")
	require.Contains(t, req, "Sec-WebSocket-Version: 13\r\n")
	require.True(t, strings.HasSuffix(req, "\r\n\r\n"))
}

func TestExpectedAcceptKeyMatchesRFCExample(t *testing.T) {
	// RFC 6455 §1.3's worked example.
	require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=",
		ExpectedAcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestValidateUpgradeResponse(t *testing.T) {
	good := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n\r\n"
	require.NoError(t, ValidateUpgradeResponse([]byte(good)))

	// Header names and values match case-insensitively.
	mixed := "HTTP/1.1 101 Switching Protocols\r\n" +
		"UPGRADE: WebSocket\r\n" +
		"connection: keep-alive, Upgrade\r\n" +
		"SEC-WEBSOCKET-ACCEPT: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n\r\n"
	require.NoError(t, ValidateUpgradeResponse([]byte(mixed)))

	cases := map[string]string{
		"wrong status": "HTTP/1.1 200 OK\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Accept: x\r\n\r\n",
		"no upgrade":   "HTTP/1.1 101 Switching Protocols\r\nConnection: Upgrade\r\nSec-WebSocket-Accept: x\r\n\r\n",
		"no connection": "HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nSec-WebSocket-Accept: x\r\n\r\n",
		"no accept":     "HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n\r\n",
	}
	for name, response := range cases {
		require.ErrorIs(t, ValidateUpgradeResponse([]byte(response)), ErrUpgradeRejected, name)
	}
}
