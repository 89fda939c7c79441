package transport

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kestrelproxy/dapbridge/internal/framing"
)

// ErrUpgradeRejected is returned when the server's handshake response
// doesn't satisfy the acceptance rules.
var ErrUpgradeRejected = errors.New("transport: websocket upgrade rejected")

// wsAcceptGUID is the fixed GUID RFC 6455 §4.2.2 appends to the client key
// before hashing into Sec-WebSocket-Accept.
const wsAcceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// BuildUpgradeRequest assembles the HTTP/1.1 upgrade request for a
// WebSocket handshake against host+path with the given client key:
// Host, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version: 13.
func BuildUpgradeRequest(host, path, key string) []byte {
	if path == "" {
		path = "/"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	b.WriteString("Upgrade: websocket\r\n")
	b.WriteString("Connection: Upgrade\r\n")
	fmt.Fprintf(&b, "Sec-WebSocket-Key: %s\r\n", key)
	b.WriteString("Sec-WebSocket-Version: 13\r\n")
	b.WriteString("\r\n")
	return []byte(b.String())
}

// ExpectedAcceptKey computes the Sec-WebSocket-Accept value a compliant
// server derives from the client key.
func ExpectedAcceptKey(clientKey string) string {
	sum := sha1.Sum([]byte(clientKey + wsAcceptGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ValidateUpgradeResponse checks a raw handshake response against the
// acceptance rules: status line begins "HTTP/1.1 101", a
// case-insensitive "upgrade: websocket" header, a "connection:" header
// containing "upgrade", and a "sec-websocket-accept:" header present.
func ValidateUpgradeResponse(response []byte) error {
	text := string(response)
	sepIdx := strings.Index(text, "\r\n\r\n")
	if sepIdx >= 0 {
		text = text[:sepIdx]
	}
	lines := strings.Split(text, "\r\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "HTTP/1.1 101") {
		return fmt.Errorf("%w: status %q", ErrUpgradeRejected, firstLine(lines))
	}

	var upgradeOK, connectionOK, acceptOK bool
	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		switch name {
		case "upgrade":
			upgradeOK = value == "websocket"
		case "connection":
			connectionOK = strings.Contains(value, "upgrade")
		case "sec-websocket-accept":
			acceptOK = value != ""
		}
	}
	if !upgradeOK {
		return fmt.Errorf("%w: missing upgrade: websocket header", ErrUpgradeRejected)
	}
	if !connectionOK {
		return fmt.Errorf("%w: connection header does not contain upgrade", ErrUpgradeRejected)
	}
	if !acceptOK {
		return fmt.Errorf("%w: missing sec-websocket-accept header", ErrUpgradeRejected)
	}
	return nil
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// Handshake performs the client side of the WebSocket upgrade over rw:
// writes the upgrade request and reads until the header separator, then
// validates the response.
func Handshake(rw io.ReadWriter, host, path, key string) error {
	if _, err := rw.Write(BuildUpgradeRequest(host, path, key)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	var response []byte
	chunk := make([]byte, 1024)
	for {
		n, err := rw.Read(chunk)
		if n > 0 {
			response = append(response, chunk[:n]...)
		}
		if strings.Contains(string(response), "\r\n\r\n") {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrConnectionClosed
			}
			return fmt.Errorf("transport: handshake read: %w", err)
		}
	}
	return ValidateUpgradeResponse(response)
}

// NewWebSocket constructs a Transport speaking RFC 6455 frames over rw
// (post-handshake). Reads unwrap a frame's payload; writes are expected to
// be pre-framed with framing.EncodeWebSocketFrame, matching how the
// Content-Length transport takes pre-framed bytes.
func NewWebSocket(r io.Reader, w io.Writer, timeout time.Duration) *Transport {
	decode := func(buf []byte) ([]byte, int, error) {
		frame, consumed, err := framing.DecodeWebSocketFrame(buf)
		if err != nil {
			return nil, 0, err
		}
		return frame.Payload, consumed, nil
	}
	incomplete := func(err error) bool {
		return errors.Is(err, framing.ErrTruncatedPayload) || errors.Is(err, framing.ErrFrameTooSmall)
	}
	return New(r, w, decode, incomplete, timeout)
}
