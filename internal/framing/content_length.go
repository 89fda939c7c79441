// Package framing implements the two wire framings this proxy speaks to an
// adapter: DAP's Content-Length-prefixed JSON (content_length.go) and RFC
// 6455 WebSocket frames (websocket.go) for the CDP-style alternate
// transport.
package framing

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

// Framing errors's framing-error taxonomy. MissingHeader
// and TruncatedBody are "need more bytes" conditions the transport layer
// retries on; they never propagate past internal/transport.
var (
	ErrMissingHeader = errors.New("framing: missing header separator")
	ErrInvalidHeader = errors.New("framing: missing or invalid Content-Length header")
	ErrTruncatedBody = errors.New("framing: truncated body")
)

const headerSeparator = "\r\n\r\n"
const contentLengthPrefix = "Content-Length: "

// EncodeContentLength frames body as "Content-Length: <N>\r\n\r\n<body>".
func EncodeContentLength(body []byte) []byte {
	header := contentLengthPrefix + strconv.Itoa(len(body)) + headerSeparator
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return out
}

// DecodeContentLength scans buf's prefix for a Content-Length-framed
// message and returns its body and the number of bytes consumed. Header
// order is irrelevant and unrecognized headers are ignored; only a
// case-preserving "Content-Length: " prefix match is honored.
//
// Returns ErrMissingHeader if the header/body separator is absent,
// ErrInvalidHeader if no Content-Length header is found or it fails to
// parse as a non-negative integer, and ErrTruncatedBody if the header is
// complete but fewer than length body bytes are present yet.
func DecodeContentLength(buf []byte) (body []byte, consumed int, err error) {
	sepIdx := bytes.Index(buf, []byte(headerSeparator))
	if sepIdx < 0 {
		return nil, 0, ErrMissingHeader
	}

	headerBlock := string(buf[:sepIdx])
	length, ok := parseContentLength(headerBlock)
	if !ok {
		return nil, 0, ErrInvalidHeader
	}

	bodyStart := sepIdx + len(headerSeparator)
	bodyEnd := bodyStart + length
	if len(buf) < bodyEnd {
		return nil, 0, ErrTruncatedBody
	}

	return buf[bodyStart:bodyEnd], bodyEnd, nil
}

// parseContentLength scans header lines (separated by \r\n or \n) for a
// Content-Length entry and parses its value. Additional headers such as
// Content-Type are accepted and ignored.
func parseContentLength(headerBlock string) (int, bool) {
	lines := strings.Split(strings.ReplaceAll(headerBlock, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if !strings.HasPrefix(line, contentLengthPrefix) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, contentLengthPrefix))
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
