// Package transport drives byte-level I/O against a spawned adapter: a
// growable reassembly buffer over its stdout, and flushed writes to its
// stdin. It knows nothing about DAP message semantics —
// that's internal/proxy's job — only about getting whole frames off the
// wire and framed bytes onto it.
package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kestrelproxy/dapbridge/internal/framing"
)

var (
	// ErrTimeout is returned when no bytes arrive within the poll window.
	ErrTimeout = errors.New("transport: read timeout")
	// ErrConnectionClosed is returned when a read returns zero bytes (EOF).
	ErrConnectionClosed = errors.New("transport: connection closed")
	// ErrWriteFailed wraps a short or failed write to the child's stdin.
	ErrWriteFailed = errors.New("transport: write failed")
)

const defaultReadChunk = 4096

// DefaultTimeout is the poll window used when New is given a zero timeout.
const DefaultTimeout = 30 * time.Second

// Decoder decodes one complete message from the head of buf, returning the
// body and the number of bytes consumed. It must behave like
// framing.DecodeContentLength: "need more bytes" conditions return an
// error that IsIncomplete recognizes.
type Decoder func(buf []byte) (body []byte, consumed int, err error)

// IsIncomplete reports whether err means "buffer doesn't hold a whole
// message yet" rather than a hard framing error.
type IsIncomplete func(err error) bool

// deadlineReader is satisfied by *os.File (and so, by method promotion,
// by the io.ReadCloser exec.Cmd.StdoutPipe returns) and by net.Conn. When
// the underlying reader supports it, ReadMessage uses a real deadline
// instead of spinning a goroutine to race the read — this module's
// read loop has exactly one I/O owner
type deadlineReader interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Transport reads framed messages out of a child's stdout and writes
// framed messages into its stdin. One Transport per session; it owns no
// session-level state beyond the raw reassembly buffer.
type Transport struct {
	r       io.Reader
	deadl   deadlineReader // non-nil when r supports SetReadDeadline
	w       io.Writer
	decode  Decoder
	incomp  IsIncomplete
	timeout time.Duration
	buf     []byte
}

// New constructs a Transport reading from r and writing to w. decode and
// incomplete select the framing in use (Content-Length or WebSocket).
// A zero timeout uses DefaultTimeout. If r implements SetReadDeadline
// (true for a child's piped stdout and for net.Conn), the timeout is
// enforced with a real deadline; otherwise reads block without a timeout,
// which only affects tests that feed Transport a bare io.Pipe.
func New(r io.Reader, w io.Writer, decode Decoder, incomplete IsIncomplete, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &Transport{
		r:       r,
		w:       w,
		decode:  decode,
		incomp:  incomplete,
		timeout: timeout,
	}
	if d, ok := r.(deadlineReader); ok {
		t.deadl = d
	}
	return t
}

// NewContentLength constructs a Transport for DAP's Content-Length framing.
func NewContentLength(r io.Reader, w io.Writer, timeout time.Duration) *Transport {
	return New(r, w, framing.DecodeContentLength, isIncompleteContentLength, timeout)
}

func isIncompleteContentLength(err error) bool {
	return errors.Is(err, framing.ErrMissingHeader) || errors.Is(err, framing.ErrTruncatedBody)
}

// ReadMessage returns the next whole message body. It first attempts to
// decode from the buffer already held; only on an "incomplete" result does
// it poll the underlying reader for more bytes
func (t *Transport) ReadMessage() ([]byte, error) {
	for {
		body, consumed, err := t.decode(t.buf)
		if err == nil {
			t.buf = t.buf[consumed:]
			return body, nil
		}
		if !t.incomp(err) {
			return nil, err
		}

		chunk, readErr := t.readChunkWithTimeout()
		if readErr != nil {
			return nil, readErr
		}
		t.buf = append(t.buf, chunk...)
	}
}

// readChunkWithTimeout blocks on a single Read call. When the underlying
// reader supports SetReadDeadline, the deadline enforces t.timeout and an
// expired deadline surfaces as ErrTimeout; this is a real OS-level poll,
// not a second goroutine racing the read.
func (t *Transport) readChunkWithTimeout() ([]byte, error) {
	chunk := make([]byte, defaultReadChunk)

	if t.deadl != nil {
		if err := t.deadl.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
			return nil, fmt.Errorf("transport: set read deadline: %w", err)
		}
	}

	n, err := t.r.Read(chunk)
	if err != nil {
		if isTimeoutErr(err) {
			return nil, ErrTimeout
		}
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, ErrConnectionClosed
		}
		if errors.Is(err, io.EOF) {
			return chunk[:n], nil
		}
		return nil, fmt.Errorf("transport: read: %w", err)
	}
	if n == 0 {
		return nil, ErrConnectionClosed
	}
	return chunk[:n], nil
}

// isTimeoutErr reports whether err is a deadline-exceeded error, the way
// net.Conn and *os.File report it (an error satisfying a Timeout() bool
// method, per the net.Error convention that os.File's pipe deadlines
// also honor).
func isTimeoutErr(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}

// WriteMessage writes an already-framed message in full and flushes it.
// A short write is reported as ErrWriteFailed; the underlying error is
// wrapped for diagnostics.
func (t *Transport) WriteMessage(framed []byte) error {
	n, err := t.w.Write(framed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if n != len(framed) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteFailed, n, len(framed))
	}
	if f, ok := t.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: flush: %v", ErrWriteFailed, err)
		}
	}
	return nil
}
