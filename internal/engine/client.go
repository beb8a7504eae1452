package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"
)

// The broadcast engine speaks a line protocol over a Unix domain socket:
// one command per connection, response terminated by a literal END line.
// The server is inconsistent about line endings, so both END\n and END\r\n
// must be accepted.

const readChunkSize = 4096

// Timeouts tuned per caller class. Pollers run every few seconds and must
// give up fast; debug tooling is allowed to wait out a busy engine.
const (
	DefaultTimeout = 5 * time.Second
	PollTimeout    = 3 * time.Second
	DebugTimeout   = 15 * time.Second
)

var (
	// ErrSocketNotFound means the socket path does not exist, i.e. the
	// engine is not running (distinct from refusing connections).
	ErrSocketNotFound = errors.New("engine socket not found")

	// ErrConnectionRefused means the path exists but nothing is listening.
	ErrConnectionRefused = errors.New("engine connection refused")

	// ErrTimeout means no terminator arrived within the deadline.
	ErrTimeout = errors.New("engine response timed out")

	// ErrConnectionClosed means the engine hung up before sending the
	// terminator. Callers must not confuse this with an empty response.
	ErrConnectionClosed = errors.New("engine closed connection before END")
)

// Client is a connection-per-call client for the engine's control socket.
// No pooling: a wedged server on one call cannot corrupt the next.
type Client struct {
	SocketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{SocketPath: socketPath}
}

// SendCommand writes command + "\n", reads until the END terminator and
// returns the response body with the terminator and surrounding whitespace
// stripped.
func (c *Client) SendCommand(command string, timeout time.Duration) (string, error) {
	if _, err := os.Stat(c.SocketPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSocketNotFound, c.SocketPath)
	}

	conn, err := net.DialTimeout("unix", c.SocketPath, timeout)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return "", fmt.Errorf("%w: %s", ErrConnectionRefused, c.SocketPath)
		}
		return "", fmt.Errorf("dial %s: %w", c.SocketPath, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}

	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if hasTerminator(buf.Bytes()) {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w (read %d bytes)", ErrConnectionClosed, buf.Len())
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return "", fmt.Errorf("read response: %w", err)
		}
	}

	return strings.TrimSpace(stripTerminator(buf.String())), nil
}

func hasTerminator(b []byte) bool {
	return bytes.HasSuffix(b, []byte("END\n")) || bytes.HasSuffix(b, []byte("END\r\n"))
}

func stripTerminator(s string) string {
	if strings.HasSuffix(s, "END\r\n") {
		return strings.TrimSuffix(s, "END\r\n")
	}
	return strings.TrimSuffix(s, "END\n")
}
