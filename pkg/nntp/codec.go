package nntp

import (
	"bufio"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"nntpclient/pkg/logger"
)

// crlf is the two-byte line terminator every NNTP line (request, status
// line, and multi-line payload line) must end with on the wire.
const crlf = "\r\n"

// dotLine is the line that terminates a multi-line payload. It is consumed
// by readMultiline and never delivered to the caller.
const dotLine = ".\r\n"

// wireCodec owns the raw byte stream and turns it into lines and decoded
// text. It knows nothing about status codes or NNTP verbs; that lives in
// response.go and commands.go.
type wireCodec struct {
	r   *bufio.Reader
	w   writeFlusher
	log *slog.Logger
}

type writeFlusher interface {
	Write(p []byte) (int, error)
}

func newWireCodec(r *bufio.Reader, w writeFlusher, log *slog.Logger) *wireCodec {
	return &wireCodec{r: r, w: w, log: orDefaultLogger(log)}
}

// readLine reads bytes until it has seen a trailing CRLF and returns the
// buffer including the CRLF. A premature EOF (the connection closing before
// a full line arrives) is returned as-is so the caller's network
// classification (io.EOF/io.ErrUnexpectedEOF count as network) applies.
func (c *wireCodec) readLine() ([]byte, error) {
	var buf []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		n := len(buf)
		if n >= 2 && buf[n-2] == '\r' && buf[n-1] == '\n' {
			return buf, nil
		}
	}
}

// decode turns a raw byte buffer into text, trying UTF-8 first and falling
// back to Windows-1252 — the common mix found on Usenet. If neither decodes
// cleanly, it returns a DecodingError.
func decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", &DecodingError{Err: err}
	}
	return string(out), nil
}

// readDecodedLine reads one CRLF-terminated line and decodes it to text,
// CRLF included.
func (c *wireCodec) readDecodedLine() (string, error) {
	raw, err := c.readLine()
	if err != nil {
		return "", err
	}
	return decode(raw)
}

// readMultiline reads lines until it sees the exact terminator line ".\r\n",
// which is consumed but not returned. Per RFC 3977 §3.1.1, a line beginning
// with ".." has its leading dot stripped before being handed to the caller.
func (c *wireCodec) readMultiline() ([]string, error) {
	var lines []string
	for {
		line, err := c.readDecodedLine()
		if err != nil {
			return nil, err
		}
		if line == dotLine {
			return lines, nil
		}
		if len(line) >= 2 && line[0] == '.' && line[1] == '.' {
			line = line[1:]
		}
		lines = append(lines, line)
	}
}

// writeCommand writes a verb string verbatim; the caller is responsible for
// including the trailing CRLF.
func (c *wireCodec) writeCommand(cmd string) error {
	c.log.Debug("nntp: write command", "command", trimCRLFForLog(cmd))
	_, err := c.w.Write([]byte(cmd))
	return err
}

// stuffDots applies RFC 3977 §3.1.1 dot-stuffing to a POST message body
// before it is written to the wire: any line beginning with "." gets an
// extra "." prepended. The terminating "." line itself is left untouched,
// since it marks end-of-block rather than article content.
func stuffDots(message string) string {
	lines := splitKeepingCRLF(message)
	if len(lines) == 0 {
		return message
	}
	out := make([]byte, 0, len(message)+8)
	for i, line := range lines {
		isLast := i == len(lines)-1
		if isLast && line == dotLine {
			out = append(out, line...)
			continue
		}
		if len(line) > 0 && line[0] == '.' {
			out = append(out, '.')
		}
		out = append(out, line...)
	}
	return string(out)
}

// splitKeepingCRLF splits s into lines, each retaining its trailing CRLF
// (or lack thereof, for a final unterminated fragment).
func splitKeepingCRLF(s string) []string {
	var lines []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			lines = append(lines, s[start:i+2])
			start = i + 2
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// trimCRLFForLog renders a command without its trailing CRLF so it reads
// cleanly in a log line.
func trimCRLFForLog(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// defaultLevel is the level used when a Session is built without an
// explicit logger.
const defaultLevel = "INFO"

func orDefaultLogger(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return logger.New(defaultLevel, nil)
}
