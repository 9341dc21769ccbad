package nntp

import (
	"bufio"
	"log/slog"
	"net"
)

// acceptedGreetings are the status codes Connect treats as a successful
// greeting. RFC 3977 allows either; the source this package supersedes
// hard-coded 201 only.
var acceptedGreetings = []int{int(CodeServicePostingAllowed), int(CodeServicePostingProhib)}

// Session is a full-duplex connection to one NNTP server plus the address
// and dial options needed to reconnect it. A Session is owned exclusively
// by one caller at a time; concurrent use from multiple goroutines is
// undefined and must be prevented by the caller.
type Session struct {
	conn  net.Conn
	codec *wireCodec
	addr  string
	opts  DialOptions
	log   *slog.Logger

	// PostingAllowed reflects which greeting code the server sent: true
	// for 200, false for 201. It is metadata only; the client does not
	// enforce it.
	PostingAllowed bool
}

// Connect dials addr, reads the server's greeting, and returns a ready
// Session. It accepts either the 200 (posting allowed) or 201 (posting
// prohibited) greeting code.
func Connect(addr string, opts DialOptions, log *slog.Logger) (*Session, error) {
	log = orDefaultLogger(log)
	conn, err := dial(addr, opts, log)
	if err != nil {
		return nil, &FailedConnectingError{Expected: acceptedGreetings, Err: err}
	}

	s := &Session{
		conn: conn,
		addr: addr,
		opts: opts,
		log:  log,
	}
	s.attachCodec()

	if err := s.readGreeting(); err != nil {
		conn.Close()
		return nil, err
	}
	log.Info("nntp: connected", "address", addr, "posting_allowed", s.PostingAllowed)
	return s, nil
}

func (s *Session) attachCodec() {
	s.codec = newWireCodec(bufio.NewReader(s.conn), s.conn, s.log)
}

func (s *Session) readGreeting() error {
	code, _, err := s.readStatusLine()
	if err != nil {
		return &FailedConnectingError{Expected: acceptedGreetings, Err: err}
	}
	switch code {
	case int(CodeServicePostingAllowed):
		s.PostingAllowed = true
	case int(CodeServicePostingProhib):
		s.PostingAllowed = false
	default:
		return &FailedConnectingError{
			Expected: acceptedGreetings,
			Err:      &ResponseCodeError{Expected: int(CodeServicePostingProhib), Received: code},
		}
	}
	return nil
}

// Reconnect replaces the session's underlying stream using the originally
// supplied address and dial options, and repeats greeting verification. It
// is the caller's responsibility to invoke this after any error for which
// IsNetwork reports true.
func (s *Session) Reconnect() error {
	if s.conn != nil {
		s.conn.Close()
	}
	conn, err := dial(s.addr, s.opts, s.log)
	if err != nil {
		return &FailedConnectingError{Expected: acceptedGreetings, Err: err}
	}
	s.conn = conn
	s.attachCodec()
	if err := s.readGreeting(); err != nil {
		s.conn.Close()
		return err
	}
	s.log.Info("nntp: reconnected", "address", s.addr)
	return nil
}

// Quit sends QUIT, awaits the 205 acknowledgement, and leaves the session
// closed. The session must not be used afterwards.
func (s *Session) Quit() error {
	defer s.conn.Close()
	if err := s.writeLine("QUIT" + crlf); err != nil {
		return err
	}
	_, err := s.expect(int(CodeClosing))
	return err
}

// readStatusLine reads and decodes one status line and splits it into its
// numeric code and remainder, without checking it against any expected
// code. Read errors are classified per the network/non-network taxonomy.
func (s *Session) readStatusLine() (int, string, error) {
	line, err := s.codec.readDecodedLine()
	if err != nil {
		return 0, "", wrapReadResponse(err)
	}
	code, rest, err := parseStatusLine(line)
	if err != nil {
		return 0, "", err
	}
	return code, rest, nil
}

// expect reads one status line and requires it match expected, returning
// the remainder of the line on success or a ResponseCodeError otherwise.
func (s *Session) expect(expected int) (string, error) {
	code, rest, err := s.readStatusLine()
	if err != nil {
		return "", err
	}
	return expectCode(expected, code, rest)
}

// writeLine writes a CRLF-terminated command verbatim.
func (s *Session) writeLine(cmd string) error {
	return wrapWriteRequest(s.codec.writeCommand(cmd))
}

// readMultiline reads a multi-line payload, classifying any read error as
// an article-read failure rather than a response-read failure.
func (s *Session) readMultiline() ([]string, error) {
	lines, err := s.codec.readMultiline()
	if err != nil {
		return nil, wrapReadArticle(err)
	}
	return lines, nil
}
