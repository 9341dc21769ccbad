package nntp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ResponseCodeError is returned when a command receives a status code other
// than the one it expected. Callers may inspect Received to special-case
// specific server responses (e.g. an ARTICLE command special-cases 423
// itself and never returns this error for that code).
type ResponseCodeError struct {
	Expected int
	Received int
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("nntp: expected response code %d, got %d", e.Expected, e.Received)
}

// InvalidResponseError reports a status line that does not match the
// "NNN SP rest" shape required by RFC 3977.
type InvalidResponseError struct {
	Response string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("nntp: invalid response line %q", e.Response)
}

// FailedConnectingError wraps the underlying error from a failed connect,
// together with the greeting codes Connect accepts.
type FailedConnectingError struct {
	Expected []int
	Err      error
}

func (e *FailedConnectingError) Error() string {
	return fmt.Sprintf("nntp: failed connecting (expected greeting %v): %v", e.Expected, e.Err)
}

func (e *FailedConnectingError) Unwrap() error { return e.Err }

// FailedReadingResponseError wraps a non-network error encountered while
// reading a status line. The session is suspect but not necessarily broken.
type FailedReadingResponseError struct{ Err error }

func (e *FailedReadingResponseError) Error() string {
	return fmt.Sprintf("nntp: failed reading response: %v", e.Err)
}

func (e *FailedReadingResponseError) Unwrap() error { return e.Err }

// FailedReadingArticleError wraps a non-network error encountered while
// reading a multi-line article payload.
type FailedReadingArticleError struct{ Err error }

func (e *FailedReadingArticleError) Error() string {
	return fmt.Sprintf("nntp: failed reading article: %v", e.Err)
}

func (e *FailedReadingArticleError) Unwrap() error { return e.Err }

// FailedWritingRequestError wraps a non-network error encountered while
// writing a command.
type FailedWritingRequestError struct{ Err error }

func (e *FailedWritingRequestError) Error() string {
	return fmt.Sprintf("nntp: failed writing request: %v", e.Err)
}

func (e *FailedWritingRequestError) Unwrap() error { return e.Err }

// DecodingError reports that a byte buffer decoded cleanly as neither UTF-8
// nor Windows-1252.
type DecodingError struct{ Err error }

func (e *DecodingError) Error() string {
	return fmt.Sprintf("nntp: failed decoding response text: %v", e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// ErrArticleUnavailable is returned by the ARTICLE commands (Article,
// ArticleByID, ArticleByNumber) when the server replies 423 (no article with
// that number in the group). HEAD, BODY and STAT do not convert 423; they
// return a ResponseCodeError for it. The session remains healthy; this is
// not a network-level failure.
var ErrArticleUnavailable = errors.New("nntp: no article with that number in the group")

// InvalidMessageError reports that a POST argument does not end with the
// required CRLF "." CRLF terminator. No bytes are written to the wire when
// this error is returned.
type InvalidMessageError struct {
	Message string
	Reason  string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("nntp: invalid message for POST: %s", e.Reason)
}

// networkErrnos are the syscall-level error kinds classified as
// session-fatal ("network") per the protocol engine's error taxonomy:
// ConnectionRefused, ConnectionReset, ConnectionAborted, BrokenPipe,
// NotConnected, WouldBlock, and Interrupted.
var networkErrnos = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ECONNABORTED,
	syscall.EPIPE,
	syscall.ENOTCONN,
	syscall.EWOULDBLOCK,
	syscall.EINTR,
}

// IsNetwork reports whether err belongs to the "network" error kind: one
// that leaves the session's underlying stream unusable and requires
// Session.Reconnect before the session can be used again. This covers
// connection-refused/reset/aborted, broken pipes, not-connected sockets,
// deadline timeouts, EAGAIN/EWOULDBLOCK, interrupted syscalls, premature
// EOF while reading a line or multi-line block, failed address resolution
// (*net.DNSError), and any other failed socket operation (*net.OpError).
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, want := range networkErrnos {
		if errors.Is(err, want) {
			return true
		}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return false
}

// wrapReadResponse classifies a read error encountered while reading a
// status line: network-kind errors are surfaced unwrapped (callers use
// IsNetwork to detect them), everything else is wrapped as
// FailedReadingResponseError.
func wrapReadResponse(err error) error {
	if err == nil {
		return nil
	}
	if IsNetwork(err) {
		return err
	}
	return &FailedReadingResponseError{Err: err}
}

// wrapReadArticle classifies a read error encountered while reading a
// multi-line payload.
func wrapReadArticle(err error) error {
	if err == nil {
		return nil
	}
	if IsNetwork(err) {
		return err
	}
	return &FailedReadingArticleError{Err: err}
}

// wrapWriteRequest classifies a write error encountered while writing a
// command.
func wrapWriteRequest(err error) error {
	if err == nil {
		return nil
	}
	if IsNetwork(err) {
		return err
	}
	return &FailedWritingRequestError{Err: err}
}
