package nntp

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"
)

// startFakeServer listens on an ephemeral local port, accepts exactly one
// connection, and runs script against it in a goroutine. It returns the
// address to dial.
func startFakeServer(t *testing.T, script func(conn net.Conn, r *bufio.Reader)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		script(conn, bufio.NewReader(conn))
	}()

	return ln.Addr().String()
}

func testDialOptions() DialOptions {
	opts := DefaultDialOptions()
	opts.Timeout = 2 * time.Second
	return opts
}

func TestConnectAndQuit(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "QUIT\r\n" {
			t.Errorf("server got %q, want QUIT", line)
		}
		conn.Write([]byte("205 bye\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if s.PostingAllowed {
		t.Fatalf("expected posting prohibited from 201 greeting")
	}
	if err := s.Quit(); err != nil {
		t.Fatalf("quit: %v", err)
	}
}

func TestConnectAccepts200Greeting(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("200 posting ok\r\n"))
	})
	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !s.PostingAllowed {
		t.Fatalf("expected posting allowed from 200 greeting")
	}
}

func TestList(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "LIST\r\n" {
			t.Errorf("server got %q, want LIST", line)
		}
		conn.Write([]byte("215 ok\r\nmisc.test 4 1 y\r\nalt.x 100 50 n\r\n.\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	groups, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups", len(groups))
	}
	if *groups[0] != (NewsGroup{Name: "misc.test", High: 4, Low: 1, Number: 3, Status: "y"}) {
		t.Fatalf("got %+v", *groups[0])
	}
	if *groups[1] != (NewsGroup{Name: "alt.x", High: 100, Low: 50, Number: 50, Status: "n"}) {
		t.Fatalf("got %+v", *groups[1])
	}
}

func TestGroupSelects(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "GROUP comp.sys.raspberry-pi\r\n" {
			t.Errorf("server got %q", line)
		}
		conn.Write([]byte("211 42 1 100 comp.sys.raspberry-pi\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	g, err := s.Group("comp.sys.raspberry-pi")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	want := NewsGroup{Name: "comp.sys.raspberry-pi", High: 100, Low: 1, Number: 42, Status: ""}
	if *g != want {
		t.Fatalf("got %+v, want %+v", *g, want)
	}
}

func TestArticleMissing(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "ARTICLE 6187\r\n" {
			t.Errorf("server got %q", line)
		}
		conn.Write([]byte("423 no such article\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = s.ArticleByNumber(6187)
	if !errors.Is(err, ErrArticleUnavailable) {
		t.Fatalf("got %v, want ErrArticleUnavailable", err)
	}
}

func TestPostInvalidRefusesWithoutWriting(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		// No further reads expected; if the client wrote anything this
		// goroutine would have nothing to do with it, which is fine —
		// the assertion is purely on the returned error below.
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	err = s.Post("hello")
	var ime *InvalidMessageError
	if !errors.As(err, &ime) {
		t.Fatalf("got %v, want InvalidMessageError", err)
	}
}

func TestPostHappyPath(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "POST\r\n" {
			t.Errorf("server got %q, want POST", line)
		}
		conn.Write([]byte("340 go\r\n"))

		msg, _ := r.ReadString('\n')
		for !(len(msg) >= 3 && msg[len(msg)-3:] == ".\r\n") {
			next, err := r.ReadString('\n')
			if err != nil {
				t.Errorf("reading posted message: %v", err)
				return
			}
			msg += next
		}
		conn.Write([]byte("240 ok\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := s.Post("From: a\r\n\r\nbody\r\n.\r\n"); err != nil {
		t.Fatalf("post: %v", err)
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "GROUP misc.test\r\n" {
			t.Errorf("server got %q", line)
		}
		// Close mid-response: no status line at all.
		conn.Close()
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = s.Group("misc.test")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !IsNetwork(err) {
		t.Fatalf("got %v, want a network-classified error", err)
	}
}

func TestResponseCodeMismatch(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "DATE\r\n" {
			t.Errorf("server got %q", line)
		}
		conn.Write([]byte("500 command not recognized\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = s.Date()
	var rce *ResponseCodeError
	if !errors.As(err, &rce) {
		t.Fatalf("got %v, want ResponseCodeError", err)
	}
	if rce.Expected != 111 || rce.Received != 500 {
		t.Fatalf("got %+v", rce)
	}
}

func TestEncodingFallbackInMultiline(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn, r *bufio.Reader) {
		conn.Write([]byte("201 ready\r\n"))
		line, _ := r.ReadString('\n')
		if line != "BODY\r\n" {
			t.Errorf("server got %q", line)
		}
		conn.Write([]byte("222 body follows\r\n"))
		conn.Write([]byte{'n', 0xE9, 'e', '\r', '\n'})
		conn.Write([]byte(".\r\n"))
	})

	s, err := Connect(addr, testDialOptions(), nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	lines, err := s.Body()
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if len(lines) != 1 || lines[0] != "née\r\n" {
		t.Fatalf("got %q", lines)
	}
}
