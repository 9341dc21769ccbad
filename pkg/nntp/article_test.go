package nntp

import "testing"

func TestNewArticleSplitsHeadersAndBody(t *testing.T) {
	lines := []string{"A: 1\r\n", "B: 2\r\n", "\r\n", "body1\r\n", "body2\r\n"}
	a := NewArticle(lines)

	if len(a.Headers) != 2 || a.Headers["A"] != "1" || a.Headers["B"] != "2" {
		t.Fatalf("got headers %+v", a.Headers)
	}
	want := []string{"body1\r\n", "body2\r\n"}
	if len(a.Body) != len(want) {
		t.Fatalf("got body %+v", a.Body)
	}
	for i := range want {
		if a.Body[i] != want[i] {
			t.Fatalf("body[%d]: got %q, want %q", i, a.Body[i], want[i])
		}
	}
}

func TestNewArticleNoBody(t *testing.T) {
	lines := []string{"Subject: hi\r\n", "\r\n"}
	a := NewArticle(lines)
	if a.Headers["Subject"] != "hi" {
		t.Fatalf("got headers %+v", a.Headers)
	}
	if len(a.Body) != 0 {
		t.Fatalf("expected empty body, got %+v", a.Body)
	}
}
