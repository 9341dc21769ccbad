package nntp

import (
	"errors"
	"strconv"
)

// sendAwaitPayload writes cmd+CRLF, awaits the expected status code, and
// reads the multi-line payload that follows it.
func (s *Session) sendAwaitPayload(cmd string, expected int) ([]string, error) {
	if err := s.writeLine(cmd + crlf); err != nil {
		return nil, err
	}
	if _, err := s.expect(expected); err != nil {
		return nil, err
	}
	return s.readMultiline()
}

// sendAwaitLine writes cmd+CRLF, awaits the expected status code, and
// returns the rest-of-line from the status itself (no payload follows).
func (s *Session) sendAwaitLine(cmd string, expected int) (string, error) {
	if err := s.writeLine(cmd + crlf); err != nil {
		return "", err
	}
	return s.expect(expected)
}

// asArticleUnavailable converts a ResponseCodeError carrying the 423 "no
// such article" code into ErrArticleUnavailable; any other error (including
// a ResponseCodeError carrying a different received code) is returned
// unchanged.
func asArticleUnavailable(err error) error {
	var rce *ResponseCodeError
	if errors.As(err, &rce) && rce.Received == int(CodeNoSuchArticleInGroup) {
		return ErrArticleUnavailable
	}
	return err
}

// Capabilities requests the server's capability list.
func (s *Session) Capabilities() ([]string, error) {
	return s.sendAwaitPayload("CAPABILITIES", int(CodeCapabilitiesFollow))
}

// Help requests the server's help text.
func (s *Session) Help() ([]string, error) {
	return s.sendAwaitPayload("HELP", int(CodeHelpFollows))
}

// Date requests the server's idea of the current date and time.
func (s *Session) Date() (string, error) {
	return s.sendAwaitLine("DATE", int(CodeServerDate))
}

// List requests the full newsgroup listing and parses each payload line
// into a NewsGroup.
func (s *Session) List() ([]*NewsGroup, error) {
	lines, err := s.sendAwaitPayload("LIST", int(CodeListFollows))
	if err != nil {
		return nil, err
	}
	groups := make([]*NewsGroup, 0, len(lines))
	for _, line := range lines {
		g, err := NewsGroupFromListResponse(line)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Group selects a newsgroup and parses the 211 reply into a NewsGroup.
func (s *Session) Group(name string) (*NewsGroup, error) {
	rest, err := s.sendAwaitLine("GROUP "+name, int(CodeGroupSelected))
	if err != nil {
		return nil, err
	}
	return NewsGroupFromGroupResponse(rest)
}

// Article retrieves the current article in the selected group.
func (s *Session) Article() (*Article, error) { return s.article("ARTICLE") }

// ArticleByID retrieves an article by message-id.
func (s *Session) ArticleByID(id string) (*Article, error) {
	return s.article("ARTICLE " + id)
}

// ArticleByNumber retrieves an article by its number in the selected group.
func (s *Session) ArticleByNumber(number int) (*Article, error) {
	return s.article("ARTICLE " + strconv.Itoa(number))
}

func (s *Session) article(cmd string) (*Article, error) {
	lines, err := s.sendAwaitPayload(cmd, int(CodeArticleFollows))
	if err != nil {
		return nil, asArticleUnavailable(err)
	}
	return NewArticle(lines), nil
}

// Head retrieves the headers of the current article.
func (s *Session) Head() ([]string, error) { return s.sendAwaitPayload("HEAD", int(CodeHeadFollows)) }

// HeadByID retrieves the headers of an article by message-id.
func (s *Session) HeadByID(id string) ([]string, error) {
	return s.sendAwaitPayload("HEAD "+id, int(CodeHeadFollows))
}

// HeadByNumber retrieves the headers of an article by number.
func (s *Session) HeadByNumber(number int) ([]string, error) {
	return s.sendAwaitPayload("HEAD "+strconv.Itoa(number), int(CodeHeadFollows))
}

// Body retrieves the body of the current article.
func (s *Session) Body() ([]string, error) { return s.sendAwaitPayload("BODY", int(CodeBodyFollows)) }

// BodyByID retrieves the body of an article by message-id.
func (s *Session) BodyByID(id string) ([]string, error) {
	return s.sendAwaitPayload("BODY "+id, int(CodeBodyFollows))
}

// BodyByNumber retrieves the body of an article by number.
func (s *Session) BodyByNumber(number int) ([]string, error) {
	return s.sendAwaitPayload("BODY "+strconv.Itoa(number), int(CodeBodyFollows))
}

// Stat checks for the current article's existence without retrieving it.
func (s *Session) Stat() (string, error) { return s.sendAwaitLine("STAT", int(CodeArticleSelected)) }

// StatByID checks for an article's existence by message-id.
func (s *Session) StatByID(id string) (string, error) {
	return s.sendAwaitLine("STAT "+id, int(CodeArticleSelected))
}

// StatByNumber checks for an article's existence by number.
func (s *Session) StatByNumber(number int) (string, error) {
	return s.sendAwaitLine("STAT "+strconv.Itoa(number), int(CodeArticleSelected))
}

// Last moves the current-article pointer back by one and returns the
// rest-of-line from the 223 reply.
func (s *Session) Last() (string, error) { return s.sendAwaitLine("LAST", int(CodeArticleSelected)) }

// Next moves the current-article pointer forward by one and returns the
// rest-of-line from the 223 reply.
func (s *Session) Next() (string, error) { return s.sendAwaitLine("NEXT", int(CodeArticleSelected)) }

// Newgroups requests newsgroups created since the given date/time (each in
// the NNTP wire formats, e.g. "20060102" and "150405"). When gmt is true, a
// trailing " GMT" token is appended before the CRLF.
func (s *Session) Newgroups(date, time string, gmt bool) ([]string, error) {
	cmd := "NEWGROUPS " + date + " " + time
	if gmt {
		cmd += " GMT"
	}
	return s.sendAwaitPayload(cmd, int(CodeNewNewsgroupsFollow))
}

// Newnews requests articles matching wildmat created since the given
// date/time. When gmt is true, a trailing " GMT" token is appended before
// the CRLF.
func (s *Session) Newnews(wildmat, date, time string, gmt bool) ([]string, error) {
	cmd := "NEWNEWS " + wildmat + " " + date + " " + time
	if gmt {
		cmd += " GMT"
	}
	return s.sendAwaitPayload(cmd, int(CodeNewArticlesFollow))
}

// IsValidMessage reports whether m ends with the exact terminator POST
// requires: CRLF "." CRLF.
func IsValidMessage(m string) bool {
	return len(m) >= 5 && m[len(m)-5:] == crlf+"."+crlf
}

// Post sends a complete article for posting. message must already end with
// the CRLF "." CRLF terminator; if it does not, Post refuses with an
// InvalidMessageError before writing anything to the connection. Dot-
// stuffing (escaping any body line that begins with ".") is applied
// automatically.
func (s *Session) Post(message string) error {
	if !IsValidMessage(message) {
		return &InvalidMessageError{Message: message, Reason: "message must end with CRLF \".\" CRLF"}
	}
	if err := s.writeLine("POST" + crlf); err != nil {
		return err
	}
	if _, err := s.expect(int(CodeSendArticle)); err != nil {
		return err
	}
	if err := s.writeLine(stuffDots(message)); err != nil {
		return err
	}
	_, err := s.expect(int(CodeArticleReceivedOK))
	return err
}
