package nntp

import "strings"

// Article is a news message: single-valued headers (duplicates overwrite,
// insertion order is not preserved) plus an ordered body. Body lines retain
// their trailing CRLF exactly as received — downstream consumers must not
// assume it is stripped.
type Article struct {
	Headers map[string]string
	Body    []string
}

// NewArticle splits a list of raw lines (each CRLF-terminated, as returned
// by a multi-line read) into an Article by finding the first blank line
// ("\r\n"). Lines before it are headers, split on the first colon into
// name/value with surrounding whitespace (including the trailing CR/LF)
// trimmed from both; everything after it is
// body, retained verbatim.
func NewArticle(lines []string) *Article {
	headers := make(map[string]string)
	var body []string
	parsingHeaders := true

	for _, line := range lines {
		if parsingHeaders && line == crlf {
			parsingHeaders = false
			continue
		}
		if !parsingHeaders {
			body = append(body, line)
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[trimCRLF(name)] = trimCRLF(value)
	}

	return &Article{Headers: headers, Body: body}
}

func trimCRLF(s string) string {
	return strings.TrimSpace(s)
}
