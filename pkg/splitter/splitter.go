// Package splitter breaks SQL source text into statement chunks on
// top-level semicolons, staying outside of single-quoted strings, the
// dialect's quoted identifiers and comments. Other string-literal flavors
// (such as $$...$$) and bracketed identifiers are not tracked.
package splitter

import (
	"strings"

	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/span"
)

// Chunk is one statement's raw text and its span in the original source.
type Chunk struct {
	Text       string
	Span       span.Span
	SourceName string
}

// Split breaks source into statement chunks for dialect d. sourceName is
// attached to every chunk (empty string if the caller has none). Unterminated
// string/comment literals produce an UNTERMINATED_LITERAL issue but never
// abort splitting: a final chunk spanning opener→EOF is still emitted.
func Split(source string, d *dialect.Dialect, sourceName string) ([]Chunk, []issue.Issue) {
	src := []byte(source)
	var chunks []Chunk
	var issues []issue.Issue

	stmtStart := -1
	lastNonWS := -1
	i := 0
	n := len(src)

	flush := func(end int) {
		if stmtStart == -1 || lastNonWS < stmtStart {
			stmtStart = -1
			return
		}
		text := strings.TrimSpace(string(src[stmtStart : lastNonWS+1]))
		if text != "" {
			chunks = append(chunks, Chunk{
				Text:       text,
				Span:       span.Span{Start: stmtStart, End: lastNonWS + 1},
				SourceName: sourceName,
			})
		}
		stmtStart = -1
	}

	markNonWS := func(pos int) {
		if stmtStart == -1 {
			stmtStart = pos
		}
		lastNonWS = pos
	}

	for i < n {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '-' && i+1 < n && src[i+1] == '-':
			for i < n && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			start := i
			i += 2
			closed := false
			for i < n {
				if i+1 < n && src[i] == '*' && src[i+1] == '/' {
					i += 2
					closed = true
					break
				}
				i++
			}
			if !closed {
				sp := span.Span{Start: start, End: n}
				issues = append(issues, issue.New(issue.CodeUnterminatedLiteral, "unterminated block comment", nil, &sp))
			}
			markNonWS(min(i, n) - 1)

		case c == '\'':
			start := i
			i++
			closed := false
			for i < n {
				if src[i] == '\'' && i+1 < n && src[i+1] == '\'' {
					i += 2
					continue
				}
				if src[i] == '\'' {
					i++
					closed = true
					break
				}
				i++
			}
			if !closed {
				sp := span.Span{Start: start, End: n}
				issues = append(issues, issue.New(issue.CodeUnterminatedLiteral, "unterminated string literal", nil, &sp))
				markNonWS(n - 1)
				flushUnterminated(&chunks, src, stmtStart, n, sourceName)
				return chunks, issues
			}
			markNonWS(i - 1)

		case d.Identifiers.Quote != "" && strings.HasPrefix(string(src[i:]), d.Identifiers.Quote):
			start := i
			i += len(d.Identifiers.Quote)
			closed := false
			end := d.Identifiers.QuoteEnd
			for i < n {
				if strings.HasPrefix(string(src[i:]), end) {
					i += len(end)
					closed = true
					break
				}
				i++
			}
			if !closed {
				sp := span.Span{Start: start, End: n}
				issues = append(issues, issue.New(issue.CodeUnterminatedLiteral, "unterminated quoted identifier", nil, &sp))
				markNonWS(n - 1)
				flushUnterminated(&chunks, src, stmtStart, n, sourceName)
				return chunks, issues
			}
			markNonWS(i - 1)

		case c == ';':
			flush(i)
			i++

		default:
			markNonWS(i)
			i++
		}
	}

	flush(n)
	return chunks, issues
}

func flushUnterminated(chunks *[]Chunk, src []byte, start, end int, sourceName string) {
	if start == -1 {
		return
	}
	text := strings.TrimSpace(string(src[start:end]))
	if text == "" {
		return
	}
	*chunks = append(*chunks, Chunk{
		Text:       text,
		Span:       span.Span{Start: start, End: end},
		SourceName: sourceName,
	})
}

