package token

import "github.com/sqllineage/analyzer/pkg/span"

// CommentKind distinguishes line vs block comments.
type CommentKind int

const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
)

// Comment is a SQL comment retained for leading/trailing attachment on AST nodes.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (-- or /* */)
	Span span.Span
}

func (c *Comment) IsLineComment() bool  { return c.Kind == LineComment }
func (c *Comment) IsBlockComment() bool { return c.Kind == BlockComment }
