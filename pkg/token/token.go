// Package token defines the lexical token types shared by the lexer and
// parser across all four supported dialects.
package token

import (
	"fmt"

	"github.com/sqllineage/analyzer/pkg/span"
)

// Type identifies the lexical class of a Token.
type Type int

const (
	EOF Type = iota
	ILLEGAL

	IDENT
	NUMBER
	STRING

	PLUS
	MINUS
	STAR
	SLASH
	MOD
	DPIPE
	EQ
	NE
	LT
	GT
	LE
	GE
	DOT
	COMMA
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COLON
	DCOLON // :: cast, Postgres/Snowflake
	SEMI

	// ANSI keywords
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CREATE
	CROSS
	CTE // WITH ... (handled via WITH keyword below; kept for symmetry)
	DELETE
	DESC
	DISTINCT
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FROM
	FULL
	GROUP
	HAVING
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	MERGE
	NATURAL
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	RECURSIVE
	REPLACE
	RIGHT
	SCHEMA
	SELECT
	SET
	TABLE
	THEN
	TRUE
	UNION
	UPDATE
	USING
	VALUES
	VIEW
	WHEN
	WHERE
	WINDOW
	WITH

	// Dialect-gated keywords
	QUALIFY  // Snowflake/BigQuery
	PIVOT    // Snowflake/BigQuery/DuckDB-derived
	ASOF     // Snowflake ASOF JOIN
	COPY     // Postgres/Snowflake/BigQuery COPY
	ILIKE    // Postgres/Snowflake
	LATERAL  // correlated subquery
	MATCHED  // MERGE ... WHEN MATCHED
	TARGET   // MERGE INTO target
)

var names = map[Type]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", MOD: "%", DPIPE: "||",
	EQ: "=", NE: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
	DOT: ".", COMMA: ",", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]", COLON: ":", DCOLON: "::", SEMI: ";",

	ALL: "ALL", AND: "AND", AS: "AS", ASC: "ASC", BETWEEN: "BETWEEN", BY: "BY",
	CASE: "CASE", CAST: "CAST", CREATE: "CREATE", CROSS: "CROSS",
	DELETE: "DELETE", DESC: "DESC", DISTINCT: "DISTINCT", ELSE: "ELSE",
	END: "END", EXCEPT: "EXCEPT", EXISTS: "EXISTS", FALSE: "FALSE",
	FROM: "FROM", FULL: "FULL", GROUP: "GROUP", HAVING: "HAVING", IN: "IN",
	INNER: "INNER", INSERT: "INSERT", INTERSECT: "INTERSECT", INTO: "INTO",
	IS: "IS", JOIN: "JOIN", LEFT: "LEFT", LIKE: "LIKE", LIMIT: "LIMIT",
	MERGE: "MERGE", NATURAL: "NATURAL", NOT: "NOT", NULL: "NULL",
	OFFSET: "OFFSET", ON: "ON", OR: "OR", ORDER: "ORDER", OUTER: "OUTER",
	OVER: "OVER", PARTITION: "PARTITION", RECURSIVE: "RECURSIVE",
	REPLACE: "REPLACE", RIGHT: "RIGHT", SCHEMA: "SCHEMA", SELECT: "SELECT",
	SET: "SET", TABLE: "TABLE", THEN: "THEN", TRUE: "TRUE", UNION: "UNION",
	UPDATE: "UPDATE", USING: "USING", VALUES: "VALUES", VIEW: "VIEW",
	WHEN: "WHEN", WHERE: "WHERE", WINDOW: "WINDOW", WITH: "WITH",

	QUALIFY: "QUALIFY", PIVOT: "PIVOT", ASOF: "ASOF", COPY: "COPY",
	ILIKE: "ILIKE", LATERAL: "LATERAL", MATCHED: "MATCHED", TARGET: "TARGET",
}

// keywords maps the lowercased spelling of each keyword the lexer produces
// to its Type; CTE and TARGET have no spelling here, so LookupIdent never
// returns them.
// Dialects gate which of these are reachable by whether their grammar
// consults them; the lexer recognizes the full set unconditionally since
// none of the spellings collide across dialects.
var keywords = map[string]Type{
	"all": ALL, "and": AND, "as": AS, "asc": ASC, "between": BETWEEN, "by": BY,
	"case": CASE, "cast": CAST, "create": CREATE, "cross": CROSS,
	"delete": DELETE, "desc": DESC, "distinct": DISTINCT, "else": ELSE,
	"end": END, "except": EXCEPT, "exists": EXISTS, "false": FALSE,
	"from": FROM, "full": FULL, "group": GROUP, "having": HAVING, "in": IN,
	"inner": INNER, "insert": INSERT, "intersect": INTERSECT, "into": INTO,
	"is": IS, "join": JOIN, "left": LEFT, "like": LIKE, "limit": LIMIT,
	"merge": MERGE, "natural": NATURAL, "not": NOT, "null": NULL,
	"offset": OFFSET, "on": ON, "or": OR, "order": ORDER, "outer": OUTER,
	"over": OVER, "partition": PARTITION, "recursive": RECURSIVE,
	"replace": REPLACE, "right": RIGHT, "schema": SCHEMA, "select": SELECT,
	"set": SET, "table": TABLE, "then": THEN, "true": TRUE, "union": UNION,
	"update": UPDATE, "using": USING, "values": VALUES, "view": VIEW,
	"when": WHEN, "where": WHERE, "window": WINDOW, "with": WITH,

	"qualify": QUALIFY, "pivot": PIVOT, "asof": ASOF, "copy": COPY,
	"ilike": ILIKE, "lateral": LATERAL, "matched": MATCHED,
}

// String returns a human-readable representation of t.
func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// LookupIdent returns the keyword Type for ident, or IDENT if it is not one.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is a lexical unit with its exact source span.
type Token struct {
	Type    Type
	Literal string
	Span    span.Span
}
