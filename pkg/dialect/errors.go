package dialect

import "errors"

// ErrUnknownDialect is returned by Lookup, wrapped with the requested name,
// when no dialect is registered under that name (the built-in dialect
// packages register postgres, snowflake, bigquery, and ansi).
// analyzer.Analyze does not return it: it records the error's text as a
// PARSE_ERROR issue and skips that request.
var ErrUnknownDialect = errors.New("dialect: unknown dialect")
