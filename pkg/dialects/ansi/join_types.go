package ansi

import "github.com/sqllineage/analyzer/pkg/dialect"

// JoinTypes returns the SQL-standard join vocabulary shared by every
// dialect; Postgres/Snowflake/BigQuery extend this list rather than
// replacing it.
func JoinTypes() []dialect.JoinTypeDef {
	return []dialect.JoinTypeDef{
		{Keywords: []string{"join"}, Type: dialect.JoinInner},
		{Keywords: []string{"inner", "join"}, Type: dialect.JoinInner},
		{Keywords: []string{"left", "join"}, Type: dialect.JoinLeft},
		{Keywords: []string{"left", "outer", "join"}, Type: dialect.JoinLeft},
		{Keywords: []string{"right", "join"}, Type: dialect.JoinRight},
		{Keywords: []string{"right", "outer", "join"}, Type: dialect.JoinRight},
		{Keywords: []string{"full", "join"}, Type: dialect.JoinFull},
		{Keywords: []string{"full", "outer", "join"}, Type: dialect.JoinFull},
		{Keywords: []string{"cross", "join"}, Type: dialect.JoinCross},
	}
}
