package snowflake

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, "snowflake", d.Name)
	assert.Equal(t, dialect.NormUppercase, d.CaseFolding)
	assert.True(t, d.SupportsQualify)
	assert.True(t, d.SupportsStarModifiers)
	assert.True(t, d.IsAggregate("listagg"))
}

func TestJoinKeywordType_SemiAndAsOf(t *testing.T) {
	d := New()
	assert.Equal(t, dialect.JoinLeftSemi, d.JoinKeywordType([]string{"left", "semi", "join"}))
	assert.Equal(t, dialect.JoinAsOf, d.JoinKeywordType([]string{"asof", "join"}))
}

func TestRegistersItself(t *testing.T) {
	got, err := dialect.Lookup("snowflake")
	assert.NoError(t, err)
	assert.Equal(t, "snowflake", got.Name)
}
