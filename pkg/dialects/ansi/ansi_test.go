package ansi

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, "ansi", d.Name)
	assert.Equal(t, dialect.NormLowercase, d.CaseFolding)
	assert.True(t, d.IsAggregate("SUM"))
	assert.True(t, d.IsWindow("row_number"))
	assert.True(t, d.IsReservedWord("select"))
	assert.False(t, d.IsReservedWord("orders"))
	assert.Equal(t, `"orders"`, d.QuoteIdentifier("orders"))
}

func TestRegistersItself(t *testing.T) {
	got, err := dialect.Lookup("ansi")
	assert.NoError(t, err)
	assert.Equal(t, "ansi", got.Name)
}
