package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName_LastAndString(t *testing.T) {
	name := &ObjectName{Parts: []Ident{{Name: "public"}, {Name: "orders"}}}
	assert.Equal(t, "orders", name.Last())
	assert.Equal(t, "public.orders", name.String())
}

func TestObjectName_Empty(t *testing.T) {
	name := &ObjectName{}
	assert.Equal(t, "", name.Last())
	assert.Equal(t, "", name.String())
}

func TestClassifyStatement(t *testing.T) {
	assert.Equal(t, StatementSelect, ClassifyStatement(&SelectStmt{}))
	assert.Equal(t, StatementWith, ClassifyStatement(&SelectStmt{With: &WithClause{}}))
	assert.Equal(t, StatementUnion, ClassifyStatement(&SelectStmt{SetOp: "UNION", Left: &SelectStmt{}, Right: &SelectStmt{}}))
	assert.Equal(t, StatementInsert, ClassifyStatement(&InsertStmt{}))
	assert.Equal(t, StatementUpdate, ClassifyStatement(&UpdateStmt{}))
	assert.Equal(t, StatementDelete, ClassifyStatement(&DeleteStmt{}))
	assert.Equal(t, StatementCreateTable, ClassifyStatement(&CreateTableStmt{}))
	assert.Equal(t, StatementCreateView, ClassifyStatement(&CreateViewStmt{}))
	assert.Equal(t, StatementOther, ClassifyStatement(&OtherStmt{}))
}
