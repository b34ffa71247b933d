// Package ast defines the statement and expression tree produced by
// pkg/parser. Every node embeds NodeInfo so its exact source span survives
// into lineage extraction and diagnostics.
package ast

import (
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/span"
	"github.com/sqllineage/analyzer/pkg/token"
)

// NodeInfo is embedded by every AST node to carry its source span and any
// comments attached during lexing.
type NodeInfo struct {
	Span             span.Span
	LeadingComments  []token.Comment
	TrailingComments []token.Comment
}

// Info returns n itself, satisfying the Node interface for embedders.
func (n NodeInfo) Info() NodeInfo { return n }

// Node is implemented by every statement and expression node.
type Node interface {
	Info() NodeInfo
}

// Statement is implemented by every top-level statement node.
type Statement interface {
	Node
	statementNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// FromItem is implemented by every FROM-clause entry: a table, a derived
// subquery, or a join combining two other FromItems.
type FromItem interface {
	Node
	fromItemNode()
}

// StatementType classifies a parsed statement per the stable result shape.
type StatementType string

const (
	StatementSelect      StatementType = "SELECT"
	StatementInsert      StatementType = "INSERT"
	StatementUpdate      StatementType = "UPDATE"
	StatementDelete      StatementType = "DELETE"
	StatementCreateTable StatementType = "CREATE_TABLE"
	StatementCreateView  StatementType = "CREATE_VIEW"
	StatementWith        StatementType = "WITH"
	StatementUnion       StatementType = "UNION"
	StatementIntersect   StatementType = "INTERSECT"
	StatementExcept      StatementType = "EXCEPT"
	StatementValues      StatementType = "VALUES"
	StatementOther       StatementType = "OTHER"
)

// ---- Identifiers and names ----

// Ident is a single identifier part, possibly quoted.
type Ident struct {
	NodeInfo
	Name   string
	Quoted bool
}

func (Ident) exprNode() {}

// ObjectName is a dotted 1-, 2-, or 3-part name: [catalog.]schema.name or
// [schema.]name or name.
type ObjectName struct {
	NodeInfo
	Parts []Ident
}

// Last returns the final (bare name) part.
func (o *ObjectName) Last() string {
	if len(o.Parts) == 0 {
		return ""
	}
	return o.Parts[len(o.Parts)-1].Name
}

// String renders the dotted surface spelling.
func (o *ObjectName) String() string {
	s := ""
	for i, p := range o.Parts {
		if i > 0 {
			s += "."
		}
		s += p.Name
	}
	return s
}

// ---- Expressions ----

// ColumnRef is a (possibly qualified) column reference: c, t.c, s.t.c.
type ColumnRef struct {
	NodeInfo
	Qualifier *ObjectName // nil for a bare column
	Name      Ident
}

func (*ColumnRef) exprNode() {}

// StarExpr is `*` or `t.*`, optionally modified by EXCEPT(...)/REPLACE(...).
type StarExpr struct {
	NodeInfo
	Qualifier *ObjectName // nil for a bare *
	Except    []string
	Replace   []*AliasedExpr
}

func (*StarExpr) exprNode() {}

// LiteralKind distinguishes literal spellings for display purposes only;
// lineage treats every literal identically (a generator with no sources).
type LiteralKind string

const (
	LiteralString LiteralKind = "string"
	LiteralNumber LiteralKind = "number"
	LiteralBool   LiteralKind = "bool"
	LiteralNull   LiteralKind = "null"
)

// Literal is a constant value.
type Literal struct {
	NodeInfo
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// FuncCall is a function invocation, optionally an aggregate/window call.
type FuncCall struct {
	NodeInfo
	Name     string
	Args     []Expr
	Distinct bool
	Star     bool // COUNT(*)
	Filter   Expr // FILTER (WHERE ...)
	Over     *WindowSpec
}

func (*FuncCall) exprNode() {}

// WindowSpec is the OVER (...) clause of a window function call.
type WindowSpec struct {
	NodeInfo
	PartitionBy []Expr
	OrderBy     []OrderItem
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	NodeInfo
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	NodeInfo
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	NodeInfo
	Operand  Expr
	DataType string
}

func (*CastExpr) exprNode() {}

// CaseWhen is one WHEN ... THEN ... arm of a CASE expression.
type CaseWhen struct {
	Cond Expr
	Then Expr
}

// CaseExpr is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	NodeInfo
	Operand Expr
	Whens   []CaseWhen
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// SubqueryExpr is a scalar or EXISTS/IN subquery used inside an expression.
type SubqueryExpr struct {
	NodeInfo
	Query *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// AliasedExpr pairs an expression with an optional output alias, used in
// SELECT lists and in REPLACE(...) star modifiers.
type AliasedExpr struct {
	NodeInfo
	Expr  Expr
	Alias string
}

func (*AliasedExpr) exprNode() {}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// ---- FROM clause ----

// TableRef is a base table/view/CTE reference in a FROM clause.
type TableRef struct {
	NodeInfo
	Name  *ObjectName
	Alias string
}

func (*TableRef) fromItemNode() {}

// SubqueryRef is a derived table: (SELECT ...) AS alias.
type SubqueryRef struct {
	NodeInfo
	Query *SelectStmt
	Alias string
}

func (*SubqueryRef) fromItemNode() {}

// JoinExpr joins two FromItems.
type JoinExpr struct {
	NodeInfo
	Left     FromItem
	Right    FromItem
	Type     dialect.JoinType
	Keywords []string // the surface keyword sequence, e.g. []string{"left","join"}
	On       Expr
	Using    []string
}

func (*JoinExpr) fromItemNode() {}

// ---- CTEs ----

// CTE is one WITH binding.
type CTE struct {
	NodeInfo
	Name        string
	ColumnNames []string
	Query       *SelectStmt
	Recursive   bool
}

// WithClause is the WITH [RECURSIVE] list preceding a SELECT.
type WithClause struct {
	NodeInfo
	Recursive bool
	CTEs      []CTE
}

// Filter is a WHERE/HAVING/QUALIFY/ON predicate retained for surfacing to
// consumers, independent of whatever lineage edges it does or doesn't imply.
type Filter struct {
	Expr Expr
	Kind string // where, having, qualify, on
}

// ---- Statements ----

// SelectStmt is a SELECT, optionally a set operation (UNION/INTERSECT/EXCEPT)
// combining two SelectStmts.
type SelectStmt struct {
	NodeInfo
	With       *WithClause
	Distinct   bool
	SelectList []*AliasedExpr
	From       FromItem
	Where      Expr
	GroupBy    []Expr
	Having     Expr
	Qualify    Expr
	OrderBy    []OrderItem
	Limit      Expr
	Offset     Expr

	// SetOp, when non-empty, means this node is `Left <Op> [ALL] Right`
	// rather than a plain SELECT; SelectList/From/etc. above are unused.
	SetOp     string // "", "UNION", "INTERSECT", "EXCEPT"
	SetOpAll  bool
	Left      *SelectStmt
	Right     *SelectStmt
}

func (*SelectStmt) statementNode() {}
func (*SelectStmt) exprNode()      {} // usable as a statement or a subquery body

// IsSetOp reports whether this node represents Left <op> Right.
func (s *SelectStmt) IsSetOp() bool { return s.SetOp != "" }

// InsertStmt is INSERT INTO target [(cols)] VALUES (...) | SELECT ...
type InsertStmt struct {
	NodeInfo
	Table   *ObjectName
	Columns []string
	Query   *SelectStmt // nil if Values is set
	Values  [][]Expr    // nil if Query is set
}

func (*InsertStmt) statementNode() {}

// UpdateSetItem is one column = expr assignment in an UPDATE SET list.
type UpdateSetItem struct {
	Column string
	Value  Expr
}

// UpdateStmt is UPDATE target SET col = expr, ... [FROM ...] [WHERE ...].
type UpdateStmt struct {
	NodeInfo
	Table *ObjectName
	Alias string
	Sets  []UpdateSetItem
	From  FromItem
	Where Expr
}

func (*UpdateStmt) statementNode() {}

// DeleteStmt is DELETE FROM target [USING ...] [WHERE ...].
type DeleteStmt struct {
	NodeInfo
	Table *ObjectName
	Alias string
	Using FromItem
	Where Expr
}

func (*DeleteStmt) statementNode() {}

// ColumnDef is one column of an explicit CREATE TABLE column list.
type ColumnDef struct {
	Name     string
	DataType string
}

// CreateTableStmt is CREATE TABLE name (cols) | CREATE TABLE name AS SELECT.
type CreateTableStmt struct {
	NodeInfo
	Name     *ObjectName
	Columns  []ColumnDef
	AsSelect *SelectStmt // non-nil for CREATE TABLE ... AS SELECT
}

func (*CreateTableStmt) statementNode() {}

// CreateViewStmt is CREATE [OR REPLACE] VIEW name AS SELECT.
type CreateViewStmt struct {
	NodeInfo
	Name     *ObjectName
	Columns  []string
	Query    *SelectStmt
	Replace  bool
}

func (*CreateViewStmt) statementNode() {}

// MergeStmt is a dialect-gated MERGE INTO target USING source ON cond.
// WHEN clauses are parsed structurally but lineage only needs Target/Source/On.
type MergeStmt struct {
	NodeInfo
	Target      *ObjectName
	TargetAlias string
	Source      FromItem
	On          Expr
}

func (*MergeStmt) statementNode() {}

// CopyStmt is a dialect-gated COPY/bulk-load statement; it carries no SELECT
// body so lineage treats it as a relation reference with no source columns.
type CopyStmt struct {
	NodeInfo
	Table   *ObjectName
	Columns []string
}

func (*CopyStmt) statementNode() {}

// CreateSchemaStmt is a dialect-gated CREATE SCHEMA name.
type CreateSchemaStmt struct {
	NodeInfo
	Name *ObjectName
}

func (*CreateSchemaStmt) statementNode() {}

// OtherStmt wraps a statement the parser could only partially recognize.
type OtherStmt struct {
	NodeInfo
	Text string
}

func (*OtherStmt) statementNode() {}

// ClassifyStatement maps a parsed Statement to its StatementType.
func ClassifyStatement(s Statement) StatementType {
	switch st := s.(type) {
	case *SelectStmt:
		if st.IsSetOp() {
			switch st.SetOp {
			case "UNION":
				return StatementUnion
			case "INTERSECT":
				return StatementIntersect
			case "EXCEPT":
				return StatementExcept
			}
		}
		if st.With != nil {
			return StatementWith
		}
		return StatementSelect
	case *InsertStmt:
		return StatementInsert
	case *UpdateStmt:
		return StatementUpdate
	case *DeleteStmt:
		return StatementDelete
	case *CreateTableStmt:
		return StatementCreateTable
	case *CreateViewStmt:
		return StatementCreateView
	default:
		return StatementOther
	}
}
