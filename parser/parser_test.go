/*
File    : gosetl/parser/parser_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/gosetl/ast"
)

func parseOneExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	stmts, err := ParseAll(src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	exprStmt, ok := stmts[0].Kind.(ast.ExprStmt)
	require.True(t, ok)
	return exprStmt.Expr
}

func TestParsePrecedenceAddMul(t *testing.T) {
	expr := parseOneExpr(t, "a + b * c")
	bin, ok := expr.Kind.(ast.BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, bin.Op.Kind)
	rhs, ok := bin.RHS.Kind.(ast.BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinMul, rhs.Op.Kind)
}

func TestParsePrecedenceOrAnd(t *testing.T) {
	expr := parseOneExpr(t, "a || b && c")
	top, ok := expr.Kind.(ast.BoolOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BoolOr, top.Op.Kind)
	rhs, ok := top.RHS.Kind.(ast.BoolOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BoolAnd, rhs.Op.Kind)
}

func TestParseRelLeftAssociative(t *testing.T) {
	expr := parseOneExpr(t, "a == b == c")
	top, ok := expr.Kind.(ast.RelOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.RelEq, top.Op.Kind)
	lhs, ok := top.LHS.Kind.(ast.RelOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.RelEq, lhs.Op.Kind)
}

func TestParseNotIn(t *testing.T) {
	expr := parseOneExpr(t, "5 not in [1,2,3]")
	rel, ok := expr.Kind.(ast.RelOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.RelNotIn, rel.Op.Kind)
}

func TestParseSelectWithFilterAndProject(t *testing.T) {
	expr := parseOneExpr(t, "from x in xs where x > 0 select x + 1")
	sel, ok := expr.Kind.(ast.Select)
	require.True(t, ok)
	assert.Equal(t, "x", sel.From.Bind)
	assert.NotNil(t, sel.From.Filter.Kind)
	assert.NotNil(t, sel.Project.Kind)
}

func TestParseSelectNoProjection(t *testing.T) {
	expr := parseOneExpr(t, "from x in xs")
	sel, ok := expr.Kind.(ast.Select)
	require.True(t, ok)
	assert.Nil(t, sel.Project.Kind)
}

func TestParseJoinSelect(t *testing.T) {
	expr := parseOneExpr(t, "from x in xs join y in ys on x == y select x")
	sel, ok := expr.Kind.(ast.Select)
	require.True(t, ok)
	require.NotNil(t, sel.From.Join)
	assert.Equal(t, "y", sel.From.Join.Bind)
	assert.NotNil(t, sel.From.Join.Filter.Kind)
}

func TestParseUpdate(t *testing.T) {
	expr := parseOneExpr(t, "from r in rows where r.k != 2 update r.k = r.k * 10")
	upd, ok := expr.Kind.(ast.Update)
	require.True(t, ok)
	require.Len(t, upd.Updates, 1)
	_, ok = upd.Updates[0].Kind.(ast.Assign)
	assert.True(t, ok)
}

func TestParseDelete(t *testing.T) {
	expr := parseOneExpr(t, "from r in rows delete r")
	del, ok := expr.Kind.(ast.Delete)
	require.True(t, ok)
	require.Len(t, del.Deletes, 1)
}

func TestParseDeleteUnboundNameErrors(t *testing.T) {
	_, err := ParseAll("from r in rows delete q")
	require.Error(t, err)
}

func TestParseDeleteDuplicateErrors(t *testing.T) {
	_, err := ParseAll("from r in rows delete r, r")
	require.Error(t, err)
}

func TestParseInsert(t *testing.T) {
	expr := parseOneExpr(t, "into xs insert 1, 2, 3")
	ins, ok := expr.Kind.(ast.Insert)
	require.True(t, ok)
	assert.Len(t, ins.Values, 3)
}

func TestParseCompoundAssignIsSingleNode(t *testing.T) {
	expr := parseOneExpr(t, "a.v += 4")
	comp, ok := expr.Kind.(ast.CompoundAssign)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, comp.Op.Kind)
}

func TestParseHashLiteral(t *testing.T) {
	expr := parseOneExpr(t, `{name: "x", v: 1}`)
	hash, ok := expr.Kind.(ast.Hash)
	require.True(t, ok)
	require.Len(t, hash.Fields, 2)
	assert.Equal(t, "name", hash.Fields[0].Name)
}

func TestParseFieldAccessStringName(t *testing.T) {
	expr := parseOneExpr(t, `a."odd name"`)
	field, ok := expr.Kind.(ast.Field)
	require.True(t, ok)
	assert.Equal(t, "odd name", field.Name)
}

func TestParseReservedWordAsAtomErrors(t *testing.T) {
	_, err := ParseAll("where")
	require.Error(t, err)
}

func TestParseSpanCoversWholeExpr(t *testing.T) {
	src := "1 + 2 * 3"
	expr := parseOneExpr(t, src)
	assert.Equal(t, 0, expr.Span.Start)
	assert.Equal(t, len(src), expr.Span.End)
}

func TestParseImportStatement(t *testing.T) {
	stmts, err := ParseAll("import json")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	imp, ok := stmts[0].Kind.(ast.ImportStmt)
	require.True(t, ok)
	assert.Equal(t, "json", imp.Name)
}

func TestParseChainedAssignmentRightAssociative(t *testing.T) {
	expr := parseOneExpr(t, "a = b = 5")
	top, ok := expr.Kind.(ast.Assign)
	require.True(t, ok)
	_, ok = top.RHS.Kind.(ast.Assign)
	assert.True(t, ok)
}

func TestParseCallAndIndexPostfix(t *testing.T) {
	expr := parseOneExpr(t, "f(1, 2)[0]")
	idx, ok := expr.Kind.(ast.Index)
	require.True(t, ok)
	call, ok := idx.Recv.Kind.(ast.Call)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseLimitClauseRejected(t *testing.T) {
	_, err := ParseAll("from x in xs limit 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown clause 'limit'")
}

func TestParseSemicolonSeparatedStatements(t *testing.T) {
	stmts, err := ParseAll("a = 1; a.v += 4; a")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
}

func TestParseTrailingSemicolon(t *testing.T) {
	stmts, err := ParseAll("1 + 2;")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
}

func TestParseIncompleteInput(t *testing.T) {
	_, err := ParseAll("1 +")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, Incomplete, perr.Kind)
}
