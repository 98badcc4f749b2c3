/*
File    : gosetl/eval/eval_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/gosetl/object"
	"github.com/akashmaji946/gosetl/parser"
)

// run parses src as a single statement and executes it against a fresh
// Runtime, returning its result.
func run(t *testing.T, src string) (object.Object, error) {
	t.Helper()
	stmts, err := parser.ParseAll(src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	rt := New()
	return rt.Exec(&stmts[0])
}

// runAll executes every `;`-separated statement in src against one
// Runtime and returns the last statement's result.
func runAll(t *testing.T, src string) (object.Object, *Runtime) {
	t.Helper()
	stmts, err := parser.ParseAll(src)
	require.NoError(t, err)
	require.NotEmpty(t, stmts)
	rt := New()
	var last object.Object
	for i := range stmts {
		last, err = rt.Exec(&stmts[i])
		require.NoError(t, err)
	}
	return last, rt
}

func runOK(t *testing.T, src string) object.Object {
	t.Helper()
	v, err := run(t, src)
	require.NoError(t, err)
	return v
}

func i64Of(t *testing.T, obj object.Object) int64 {
	t.Helper()
	n, ok := object.AsI64(obj)
	require.True(t, ok, "expected i64, got %s", object.String(obj))
	return n
}

func boolOf(t *testing.T, obj object.Object) bool {
	t.Helper()
	b, ok := object.AsBool(obj)
	require.True(t, ok, "expected bool, got %s", object.String(obj))
	return b
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	v := runOK(t, "1 + 2 * 3")
	assert.Equal(t, int64(7), i64Of(t, v))
}

func TestEvalStringAddErrors(t *testing.T) {
	_, err := run(t, `"a" + 1`)
	require.Error(t, err)
	var evErr *Error
	require.ErrorAs(t, err, &evErr)
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := run(t, "1 / 0")
	require.Error(t, err)
}

func TestEvalNameNotDefined(t *testing.T) {
	_, err := run(t, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined")
}

func TestEvalBoolOpShortCircuit(t *testing.T) {
	// If && evaluated the right-hand side, this would divide by zero.
	v := runOK(t, "false && (1 / 0 > 0)")
	assert.False(t, boolOf(t, v))
}

func TestEvalInMembership(t *testing.T) {
	v := runOK(t, "2 in [1, 2, 3]")
	assert.True(t, boolOf(t, v))
}

func TestEvalNotInMembership(t *testing.T) {
	v := runOK(t, "5 not in [1, 2, 3]")
	assert.True(t, boolOf(t, v))
}

func TestEvalEqualityStructuralList(t *testing.T) {
	v := runOK(t, "[1, 2] == [1, 2]")
	assert.True(t, boolOf(t, v))
}

func TestEvalEqualityCrossTypeErrors(t *testing.T) {
	_, err := run(t, `1 == "1"`)
	require.Error(t, err)
}

func TestEvalHashFieldAndCompoundAssign(t *testing.T) {
	stmts, err := parser.ParseAll(`h = {v: 1}`)
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	stmts2, err := parser.ParseAll("h.v += 4")
	require.NoError(t, err)
	v, err := rt.Exec(&stmts2[0])
	require.NoError(t, err)
	assert.Equal(t, int64(5), i64Of(t, v))
}

func TestEvalInsertIntoList(t *testing.T) {
	stmts, err := parser.ParseAll("xs = [1]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	stmts2, err := parser.ParseAll("into xs insert 2, 3")
	require.NoError(t, err)
	count, err := rt.Exec(&stmts2[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), i64Of(t, count))

	xsStmts, err := parser.ParseAll("xs")
	require.NoError(t, err)
	xs, err := rt.Exec(&xsStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(xs)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), i64Of(t, list[2]))
}

func TestEvalSelectWithFilterAndProjection(t *testing.T) {
	stmts, err := parser.ParseAll("rows = [1, 2, 3, 4]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	selStmts, err := parser.ParseAll("from r in rows where r > 2 select r * 10")
	require.NoError(t, err)
	result, err := rt.Exec(&selStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(result)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, int64(30), i64Of(t, list[0]))
	assert.Equal(t, int64(40), i64Of(t, list[1]))
}

func TestEvalSelectNoProjectionClonesRow(t *testing.T) {
	stmts, err := parser.ParseAll("rows = [1, 2, 3]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	selStmts, err := parser.ParseAll("from r in rows")
	require.NoError(t, err)
	result, err := rt.Exec(&selStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(result)
	require.True(t, ok)
	require.Len(t, list, 3)
}

func TestEvalJoinSelectProjectsInChildFrame(t *testing.T) {
	stmts, err := parser.ParseAll("xs = [1, 2]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)
	stmts2, err := parser.ParseAll("ys = [10, 20]")
	require.NoError(t, err)
	_, err = rt.Exec(&stmts2[0])
	require.NoError(t, err)

	selStmts, err := parser.ParseAll("from x in xs join y in ys on y == x * 10 select x + y")
	require.NoError(t, err)
	result, err := rt.Exec(&selStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(result)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, int64(11), i64Of(t, list[0]))
	assert.Equal(t, int64(22), i64Of(t, list[1]))
}

func TestEvalUpdateWithFilterMutatesRows(t *testing.T) {
	stmts, err := parser.ParseAll("rows = [1, 2, 3, 4]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	updStmts, err := parser.ParseAll("from r in rows where r > 2 update r = r * 100")
	require.NoError(t, err)
	count, err := rt.Exec(&updStmts[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), i64Of(t, count))

	rowsStmts, err := parser.ParseAll("rows")
	require.NoError(t, err)
	rows, err := rt.Exec(&rowsStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(rows)
	require.True(t, ok)
	assert.Equal(t, int64(1), i64Of(t, list[0]))
	assert.Equal(t, int64(2), i64Of(t, list[1]))
	assert.Equal(t, int64(300), i64Of(t, list[2]))
	assert.Equal(t, int64(400), i64Of(t, list[3]))
}

func TestEvalDeleteWithFilterRebuildsSource(t *testing.T) {
	stmts, err := parser.ParseAll("rows = [1, 2, 3, 4]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)

	delStmts, err := parser.ParseAll("from r in rows where r > 2 delete r")
	require.NoError(t, err)
	count, err := rt.Exec(&delStmts[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), i64Of(t, count))

	rowsStmts, err := parser.ParseAll("rows")
	require.NoError(t, err)
	rows, err := rt.Exec(&rowsStmts[0])
	require.NoError(t, err)
	list, ok := object.AsList(rows)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), i64Of(t, list[0]))
	assert.Equal(t, int64(2), i64Of(t, list[1]))
}

func TestEvalDeleteWithJoinRebuildsSourcesIndependently(t *testing.T) {
	stmts, err := parser.ParseAll("xs = [1, 2]")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.NoError(t, err)
	stmts2, err := parser.ParseAll("ys = [10, 20]")
	require.NoError(t, err)
	_, err = rt.Exec(&stmts2[0])
	require.NoError(t, err)

	delStmts, err := parser.ParseAll("from x in xs join y in ys on y == x * 10 where x == 1 delete x, y")
	require.NoError(t, err)
	count, err := rt.Exec(&delStmts[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), i64Of(t, count))

	xsStmts, err := parser.ParseAll("xs")
	require.NoError(t, err)
	xs, err := rt.Exec(&xsStmts[0])
	require.NoError(t, err)
	xsList, _ := object.AsList(xs)
	require.Len(t, xsList, 1)
	assert.Equal(t, int64(2), i64Of(t, xsList[0]))

	ysStmts, err := parser.ParseAll("ys")
	require.NoError(t, err)
	ys, err := rt.Exec(&ysStmts[0])
	require.NoError(t, err)
	ysList, _ := object.AsList(ys)
	require.Len(t, ysList, 1)
	assert.Equal(t, int64(20), i64Of(t, ysList[0]))
}

func TestEvalImportUnknownModuleErrors(t *testing.T) {
	stmts, err := parser.ParseAll("import nope")
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined")
}

func TestEvalImportJsonBindsModule(t *testing.T) {
	stmts, err := parser.ParseAll("import json")
	require.NoError(t, err)
	rt := New()
	result, err := rt.Exec(&stmts[0])
	require.NoError(t, err)
	assert.Nil(t, result)

	_, ok := rt.Global.Lookup("json")
	require.True(t, ok)
}

func TestEvalStatementSequenceHashCompoundAssign(t *testing.T) {
	v, _ := runAll(t, `a = {name: "x", v: 1}; a.v += 4; a.v`)
	assert.Equal(t, int64(5), i64Of(t, v))
}

func TestEvalStatementSequenceSelect(t *testing.T) {
	v, _ := runAll(t, "xs = [3, 1, 2]; from x in xs where x > 1 select x")
	assert.Equal(t, "[3, 2]", object.String(v))
}

func TestEvalUpdateScenarioRendersMutatedRows(t *testing.T) {
	count, rt := runAll(t, "rows = [{k: 1}, {k: 2}, {k: 3}]; from r in rows where r.k != 2 update r.k = r.k * 10")
	assert.Equal(t, int64(2), i64Of(t, count))

	rows, ok := rt.Global.Lookup("rows")
	require.True(t, ok)
	assert.Equal(t, "[{k: 10}, {k: 2}, {k: 30}]", object.String(rows))
}

func TestEvalErrorAttachesOperatorSpan(t *testing.T) {
	// The type error must be blamed on the '+' operator, not the whole
	// expression or the left operand.
	src := `1 + "x"`
	stmts, err := parser.ParseAll(src)
	require.NoError(t, err)
	rt := New()
	_, err = rt.Exec(&stmts[0])
	require.Error(t, err)
	var evErr *Error
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, 2, evErr.Span.Start)
	assert.Equal(t, 3, evErr.Span.End)
}
