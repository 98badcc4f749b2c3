/*
File    : gosetl/eval/eval.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package eval implements the tree-walking evaluator: it executes parsed
// statements against a scope.Scope environment, using the object package
// for every value and dispatch.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akashmaji946/gosetl/ast"
	"github.com/akashmaji946/gosetl/modules/json"
	"github.com/akashmaji946/gosetl/modules/yaml"
	"github.com/akashmaji946/gosetl/object"
	"github.com/akashmaji946/gosetl/scope"
)

// Runtime holds the session's global scope and its registry of built-in
// modules, reachable only through `import`.
type Runtime struct {
	Global  *scope.Scope
	modules map[string]object.Object
}

// New builds a Runtime with a fresh global scope and the standard
// built-in modules registered (but not yet imported into any scope).
func New() *Runtime {
	return &Runtime{
		Global: scope.New(),
		modules: map[string]object.Object{
			"json": json.Module(),
			"yaml": yaml.Module(),
		},
	}
}

// Exec runs one top-level statement. An ExprStmt yields its value; an
// ImportStmt yields nil (there is nothing to print) and instead binds
// the module's name into the global scope.
func (rt *Runtime) Exec(stmt *ast.Stmt) (object.Object, error) {
	switch k := stmt.Kind.(type) {
	case ast.ExprStmt:
		return rt.Eval(rt.Global, k.Expr)
	case ast.ImportStmt:
		mod, ok := rt.modules[k.Name]
		if !ok {
			return nil, &Error{Span: stmt.Span, Message: fmt.Sprintf("module '%s' is not defined", k.Name)}
		}
		rt.Global.Define(k.Name, mod)
		return nil, nil
	default:
		return nil, &Error{Span: stmt.Span, Message: fmt.Sprintf("unhandled statement kind %T", stmt.Kind)}
	}
}

// Eval evaluates expr in env, attaching expr's span to any error that
// doesn't already carry one of its own.
func (rt *Runtime) Eval(env *scope.Scope, expr ast.Expr) (object.Object, error) {
	v, err := rt.evalKind(env, expr)
	if err != nil {
		return nil, attachSpan(expr.Span, err)
	}
	return v, nil
}

func (rt *Runtime) evalKind(env *scope.Scope, expr ast.Expr) (object.Object, error) {
	switch k := expr.Kind.(type) {
	case ast.LitNull, ast.LitBool, ast.LitStr, ast.LitInt, ast.LitFloat:
		return evalLit(k)
	case ast.Name:
		return rt.evalName(env, k)
	case ast.List:
		return rt.evalList(env, k)
	case ast.Hash:
		return rt.evalHash(env, k)
	case ast.Call:
		return rt.evalCall(env, k)
	case ast.Index:
		return rt.evalIndex(env, k)
	case ast.Field:
		return rt.evalField(env, k)
	case ast.UnOpExpr:
		return rt.evalUnOp(env, k)
	case ast.BinOpExpr:
		return rt.evalBinOp(env, k)
	case ast.RelOpExpr:
		return rt.evalRelOp(env, k)
	case ast.BoolOpExpr:
		return rt.evalBoolOp(env, k)
	case ast.Assign:
		return rt.evalAssign(env, k)
	case ast.CompoundAssign:
		return rt.evalCompoundAssign(env, k)
	case ast.Insert:
		return rt.evalInsert(env, k)
	case ast.Update:
		return rt.evalUpdate(env, k)
	case ast.Delete:
		return rt.evalDelete(env, k)
	case ast.Select:
		return rt.evalSelect(env, k)
	default:
		return nil, fmt.Errorf("unhandled expression kind %T", expr.Kind)
	}
}

func evalLit(kind ast.ExprKind) (object.Object, error) {
	switch lit := kind.(type) {
	case ast.LitNull:
		return object.Null, nil
	case ast.LitBool:
		return object.MakeBool(lit.Value), nil
	case ast.LitStr:
		return object.MakeStr(lit.Value), nil
	case ast.LitInt:
		digits := strings.ReplaceAll(lit.Digits, "_", "")
		v, err := strconv.ParseInt(digits, int(lit.Radix), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal '%s': %w", lit.Digits, err)
		}
		return object.MakeI64(v), nil
	case ast.LitFloat:
		digits := strings.ReplaceAll(lit.Digits, "_", "")
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal '%s': %w", lit.Digits, err)
		}
		return object.MakeF64(v), nil
	default:
		return nil, fmt.Errorf("unhandled literal kind %T", kind)
	}
}

func (rt *Runtime) evalName(env *scope.Scope, k ast.Name) (object.Object, error) {
	v, ok := env.Lookup(k.Ident)
	if !ok {
		return nil, fmt.Errorf("name '%s' is not defined", k.Ident)
	}
	return v, nil
}

func (rt *Runtime) evalList(env *scope.Scope, k ast.List) (object.Object, error) {
	elems := make([]object.Object, 0, len(k.Elems))
	for _, e := range k.Elems {
		v, err := rt.Eval(env, e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return object.MakeList(elems), nil
}

func (rt *Runtime) evalHash(env *scope.Scope, k ast.Hash) (object.Object, error) {
	fields := make([]object.HashField, 0, len(k.Fields))
	for _, f := range k.Fields {
		v, err := rt.Eval(env, f.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, object.HashField{Name: f.Name, Value: v})
	}
	return object.MakeHash(fields), nil
}

func (rt *Runtime) evalCall(env *scope.Scope, k ast.Call) (object.Object, error) {
	callee, err := rt.Eval(env, k.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]object.Object, 0, len(k.Args))
	for _, a := range k.Args {
		v, err := rt.Eval(env, a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return object.Call(callee, args)
}

func (rt *Runtime) evalIndex(env *scope.Scope, k ast.Index) (object.Object, error) {
	recv, err := rt.Eval(env, k.Recv)
	if err != nil {
		return nil, err
	}
	key, err := rt.Eval(env, k.Key)
	if err != nil {
		return nil, err
	}
	return object.Index(recv, key)
}

func (rt *Runtime) evalField(env *scope.Scope, k ast.Field) (object.Object, error) {
	recv, err := rt.Eval(env, k.Recv)
	if err != nil {
		return nil, err
	}
	return object.Field(recv, k.Name)
}

func (rt *Runtime) evalUnOp(env *scope.Scope, k ast.UnOpExpr) (object.Object, error) {
	v, err := rt.Eval(env, k.Operand)
	if err != nil {
		return nil, err
	}
	var result object.Object
	switch k.Op.Kind {
	case ast.UnNot:
		result, err = object.UnNot(v)
	case ast.UnNeg:
		result, err = object.Neg(v)
	default:
		return nil, fmt.Errorf("unhandled unary operator %v", k.Op.Kind)
	}
	if err != nil {
		return nil, &Error{Span: k.Op.Span, Message: err.Error()}
	}
	return result, nil
}

func (rt *Runtime) evalBinOp(env *scope.Scope, k ast.BinOpExpr) (object.Object, error) {
	lhs, err := rt.Eval(env, k.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := rt.Eval(env, k.RHS)
	if err != nil {
		return nil, err
	}
	v, err := applyBinOp(k.Op.Kind, lhs, rhs)
	if err != nil {
		return nil, &Error{Span: k.Op.Span, Message: err.Error()}
	}
	return v, nil
}

func applyBinOp(op ast.BinOp, lhs, rhs object.Object) (object.Object, error) {
	switch op {
	case ast.BinOr:
		return object.Or(lhs, rhs)
	case ast.BinXor:
		return object.Xor(lhs, rhs)
	case ast.BinAnd:
		return object.And(lhs, rhs)
	case ast.BinShl:
		return object.Shl(lhs, rhs)
	case ast.BinShr:
		return object.Shr(lhs, rhs)
	case ast.BinAdd:
		return object.Add(lhs, rhs)
	case ast.BinSub:
		return object.Sub(lhs, rhs)
	case ast.BinMul:
		return object.Mul(lhs, rhs)
	case ast.BinDiv:
		return object.Div(lhs, rhs)
	case ast.BinRem:
		return object.Rem(lhs, rhs)
	default:
		return nil, fmt.Errorf("unhandled binary operator %v", op)
	}
}

// compareEq implements RelOp::Eq/Ne: scalar types compare via Compare;
// list and hash (which register no Compare slot) fall back to the
// recursive structural equality object.Equals already provides for
// membership testing. Any other combination that Compare can't order is
// a genuine error, per the language's "cross-type comparison is an
// error" rule.
func compareEq(lhs, rhs object.Object) (bool, error) {
	if ord, ok := object.Compare(lhs, rhs); ok {
		return ord == object.Equal, nil
	}
	if lhs.Typ == object.ListType && rhs.Typ == object.ListType {
		return object.Equals(lhs, rhs), nil
	}
	if lhs.Typ == object.HashType && rhs.Typ == object.HashType {
		return object.Equals(lhs, rhs), nil
	}
	return false, fmt.Errorf("'%s' and '%s' are not comparable", object.TypeName(lhs), object.TypeName(rhs))
}

func (rt *Runtime) evalRelOp(env *scope.Scope, k ast.RelOpExpr) (object.Object, error) {
	lhs, err := rt.Eval(env, k.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := rt.Eval(env, k.RHS)
	if err != nil {
		return nil, err
	}

	switch k.Op.Kind {
	case ast.RelEq, ast.RelNe:
		eq, err := compareEq(lhs, rhs)
		if err != nil {
			return nil, &Error{Span: k.Op.Span, Message: err.Error()}
		}
		if k.Op.Kind == ast.RelNe {
			eq = !eq
		}
		return object.MakeBool(eq), nil

	case ast.RelLt, ast.RelLe, ast.RelGt, ast.RelGe:
		ord, ok := object.Compare(lhs, rhs)
		if !ok {
			return nil, &Error{Span: k.Op.Span, Message: fmt.Sprintf("'%s' and '%s' are not comparable", object.TypeName(lhs), object.TypeName(rhs))}
		}
		var result bool
		switch k.Op.Kind {
		case ast.RelLt:
			result = ord == object.Less
		case ast.RelLe:
			result = ord != object.Greater
		case ast.RelGt:
			result = ord == object.Greater
		case ast.RelGe:
			result = ord != object.Less
		}
		return object.MakeBool(result), nil

	case ast.RelIn, ast.RelNotIn:
		contains, err := object.Contains(rhs, lhs)
		if err != nil {
			return nil, &Error{Span: k.Op.Span, Message: err.Error()}
		}
		if k.Op.Kind == ast.RelNotIn {
			contains = !contains
		}
		return object.MakeBool(contains), nil

	default:
		return nil, fmt.Errorf("unhandled relational operator %v", k.Op.Kind)
	}
}

func (rt *Runtime) evalBoolOp(env *scope.Scope, k ast.BoolOpExpr) (object.Object, error) {
	lhsObj, err := rt.Eval(env, k.LHS)
	if err != nil {
		return nil, err
	}
	lhsBool, ok := object.AsBool(lhsObj)
	if !ok {
		return nil, &Error{Span: k.LHS.Span, Message: fmt.Sprintf("left-hand side must be 'bool', not '%s'", object.TypeName(lhsObj))}
	}

	shortCircuit := (k.Op.Kind == ast.BoolOr && lhsBool) || (k.Op.Kind == ast.BoolAnd && !lhsBool)
	if shortCircuit {
		return lhsObj, nil
	}

	rhsObj, err := rt.Eval(env, k.RHS)
	if err != nil {
		return nil, err
	}
	if _, ok := object.AsBool(rhsObj); !ok {
		return nil, &Error{Span: k.RHS.Span, Message: fmt.Sprintf("right-hand side must be 'bool', not '%s'", object.TypeName(rhsObj))}
	}
	return rhsObj, nil
}

func (rt *Runtime) evalAssign(env *scope.Scope, k ast.Assign) (object.Object, error) {
	value, err := rt.Eval(env, k.RHS)
	if err != nil {
		return nil, err
	}
	if err := rt.store(env, k.LHS, value); err != nil {
		return nil, err
	}
	return value, nil
}

// store writes value into the lvalue described by target, which must be
// a Name, Index, or Field expression.
func (rt *Runtime) store(env *scope.Scope, target ast.Expr, value object.Object) error {
	switch lhs := target.Kind.(type) {
	case ast.Name:
		env.Define(lhs.Ident, value)
		return nil
	case ast.Index:
		recv, err := rt.Eval(env, lhs.Recv)
		if err != nil {
			return err
		}
		key, err := rt.Eval(env, lhs.Key)
		if err != nil {
			return err
		}
		return object.SetIndex(recv, key, value)
	case ast.Field:
		recv, err := rt.Eval(env, lhs.Recv)
		if err != nil {
			return err
		}
		return object.SetField(recv, lhs.Name, value)
	default:
		return &Error{Span: target.Span, Message: "invalid assignment target"}
	}
}

// load reads the current value of the lvalue described by target.
func (rt *Runtime) load(env *scope.Scope, target ast.Expr) (object.Object, error) {
	switch lhs := target.Kind.(type) {
	case ast.Name:
		v, ok := env.Lookup(lhs.Ident)
		if !ok {
			return nil, fmt.Errorf("name '%s' is not defined", lhs.Ident)
		}
		return v, nil
	case ast.Index:
		recv, err := rt.Eval(env, lhs.Recv)
		if err != nil {
			return nil, err
		}
		key, err := rt.Eval(env, lhs.Key)
		if err != nil {
			return nil, err
		}
		return object.Index(recv, key)
	case ast.Field:
		recv, err := rt.Eval(env, lhs.Recv)
		if err != nil {
			return nil, err
		}
		return object.Field(recv, lhs.Name)
	default:
		return nil, &Error{Span: target.Span, Message: "invalid assignment target"}
	}
}

func (rt *Runtime) evalCompoundAssign(env *scope.Scope, k ast.CompoundAssign) (object.Object, error) {
	rhsVal, err := rt.Eval(env, k.RHS)
	if err != nil {
		return nil, err
	}
	old, err := rt.load(env, k.LHS)
	if err != nil {
		return nil, err
	}
	nv, err := applyBinOp(k.Op.Kind, old, rhsVal)
	if err != nil {
		return nil, &Error{Span: k.Op.Span, Message: err.Error()}
	}
	if err := rt.store(env, k.LHS, nv); err != nil {
		return nil, err
	}
	return nv, nil
}

// evalFilter evaluates a where/on filter expression and requires it to
// be a bool.
func (rt *Runtime) evalFilter(env *scope.Scope, filter ast.Expr) (bool, error) {
	v, err := rt.Eval(env, filter)
	if err != nil {
		return false, err
	}
	b, ok := object.AsBool(v)
	if !ok {
		return false, &Error{Span: filter.Span, Message: fmt.Sprintf("filter must evaluate to 'bool', not '%s'", object.TypeName(v))}
	}
	return b, nil
}

func (rt *Runtime) evalInsert(env *scope.Scope, k ast.Insert) (object.Object, error) {
	container, err := rt.Eval(env, k.Into)
	if err != nil {
		return nil, err
	}
	for _, valExpr := range k.Values {
		v, err := rt.Eval(env, valExpr)
		if err != nil {
			return nil, err
		}
		if err := object.Insert(container, v); err != nil {
			return nil, err
		}
	}
	return object.MakeI64(int64(len(k.Values))), nil
}

// evalSelect walks the From clause (and its optional Join) binding each
// row into a fresh child scope, filters, and projects — building a new
// list. Joined rows see both bound names in the same child frame;
// filters run join-filter-first, then from-filter, matching the nesting
// order they appear in source.
func (rt *Runtime) evalSelect(env *scope.Scope, k ast.Select) (object.Object, error) {
	from := k.From
	source, err := rt.Eval(env, from.Source)
	if err != nil {
		return nil, err
	}
	it, err := object.Iter(source)
	if err != nil {
		return nil, err
	}

	var output []object.Object

	if from.Join == nil {
		for i := 0; i < it.Len; i++ {
			item := it.Get(i)
			child := env.Child()
			child.Define(from.Bind, item)
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}
			row := item
			if hasExpr(k.Project) {
				row, err = rt.Eval(child, k.Project)
				if err != nil {
					return nil, err
				}
			}
			output = append(output, row)
		}
		return object.MakeList(output), nil
	}

	join := from.Join
	joinSource, err := rt.Eval(env, join.Source)
	if err != nil {
		return nil, err
	}
	joinIt, err := object.Iter(joinSource)
	if err != nil {
		return nil, err
	}

	for i := 0; i < it.Len; i++ {
		item := it.Get(i)
		for j := 0; j < joinIt.Len; j++ {
			joinItem := joinIt.Get(j)
			child := env.Child()
			child.Define(from.Bind, item)
			child.Define(join.Bind, joinItem)

			if hasExpr(join.Filter) {
				pass, err := rt.evalFilter(child, join.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}

			var row object.Object
			if hasExpr(k.Project) {
				row, err = rt.Eval(child, k.Project)
				if err != nil {
					return nil, err
				}
			} else {
				row = object.MakeHash([]object.HashField{
					{Name: from.Bind, Value: item},
					{Name: join.Bind, Value: joinItem},
				})
			}
			output = append(output, row)
		}
	}
	return object.MakeList(output), nil
}

// hasExpr reports whether an optional AST field is present: the parser
// leaves Expr{} (Kind == nil) in place of absent where/on/select
// clauses.
func hasExpr(e ast.Expr) bool {
	return e.Kind != nil
}

// evalUpdate mutably walks the From clause, applying every update
// expression in a child frame seeded with the current row, then writes
// the (possibly rebound) row names back into their source slots.
func (rt *Runtime) evalUpdate(env *scope.Scope, k ast.Update) (object.Object, error) {
	from := k.From
	source, err := rt.Eval(env, from.Source)
	if err != nil {
		return nil, err
	}
	it, err := object.IterMut(source)
	if err != nil {
		return nil, err
	}

	count := int64(0)

	if from.Join == nil {
		for i := 0; i < it.Len; i++ {
			item := it.Get(i)
			child := env.Child()
			child.Define(from.Bind, item)
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}
			for _, u := range k.Updates {
				if _, err := rt.Eval(child, u); err != nil {
					return nil, err
				}
			}
			newVal, _ := child.Lookup(from.Bind)
			if err := it.Set(i, newVal); err != nil {
				return nil, err
			}
			count++
		}
		return object.MakeI64(count), nil
	}

	join := from.Join
	joinSource, err := rt.Eval(env, join.Source)
	if err != nil {
		return nil, err
	}
	joinIt, err := object.IterMut(joinSource)
	if err != nil {
		return nil, err
	}

	for i := 0; i < it.Len; i++ {
		fromItem := it.Get(i)
		for j := 0; j < joinIt.Len; j++ {
			joinItem := joinIt.Get(j)
			child := env.Child()
			child.Define(from.Bind, fromItem)
			child.Define(join.Bind, joinItem)

			if hasExpr(join.Filter) {
				pass, err := rt.evalFilter(child, join.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}

			for _, u := range k.Updates {
				if _, err := rt.Eval(child, u); err != nil {
					return nil, err
				}
			}

			newFrom, _ := child.Lookup(from.Bind)
			newJoin, _ := child.Lookup(join.Bind)
			if err := it.Set(i, newFrom); err != nil {
				return nil, err
			}
			if err := joinIt.Set(j, newJoin); err != nil {
				return nil, err
			}
			// Subsequent join rows for this same from-row must see the
			// update just applied, matching a mutable reference reused
			// across the inner loop.
			fromItem = newFrom
			count++
		}
	}
	return object.MakeI64(count), nil
}

// evalDelete rebuilds From's source vector(s) from scratch, keeping any
// row that fails a filter and dropping (by name) any bound row that
// passes. With a join, the from- and join-side vectors are rebuilt
// independently by index: a from-row is dropped once any of its join
// pairings passes both filters and names it, regardless of how its
// other pairings come out; a from-row can be kept while its paired
// join-row is dropped, and vice versa.
func (rt *Runtime) evalDelete(env *scope.Scope, k ast.Delete) (object.Object, error) {
	from := k.From
	source, err := rt.Eval(env, from.Source)
	if err != nil {
		return nil, err
	}
	it, err := object.Iter(source)
	if err != nil {
		return nil, err
	}

	deleteNames := make(map[string]bool, len(k.Deletes))
	for _, d := range k.Deletes {
		deleteNames[d.Kind.(ast.Name).Ident] = true
	}

	count := int64(0)

	if from.Join == nil {
		var kept []object.Object
		for i := 0; i < it.Len; i++ {
			item := it.Get(i)
			child := env.Child()
			child.Define(from.Bind, item)
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					kept = append(kept, item)
					continue
				}
			}
			count++
		}
		if err := object.Replace(source, object.MakeList(kept)); err != nil {
			return nil, err
		}
		return object.MakeI64(count), nil
	}

	join := from.Join
	joinSource, err := rt.Eval(env, join.Source)
	if err != nil {
		return nil, err
	}
	joinIt, err := object.Iter(joinSource)
	if err != nil {
		return nil, err
	}

	// A from-row or join-row is marked for deletion the first time any
	// cross-product pairing it takes part in passes both filters; that
	// mark is by index, not by re-appending per pairing, so a row visited
	// across several join partners is neither duplicated nor resurrected
	// by a later pairing that happens to fail the filter.
	fromDrop := make([]bool, it.Len)
	joinDrop := make([]bool, joinIt.Len)

	for i := 0; i < it.Len; i++ {
		fromItem := it.Get(i)
		for j := 0; j < joinIt.Len; j++ {
			joinItem := joinIt.Get(j)
			child := env.Child()
			child.Define(from.Bind, fromItem)
			child.Define(join.Bind, joinItem)

			if hasExpr(join.Filter) {
				pass, err := rt.evalFilter(child, join.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}
			if hasExpr(from.Filter) {
				pass, err := rt.evalFilter(child, from.Filter)
				if err != nil {
					return nil, err
				}
				if !pass {
					continue
				}
			}

			if deleteNames[from.Bind] {
				fromDrop[i] = true
			}
			if deleteNames[join.Bind] {
				joinDrop[j] = true
			}
			count++
		}
	}

	var keptFrom, keptJoin []object.Object
	for i := 0; i < it.Len; i++ {
		if !fromDrop[i] {
			keptFrom = append(keptFrom, it.Get(i))
		}
	}
	for j := 0; j < joinIt.Len; j++ {
		if !joinDrop[j] {
			keptJoin = append(keptJoin, joinIt.Get(j))
		}
	}
	if err := object.Replace(source, object.MakeList(keptFrom)); err != nil {
		return nil, err
	}
	if err := object.Replace(joinSource, object.MakeList(keptJoin)); err != nil {
		return nil, err
	}
	return object.MakeI64(count), nil
}
