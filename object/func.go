package object

// Func is the Go shape every callable Object wraps: it receives the
// receiver Object (itself) and an argument list, and produces a result.
// Only built-ins produce func Objects — the language has no user-defined
// functions, so there is no closure environment to capture here.
type Func func(self Object, args []Object) (Object, error)

// MakeFunc wraps fn as a callable Object.
func MakeFunc(fn Func) Object {
	return &Cell{Rc: 1, Typ: FuncType, Data: fn}
}

func callFunc(self Object, args []Object) (Object, error) {
	fn := self.Data.(Func)
	return fn(self, args)
}
