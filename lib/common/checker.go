package common

import (
	"reflect"
	"runtime"
	"strings"
)

type Checker interface {
	GetFuncs() []CheckerFunc
}

// CheckerDeferFunc is called after each step with the step index, the name
// of the step func and its result.
type CheckerDeferFunc func(int, string, Checker, error)

type CheckerFunc func(Checker, ...interface{}) error

// CheckerFuncs is the pipeline of steps; embedded, it makes the struct a
// `Checker`.
type CheckerFuncs []CheckerFunc

func (c CheckerFuncs) GetFuncs() []CheckerFunc {
	return c
}

// CheckerFuncName returns the short name of the step func, "CheckVoter" for
// "boscoin.io/govern/lib/governance.CheckVoter".
func CheckerFuncName(f CheckerFunc) string {
	fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer())
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// RunChecker runs the steps of checker in order and stops at the first
// error.
func RunChecker(checker Checker, deferFunc CheckerDeferFunc, args ...interface{}) error {
	for i, f := range checker.GetFuncs() {
		err := f(checker, args...)
		if deferFunc != nil {
			deferFunc(i, CheckerFuncName(f), checker, err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
