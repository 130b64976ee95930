package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecker(t *testing.T) {
	limit := 10
	funcs := CheckerFuncs{}
	var dones []interface{}
	for i := 0; i < limit; i++ {
		f := func(checker Checker, args ...interface{}) error {
			dones = append(dones, checker)
			return nil
		}
		funcs = append(funcs, f)
	}

	require.NoError(t, RunChecker(funcs, nil))
	require.Equal(t, limit, len(dones), "some funcs were not executed")
}

type CheckerWithProperties struct {
	CheckerFuncs

	P0 int
}

func setP0(c Checker, args ...interface{}) error {
	c.(*CheckerWithProperties).P0 = args[0].(int)
	return nil
}

func checkP0(c Checker, args ...interface{}) error {
	if c.(*CheckerWithProperties).P0 != args[0].(int) {
		return errors.New("failed to set property in Checker")
	}
	return nil
}

func TestCheckerWithProperties(t *testing.T) {
	checker := &CheckerWithProperties{CheckerFuncs: CheckerFuncs{setP0, checkP0}}
	require.NoError(t, RunChecker(checker, nil, 99))
	require.Equal(t, 99, checker.P0)
}

func TestCheckerStopsAtFirstError(t *testing.T) {
	stop := errors.New("stop")

	var called []int
	funcs := CheckerFuncs{
		setP0,
		func(Checker, ...interface{}) error { called = append(called, 1); return stop },
		func(Checker, ...interface{}) error { called = append(called, 2); return nil },
	}

	var steps []string
	var failed error
	deferFunc := func(i int, name string, _ Checker, err error) {
		steps = append(steps, name)
		if err != nil {
			failed = err
		}
	}

	checker := &CheckerWithProperties{CheckerFuncs: funcs}
	err := RunChecker(checker, deferFunc, 1)
	require.Equal(t, stop, err)
	require.Equal(t, stop, failed)
	require.Equal(t, []int{1}, called)
	require.Len(t, steps, 2)
	require.Equal(t, "setP0", steps[0])
}

func TestCheckerFuncName(t *testing.T) {
	require.Equal(t, "checkP0", CheckerFuncName(checkP0))
}

func TestEncodeUint64ToByteSlice(t *testing.T) {
	a := EncodeUint64ToByteSlice(1)
	b := EncodeUint64ToByteSlice(256)
	require.True(t, string(a[:]) < string(b[:]))
	require.Equal(t, uint64(256), DecodeUint64FromByteSlice(b[:]))
	require.Equal(t, uint64(0), DecodeUint64FromByteSlice([]byte{1}))
}
