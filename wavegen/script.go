// SPDX-License-Identifier: EPL-2.0

package wavegen

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

const sampleFunc = "sample"

// Script evaluates a Lua chunk that defines
//
//	function sample(i, n) return ch1 [, ch2] end
//
// for i in [0, n). Returning two numbers on the first call makes the
// result dual-channel, and every later call must do the same.
type Script struct {
	Name   string
	Source string
}

func (s Script) chunkName() string {
	if s.Name == "" {
		return "<script>"
	}

	return s.Name
}

// Eval runs the script for n samples. Only the base, math and string
// libraries are opened.
func (s Script) Eval(ctx context.Context, n int) (ch1, ch2 []float64, err error) {
	if n <= 0 {
		return nil, nil, ErrLength
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", lib.name, err)
		}
	}

	fn, err := L.LoadString(s.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.chunkName(), err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.chunkName(), err)
	}

	sample, ok := L.GetGlobal(sampleFunc).(*lua.LFunction)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", s.chunkName(), ErrNoSample)
	}

	ch1 = make([]float64, n)
	for i := range n {
		err := L.CallByParam(lua.P{Fn: sample, NRet: 2, Protect: true}, lua.LNumber(i), lua.LNumber(n))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: sample %d: %w", s.chunkName(), i, err)
		}
		a, b := L.Get(-2), L.Get(-1)
		L.Pop(2)

		x, ok := a.(lua.LNumber)
		if !ok {
			return nil, nil, fmt.Errorf("%s: sample %d: %w", s.chunkName(), i, ErrScriptResult)
		}
		ch1[i] = float64(x)

		y, dual := b.(lua.LNumber)
		if i == 0 && dual {
			ch2 = make([]float64, n)
		}
		if dual != (ch2 != nil) || (b != lua.LNil && !dual) {
			return nil, nil, fmt.Errorf("%s: sample %d: %w", s.chunkName(), i, ErrScriptResult)
		}
		if dual {
			ch2[i] = float64(y)
		}
	}

	return ch1, ch2, nil
}
