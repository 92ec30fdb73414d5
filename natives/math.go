package natives

import (
	"math"
	"math/rand"

	"github.com/brettkos/tjs/core"
)

// registerMath installs the Math.* natives, grounded in
// TinyJS_Functions.cpp's scMath registration block (rand/randInt/floor/
// ceil/round/abs/min/max/sqrt/pow) plus the PI/E constants.
func registerMath(ip *core.Interpreter) error {
	natives := []struct {
		sig string
		fn  core.NativeFunc
	}{
		{"function Math.rand()", func(frame *core.Value, _ any) error {
			frame.SetReturnVar(core.NewDouble(rand.Float64()))
			return nil
		}},
		{"function Math.randInt(min, max)", func(frame *core.Value, _ any) error {
			lo, hi := frame.Param("min").GetInt(), frame.Param("max").GetInt()
			if hi <= lo {
				frame.SetReturnVar(core.NewInt(lo))
				return nil
			}
			frame.SetReturnVar(core.NewInt(lo + rand.Int63n(hi-lo)))
			return nil
		}},
		{"function Math.floor(x)", mathUnary(math.Floor)},
		{"function Math.ceil(x)", mathUnary(math.Ceil)},
		{"function Math.round(x)", mathUnary(math.Round)},
		{"function Math.abs(x)", func(frame *core.Value, _ any) error {
			x := frame.Param("x")
			if x.IsDouble() {
				frame.SetReturnVar(core.NewDouble(math.Abs(x.GetDouble())))
				return nil
			}
			n := x.GetInt()
			if n < 0 {
				n = -n
			}
			frame.SetReturnVar(core.NewInt(n))
			return nil
		}},
		{"function Math.min(a, b)", func(frame *core.Value, _ any) error {
			a, b := frame.Param("a").GetDouble(), frame.Param("b").GetDouble()
			frame.SetReturnVar(core.NewDouble(math.Min(a, b)))
			return nil
		}},
		{"function Math.max(a, b)", func(frame *core.Value, _ any) error {
			a, b := frame.Param("a").GetDouble(), frame.Param("b").GetDouble()
			frame.SetReturnVar(core.NewDouble(math.Max(a, b)))
			return nil
		}},
		{"function Math.sqrt(x)", mathUnary(math.Sqrt)},
		{"function Math.sin(x)", mathUnary(math.Sin)},
		{"function Math.cos(x)", mathUnary(math.Cos)},
		{"function Math.pow(x, y)", func(frame *core.Value, _ any) error {
			x, y := frame.Param("x").GetDouble(), frame.Param("y").GetDouble()
			frame.SetReturnVar(core.NewDouble(math.Pow(x, y)))
			return nil
		}},
	}
	for _, n := range natives {
		if err := ip.AddNative(n.sig, n.fn, nil); err != nil {
			return err
		}
	}

	mathObj := ip.Root().FindChild("Math").Value()
	mathObj.AddChildNoDup("PI", core.NewDouble(math.Pi))
	mathObj.AddChildNoDup("E", core.NewDouble(math.E))
	return nil
}

func mathUnary(f func(float64) float64) core.NativeFunc {
	return func(frame *core.Value, _ any) error {
		frame.SetReturnVar(core.NewDouble(f(frame.Param("x").GetDouble())))
		return nil
	}
}
