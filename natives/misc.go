package natives

import (
	"fmt"

	"github.com/brettkos/tjs/core"
)

// registerMisc installs the free-standing print/console.log, eval/exec/
// trace, charToInt, and Integer.parseInt/valueOf natives, grounded in
// TinyJS_Functions.cpp's scPrint/scJSEval/scJSExec/scCharToInt/… block.
func registerMisc(ip *core.Interpreter) error {
	natives := []struct {
		sig string
		fn  core.NativeFunc
	}{
		{"function print(text)", func(frame *core.Value, _ any) error {
			fmt.Println(frame.Param("text").GetString())
			return nil
		}},
		{"function console.log(text)", func(frame *core.Value, _ any) error {
			fmt.Println(frame.Param("text").GetString())
			return nil
		}},
		{"function eval(code)", func(frame *core.Value, _ any) error {
			v, err := ip.EvaluateComplex(frame.Param("code").GetString())
			if err != nil {
				return err
			}
			frame.SetReturnVar(v)
			v.Release()
			return nil
		}},
		{"function exec(code)", func(frame *core.Value, _ any) error {
			return ip.Execute(frame.Param("code").GetString())
		}},
		{"function trace()", func(frame *core.Value, _ any) error {
			fmt.Print(ip.Trace())
			return nil
		}},
		{"function charToInt(ch)", func(frame *core.Value, _ any) error {
			s := frame.Param("ch").GetString()
			if s == "" {
				frame.SetReturnVar(core.NewInt(0))
				return nil
			}
			frame.SetReturnVar(core.NewInt(int64(s[0])))
			return nil
		}},
		{"function Integer.parseInt(s)", func(frame *core.Value, _ any) error {
			frame.SetReturnVar(core.NewInt(frame.Param("s").GetInt()))
			return nil
		}},
		{"function Integer.valueOf(s)", func(frame *core.Value, _ any) error {
			frame.SetReturnVar(core.NewInt(frame.Param("s").GetInt()))
			return nil
		}},
	}
	for _, n := range natives {
		if err := ip.AddNative(n.sig, n.fn, nil); err != nil {
			return err
		}
	}
	return nil
}
