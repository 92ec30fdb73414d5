package natives

import (
	"strconv"
	"strings"

	"github.com/brettkos/tjs/core"
)

// registerArray installs Array.* instance methods, grounded in
// TinyJS_Functions.cpp's scArrayContains/scArrayRemove/scArrayJoin/… block.
func registerArray(ip *core.Interpreter) error {
	natives := []struct {
		sig string
		fn  core.NativeFunc
	}{
		{"function Array.contains(value)", func(frame *core.Value, _ any) error {
			arr := frame.This()
			needle := frame.Param("value")
			n := arr.GetArrayLength()
			for i := 0; i < n; i++ {
				if arr.GetArrayIndex(i).Equals(needle) {
					frame.SetReturnVar(core.NewBool(true))
					return nil
				}
			}
			frame.SetReturnVar(core.NewBool(false))
			return nil
		}},
		{"function Array.remove(value)", func(frame *core.Value, _ any) error {
			arr := frame.This()
			needle := frame.Param("value")
			n := arr.GetArrayLength()
			kept := make([]*core.Value, 0, n)
			for i := 0; i < n; i++ {
				v := arr.GetArrayIndex(i)
				if !v.Equals(needle) {
					kept = append(kept, v)
				}
			}
			for i := 0; i < n; i++ {
				arr.SetArrayIndex(i, core.NewUndefined())
			}
			for i, v := range kept {
				arr.SetArrayIndex(i, v)
			}
			return nil
		}},
		{"function Array.join(sep)", func(frame *core.Value, _ any) error {
			arr := frame.This()
			sep := frame.Param("sep").GetString()
			n := arr.GetArrayLength()
			parts := make([]string, n)
			for i := 0; i < n; i++ {
				parts[i] = arr.GetArrayIndex(i).GetString()
			}
			frame.SetReturnVar(core.NewString(strings.Join(parts, sep)))
			return nil
		}},
		{"function Array.push(value)", func(frame *core.Value, _ any) error {
			arr := frame.This()
			n := arr.GetArrayLength()
			arr.AddChildNoDup(strconv.Itoa(n), frame.Param("value"))
			frame.SetReturnVar(core.NewInt(int64(n + 1)))
			return nil
		}},
		{"function Array.pop()", func(frame *core.Value, _ any) error {
			arr := frame.This()
			n := arr.GetArrayLength()
			if n == 0 {
				frame.SetReturnVar(core.NewUndefined())
				return nil
			}
			last := arr.GetArrayIndex(n - 1)
			arr.SetArrayIndex(n-1, core.NewUndefined())
			frame.SetReturnVar(last)
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
