package natives

import (
	"strconv"
	"strings"

	"github.com/brettkos/tjs/core"
)

// registerString installs String.* instance methods (dispatched via
// prototype-chain fallback to the class object, receiver bound as `this`)
// and the static String.fromCharCode, grounded in
// TinyJS_Functions.cpp's scStringIndexOf/scStringSubstring/… block.
func registerString(ip *core.Interpreter) error {
	natives := []struct {
		sig string
		fn  core.NativeFunc
	}{
		{"function String.indexOf(search)", func(frame *core.Value, _ any) error {
			s := frame.This().GetString()
			search := frame.Param("search").GetString()
			frame.SetReturnVar(core.NewInt(int64(strings.Index(s, search))))
			return nil
		}},
		{"function String.substring(start, end)", func(frame *core.Value, _ any) error {
			s := frame.This().GetString()
			start := clampIndex(frame.Param("start").GetInt(), len(s))
			end := len(s)
			if e := frame.Param("end"); !e.IsUndefined() {
				end = clampIndex(e.GetInt(), len(s))
			}
			if start > end {
				start, end = end, start
			}
			frame.SetReturnVar(core.NewString(s[start:end]))
			return nil
		}},
		{"function String.charAt(i)", func(frame *core.Value, _ any) error {
			s := frame.This().GetString()
			i := int(frame.Param("i").GetInt())
			if i < 0 || i >= len(s) {
				frame.SetReturnVar(core.NewString(""))
				return nil
			}
			frame.SetReturnVar(core.NewString(string(s[i])))
			return nil
		}},
		{"function String.charCodeAt(i)", func(frame *core.Value, _ any) error {
			s := frame.This().GetString()
			i := int(frame.Param("i").GetInt())
			if i < 0 || i >= len(s) {
				frame.SetReturnVar(core.NewInt(0))
				return nil
			}
			frame.SetReturnVar(core.NewInt(int64(s[i])))
			return nil
		}},
		{"function String.fromCharCode(code)", func(frame *core.Value, _ any) error {
			frame.SetReturnVar(core.NewString(string(rune(frame.Param("code").GetInt()))))
			return nil
		}},
		{"function String.split(sep)", func(frame *core.Value, _ any) error {
			s := frame.This().GetString()
			sep := frame.Param("sep").GetString()
			arr := core.NewArray()
			for i, part := range strings.Split(s, sep) {
				arr.AddChild(strconv.Itoa(i), core.NewString(part))
			}
			frame.SetReturnVar(arr)
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

func clampIndex(i int64, n int) int {
	if i < 0 {
		return 0
	}
	if int(i) > n {
		return n
	}
	return int(i)
}
