package natives

import (
	"fmt"

	"github.com/brettkos/tjs/core"
)

// registerObjectJSON installs Object.dump/Object.clone and JSON.stringify/
// JSON.parse, grounded in TinyJS_Functions.cpp's scObjectDump/scObjectClone
// and TinyJS_JSON.cpp.
func registerObjectJSON(ip *core.Interpreter) error {
	if err := ip.AddNative("function Object.dump()", func(frame *core.Value, _ any) error {
		fmt.Println(core.GetJSON(frame.This()))
		return nil
	}, nil); err != nil {
		return err
	}
	if err := ip.AddNative("function Object.clone()", func(frame *core.Value, _ any) error {
		frame.SetReturnVar(frame.This().DeepCopy())
		return nil
	}, nil); err != nil {
		return err
	}
	if err := ip.AddNative("function JSON.stringify(value)", func(frame *core.Value, _ any) error {
		frame.SetReturnVar(core.NewString(core.GetJSON(frame.Param("value"))))
		return nil
	}, nil); err != nil {
		return err
	}
	if err := ip.AddNative("function JSON.parse(text)", func(frame *core.Value, _ any) error {
		v, err := ip.EvaluateComplex("(" + frame.Param("text").GetString() + ")")
		if err != nil {
			return err
		}
		frame.SetReturnVar(v)
		v.Release()
		return nil
	}, nil); err != nil {
		return err
	}
	return nil
}
