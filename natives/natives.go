// Package natives is tjs's standard native-function library: the
// Math/String/Array/Object/JSON builtins and top-level print/eval/exec
// helpers a host embeds via Register, grounded in the upstream TinyJS
// project's TinyJS_Functions.cpp registration list.
package natives

import "github.com/brettkos/tjs/core"

// Register installs every native in this package onto ip. A host that
// wants a narrower standard library can call the individual register*
// functions directly instead.
func Register(ip *core.Interpreter) error {
	for _, fn := range []func(*core.Interpreter) error{
		registerMath,
		registerString,
		registerArray,
		registerObjectJSON,
		registerMisc,
	} {
		if err := fn(ip); err != nil {
			return err
		}
	}
	return nil
}
