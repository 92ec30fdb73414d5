package core

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// nativeSigPattern validates an AddNative signature string:
// "function [Class1.Class2. … .]name(p1, p2, …)". tjs reuses chroma's regex
// engine (regexp2) directly here rather than hand-rolling a second ad hoc
// matcher, since it is already on the dependency graph via the CLI's
// syntax highlighter.
var nativeSigPattern = regexp2.MustCompile(
	`^\s*function\s+((?:[A-Za-z_][A-Za-z0-9_]*\.)*[A-Za-z_][A-Za-z0-9_]*)\s*\(\s*([A-Za-z_][A-Za-z0-9_]*\s*(?:,\s*[A-Za-z_][A-Za-z0-9_]*\s*)*)?\)\s*$`,
	regexp2.None,
)

// ParseNativeSignature splits a signature of the form
// "function [Class1.Class2. … .]name(p1, p2, …)" into its dotted name path
// and ordered parameter names.
func ParseNativeSignature(sig string) (path []string, params []string, err error) {
	m, mErr := nativeSigPattern.FindStringMatch(sig)
	if mErr != nil || m == nil {
		return nil, nil, &ScriptError{Kind: SyntaxError, Message: fmt.Sprintf("malformed native signature %q", sig)}
	}
	groups := m.Groups()
	namePath := groups[1].String()
	path = strings.Split(namePath, ".")

	paramList := groups[2].String()
	if strings.TrimSpace(paramList) != "" {
		for _, p := range strings.Split(paramList, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}
	return path, params, nil
}

// AddNative registers a host callback under the dotted path parsed from
// signature. Each dotted prefix component becomes an OBJECT-typed child of
// root, created on demand; the final component binds a FUNCTION|NATIVE
// value whose children are the declared parameter names (values
// irrelevant — only the names matter, mirroring script function params).
func (ip *Interpreter) AddNative(signature string, fn NativeFunc, userdata any) error {
	path, params, err := ParseNativeSignature(signature)
	if err != nil {
		return err
	}

	cur := ip.root
	for i, component := range path {
		if i == len(path)-1 {
			break
		}
		link := cur.FindChildOrCreate(component, flagUndefined)
		if link.val.IsUndefined() {
			link.val.SetObject()
		}
		cur = link.val
	}

	name := path[len(path)-1]
	nv := NewNative(fn, userdata)
	for _, p := range params {
		nv.AddChild(p, NewUndefined())
	}
	cur.AddChildNoDup(name, nv)
	return nil
}

// Param reads a named argument from a call frame, returning a fresh
// UNDEFINED value (not attached to the frame) if absent. Mirrors the
// native-callback convention getParameter("name")->getString() from the
// upstream project this bridge is modeled on.
func (frame *Value) Param(name string) *Value {
	if l := frame.FindChild(name); l != nil {
		return l.val
	}
	return NewUndefined()
}

// This returns the frame's bound receiver, or a fresh UNDEFINED if the call
// had none.
func (frame *Value) This() *Value { return frame.Param("this") }

// GetReturnVar returns the frame's writable return slot, creating it as
// UNDEFINED if absent.
func (frame *Value) GetReturnVar() *Value {
	return frame.FindChildOrCreate("return", flagUndefined).val
}

// SetReturnVar overwrites the frame's return slot with v.
func (frame *Value) SetReturnVar(v *Value) {
	frame.AddChildNoDup("return", v)
}

// invokeNative is called by the evaluator's call machinery for a
// FUNCTION|NATIVE value.
func (ip *Interpreter) invokeNative(fn *Value, frame *Value) error {
	return fn.nativeFn(frame, fn.nativeData)
}
