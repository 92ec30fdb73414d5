package core

import (
	"fmt"
	"strconv"
	"strings"
)

// LoopMaxIterations bounds while/for iteration counts against runaway
// scripts. Overridable per Interpreter for embedding hosts that want a
// tighter or looser bound (the CLI's -max-iterations flag, for instance).
const LoopMaxIterations = 8192

// Interpreter is the embeddable engine: a root scope, the built-in
// String/Array/Object class objects used by prototype lookup, and the
// mutable lexer/scope-stack pair that execute, evaluateComplex, and
// function calls save and restore around nested work.
type Interpreter struct {
	root *Value

	classString *Value
	classArray  *Value
	classObject *Value

	scopes *ScopeStack
	lexer  *Lexer

	MaxIterations int
}

// NewInterpreter constructs an Interpreter with a fresh root object and the
// built-in String/Array/Object class objects.
func NewInterpreter() *Interpreter {
	root := NewObject()
	ip := &Interpreter{
		root:          root,
		MaxIterations: LoopMaxIterations,
	}
	ip.scopes = newScopeStack(root)

	// String/Array/Object are ordinary root children (so a script can call
	// String.fromCharCode(...) directly) and simultaneously the fallback
	// targets member lookup walks to for a primitive's type.
	ip.classString = NewObject()
	root.AddChildNoDup("String", ip.classString)
	ip.classArray = NewObject()
	root.AddChildNoDup("Array", ip.classArray)
	ip.classObject = NewObject()
	root.AddChildNoDup("Object", ip.classObject)

	return ip
}

// Root exposes the global scope for host-side direct manipulation.
func (ip *Interpreter) Root() *Value { return ip.root }

// ClassObject returns the built-in class object ("String", "Array", or
// "Object") used as the final step of member lookup for the given value
// type. Exposed so natives packages can install methods onto it.
func (ip *Interpreter) ClassObject(flags Flag) *Value {
	switch flags & typeMask {
	case flagString:
		return ip.classString
	case flagArray:
		return ip.classArray
	default:
		return ip.classObject
	}
}

func (ip *Interpreter) classFor(v *Value) *Value {
	switch {
	case v.IsString():
		return ip.classString
	case v.IsArray():
		return ip.classArray
	default:
		return ip.classObject
	}
}

// --- save/restore for re-entrancy --------------------------------

type savedState struct {
	lexer  *Lexer
	scopes []*Value
}

func (ip *Interpreter) save() savedState {
	s := savedState{lexer: ip.lexer}
	if ip.scopes != nil {
		s.scopes = ip.scopes.snapshot()
	}
	return s
}

func (ip *Interpreter) restore(s savedState) {
	ip.lexer = s.lexer
	if ip.scopes != nil {
		ip.scopes.restore(s.scopes)
	}
}

// Execute parses and executes a program. It is re-entrant: a native
// callback (eval, exec) may call Execute again while one is already in
// progress.
func (ip *Interpreter) Execute(code string) error {
	saved := ip.save()
	ip.lexer = NewLexer(code)
	defer ip.restore(saved)

	execute := true
	for ip.lexer.Cur.Kind != EOF {
		if err := ip.statement(&execute); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateComplex parses one or more ';'-separated expressions and returns
// the last expression's value, retained for the caller (the caller should
// Release it when done). Requires EOF after the last expression.
func (ip *Interpreter) EvaluateComplex(code string) (*Value, error) {
	saved := ip.save()
	ip.lexer = NewLexer(code)
	defer ip.restore(saved)

	execute := true
	var last *ValueLink
	for {
		link, err := ip.base(&execute)
		if err != nil {
			return nil, err
		}
		if last != nil && !last.owned {
			last.Release()
		}
		last = link
		if ip.lexer.Cur.Kind == ';' {
			ip.lexer.Advance()
			continue
		}
		break
	}
	if ip.lexer.Cur.Kind != EOF {
		return nil, newSyntaxError(curPos(ip), "unexpected trailing input %s", ip.lexer.Cur)
	}
	if last == nil {
		return NewUndefined().Retain(), nil
	}
	result := last.val.Retain()
	if !last.owned {
		last.Release()
	}
	return result, nil
}

// Evaluate is sugar returning EvaluateComplex(code) coerced to string.
func (ip *Interpreter) Evaluate(code string) (string, error) {
	v, err := ip.EvaluateComplex(code)
	if err != nil {
		return "", err
	}
	s := v.GetString()
	v.Release()
	return s, nil
}

// GetScriptVariable resolves a dotted path against root, returning nil if
// any component is missing.
func (ip *Interpreter) GetScriptVariable(path string) *Value {
	cur := ip.root
	for _, part := range strings.Split(path, ".") {
		l := cur.FindChild(part)
		if l == nil {
			return nil
		}
		cur = l.val
	}
	return cur
}

// GetVariable resolves path and writes its coerced string into out,
// reporting whether it was found.
func (ip *Interpreter) GetVariable(path string, out *string) bool {
	v := ip.GetScriptVariable(path)
	if v == nil {
		return false
	}
	*out = v.GetString()
	return true
}

// SetVariable writes value into the variable at path, respecting the
// existing value's type (INT via strtol-style parse, DOUBLE via strtod,
// otherwise plain string). Creates intermediate OBJECTs via
// FindChildOrCreateByPath if the path doesn't exist yet.
func (ip *Interpreter) SetVariable(path string, value string) bool {
	link := ip.root.FindChildOrCreateByPath(path)
	switch link.val.typeBit() {
	case flagInt:
		link.val.SetInt(parseIntLoose(value))
	case flagDouble:
		f, _ := strconv.ParseFloat(strings.TrimSpace(value), 64)
		link.val.SetDouble(f)
	default:
		link.val.SetString(value)
	}
	return true
}

// Trace renders a debug dump of the value graph rooted at root.
func (ip *Interpreter) Trace() string {
	var sb strings.Builder
	traceValue(&sb, ip.root, 0, map[*Value]bool{})
	return sb.String()
}

func traceValue(sb *strings.Builder, v *Value, depth int, seen map[*Value]bool) {
	indent := strings.Repeat("  ", depth)
	if seen[v] {
		fmt.Fprintf(sb, "%s<cycle>\n", indent)
		return
	}
	seen[v] = true
	fmt.Fprintf(sb, "%s%s (refs=%d) = %s\n", indent, v.TypeName(), v.refs, v.GetString())
	for l := v.firstChild; l != nil; l = l.next {
		fmt.Fprintf(sb, "%s  %s:\n", indent, l.name)
		traceValue(sb, l.val, depth+2, seen)
	}
}

func curPos(ip *Interpreter) Position {
	return Position{Line: ip.lexer.Cur.Line, Col: ip.lexer.Cur.Col}
}
