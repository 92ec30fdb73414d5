package natives

import (
	"math"
	"testing"

	"github.com/brettkos/tjs/core"
)

func newInterp(t *testing.T) *core.Interpreter {
	t.Helper()
	ip := core.NewInterpreter()
	if err := Register(ip); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return ip
}

func mustExec(t *testing.T, ip *core.Interpreter, src string) {
	t.Helper()
	if err := ip.Execute(src); err != nil {
		t.Fatalf("exec error for %q: %v", src, err)
	}
}

func mustEval(t *testing.T, ip *core.Interpreter, src string) *core.Value {
	t.Helper()
	v, err := ip.EvaluateComplex(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func wantInt(t *testing.T, v *core.Value, n int64) {
	t.Helper()
	if !v.IsInt() || v.GetInt() != n {
		t.Fatalf("want int %d, got %s %v", n, v.TypeName(), v.GetString())
	}
}

func wantStr(t *testing.T, v *core.Value, s string) {
	t.Helper()
	if !v.IsString() || v.GetString() != s {
		t.Fatalf("want string %q, got %s %q", s, v.TypeName(), v.GetString())
	}
}

func wantBool(t *testing.T, v *core.Value, b bool) {
	t.Helper()
	if v.GetBool() != b {
		t.Fatalf("want bool %v, got %s %q", b, v.TypeName(), v.GetString())
	}
}

// --- Math ---------------------------------------------------------------

func TestMathConstants(t *testing.T) {
	ip := newInterp(t)
	pi := mustEval(t, ip, "Math.PI")
	defer pi.Release()
	if math.Abs(pi.GetDouble()-math.Pi) > 1e-9 {
		t.Fatalf("want pi, got %v", pi.GetDouble())
	}
}

func TestMathFloorCeilRound(t *testing.T) {
	ip := newInterp(t)
	f := mustEval(t, ip, "Math.floor(1.7)")
	defer f.Release()
	if f.GetDouble() != 1 {
		t.Fatalf("want 1, got %v", f.GetDouble())
	}

	c := mustEval(t, ip, "Math.ceil(1.2)")
	defer c.Release()
	if c.GetDouble() != 2 {
		t.Fatalf("want 2, got %v", c.GetDouble())
	}

	r := mustEval(t, ip, "Math.round(1.5)")
	defer r.Release()
	if r.GetDouble() != 2 {
		t.Fatalf("want 2, got %v", r.GetDouble())
	}
}

func TestMathAbsMinMax(t *testing.T) {
	ip := newInterp(t)
	a := mustEval(t, ip, "Math.abs(-5)")
	defer a.Release()
	wantInt(t, a, 5)

	mn := mustEval(t, ip, "Math.min(3, 7)")
	defer mn.Release()
	if mn.GetDouble() != 3 {
		t.Fatalf("want 3, got %v", mn.GetDouble())
	}

	mx := mustEval(t, ip, "Math.max(3, 7)")
	defer mx.Release()
	if mx.GetDouble() != 7 {
		t.Fatalf("want 7, got %v", mx.GetDouble())
	}
}

func TestMathRandIntBounds(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `var r = Math.randInt(5, 10);`)
	v := ip.GetScriptVariable("r")
	if v == nil {
		t.Fatal("r not found")
	}
	n := v.GetInt()
	if n < 5 || n >= 10 {
		t.Fatalf("randInt(5, 10) out of bounds: %d", n)
	}
}

func TestMathPow(t *testing.T) {
	ip := newInterp(t)
	v := mustEval(t, ip, "Math.pow(2, 10)")
	defer v.Release()
	if v.GetDouble() != 1024 {
		t.Fatalf("want 1024, got %v", v.GetDouble())
	}
}

// --- String ---------------------------------------------------------------

func TestStringIndexOfAndSubstring(t *testing.T) {
	ip := newInterp(t)
	idx := mustEval(t, ip, `"hello world".indexOf("world")`)
	defer idx.Release()
	wantInt(t, idx, 6)

	sub := mustEval(t, ip, `"hello world".substring(0, 5)`)
	defer sub.Release()
	wantStr(t, sub, "hello")
}

func TestStringCharAtAndCharCodeAt(t *testing.T) {
	ip := newInterp(t)
	c := mustEval(t, ip, `"abc".charAt(1)`)
	defer c.Release()
	wantStr(t, c, "b")

	code := mustEval(t, ip, `"abc".charCodeAt(0)`)
	defer code.Release()
	wantInt(t, code, int64('a'))
}

func TestStringFromCharCode(t *testing.T) {
	ip := newInterp(t)
	v := mustEval(t, ip, "String.fromCharCode(65)")
	defer v.Release()
	wantStr(t, v, "A")
}

func TestStringSplit(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `var parts = "a,b,c".split(",");`)
	parts := ip.GetScriptVariable("parts")
	if parts == nil {
		t.Fatal("parts not found")
	}
	if parts.GetArrayLength() != 3 {
		t.Fatalf("want length 3, got %d", parts.GetArrayLength())
	}
	wantStr(t, parts.GetArrayIndex(1), "b")
}

// --- Array ---------------------------------------------------------------

func TestArrayContainsAndRemove(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `var a = [1, 2, 3];`)
	has := mustEval(t, ip, "a.contains(2)")
	defer has.Release()
	wantBool(t, has, true)

	mustExec(t, ip, `a.remove(2);`)
	a := ip.GetScriptVariable("a")
	stillHas := false
	for i := 0; i < a.GetArrayLength(); i++ {
		if a.GetArrayIndex(i).GetInt() == 2 {
			stillHas = true
		}
	}
	if stillHas {
		t.Fatal("expected 2 to be removed from a")
	}
}

func TestArrayJoin(t *testing.T) {
	ip := newInterp(t)
	v := mustEval(t, ip, `[1, 2, 3].join("-")`)
	defer v.Release()
	wantStr(t, v, "1-2-3")
}

func TestArrayPushPop(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `var a = [1, 2]; var n = a.push(3);`)
	wantInt(t, ip.GetScriptVariable("n"), 3)
	a := ip.GetScriptVariable("a")
	if a.GetArrayLength() != 3 {
		t.Fatalf("want length 3, got %d", a.GetArrayLength())
	}

	popped := mustEval(t, ip, "a.pop()")
	defer popped.Release()
	wantInt(t, popped, 3)
}

// --- Object / JSON ----------------------------------------------------------

func TestObjectClone(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `
		var a = { v: 1 };
		var b = a.clone();
		b.v = 2;
	`)
	wantInt(t, ip.GetScriptVariable("a").FindChild("v").Value(), 1)
	wantInt(t, ip.GetScriptVariable("b").FindChild("v").Value(), 2)
}

func TestJSONStringifyAndParse(t *testing.T) {
	ip := newInterp(t)
	s := mustEval(t, ip, `JSON.stringify({a: 1})`)
	defer s.Release()
	if !s.IsString() {
		t.Fatalf("want string, got %s", s.TypeName())
	}

	mustExec(t, ip, `var parsed = JSON.parse('{"a": 5, "b": 6}');`)
	parsed := ip.GetScriptVariable("parsed")
	wantInt(t, parsed.FindChild("a").Value(), 5)
	wantInt(t, parsed.FindChild("b").Value(), 6)
}

// --- misc ---------------------------------------------------------------

func TestCharToInt(t *testing.T) {
	ip := newInterp(t)
	v := mustEval(t, ip, `charToInt("A")`)
	defer v.Release()
	wantInt(t, v, int64('A'))
}

func TestIntegerParseInt(t *testing.T) {
	ip := newInterp(t)
	v := mustEval(t, ip, `Integer.parseInt("42")`)
	defer v.Release()
	wantInt(t, v, 42)
}

func TestEvalNativeReentersInterpreter(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `var x = eval("2 + 3");`)
	wantInt(t, ip.GetScriptVariable("x"), 5)
}

func TestExecNativeRunsStatementsInCurrentScope(t *testing.T) {
	ip := newInterp(t)
	mustExec(t, ip, `exec("var y = 9;");`)
	wantInt(t, ip.GetScriptVariable("y"), 9)
}
