package core

import (
	"strings"
	"testing"
)

// --- helpers -----------------------------------------------------------

func mustExec(t *testing.T, ip *Interpreter, src string) {
	t.Helper()
	if err := ip.Execute(src); err != nil {
		t.Fatalf("exec error for %q: %v", src, err)
	}
}

func mustEval(t *testing.T, ip *Interpreter, src string) *Value {
	t.Helper()
	v, err := ip.EvaluateComplex(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func wantInt(t *testing.T, v *Value, n int64) {
	t.Helper()
	if !v.IsInt() || v.GetInt() != n {
		t.Fatalf("want int %d, got %s %v", n, v.TypeName(), v.GetString())
	}
}

func wantStr(t *testing.T, v *Value, s string) {
	t.Helper()
	if !v.IsString() || v.GetString() != s {
		t.Fatalf("want string %q, got %s %q", s, v.TypeName(), v.GetString())
	}
}

func wantBool(t *testing.T, v *Value, b bool) {
	t.Helper()
	if v.GetBool() != b {
		t.Fatalf("want bool %v, got %s %q", b, v.TypeName(), v.GetString())
	}
}

func getVar(t *testing.T, ip *Interpreter, name string) *Value {
	t.Helper()
	v := ip.GetScriptVariable(name)
	if v == nil {
		t.Fatalf("variable %q not found", name)
	}
	return v
}

// --- arithmetic & coercion ------------------------------------------------

func TestArithmetic(t *testing.T) {
	ip := NewInterpreter()
	v := mustEval(t, ip, "1 + 2 * 3")
	defer v.Release()
	wantInt(t, v, 7)
}

func TestStringConcatAndStringArithmeticIsTypeError(t *testing.T) {
	ip := NewInterpreter()
	v := mustEval(t, ip, `"a" + "b"`)
	defer v.Release()
	wantStr(t, v, "ab")

	_, err := ip.EvaluateComplex(`"3" * "4"`)
	se, ok := err.(*ScriptError)
	if !ok || se.Kind != TypeError {
		t.Fatalf("expected TypeError for string * string, got %v", err)
	}
}

func TestStrictVsLooseEquality(t *testing.T) {
	ip := NewInterpreter()
	loose := mustEval(t, ip, `1 == "1"`)
	defer loose.Release()
	wantBool(t, loose, true)

	strict := mustEval(t, ip, `1 === "1"`)
	defer strict.Release()
	wantBool(t, strict, false)
}

// --- variables & scope ----------------------------------------------------

func TestVarAndAssignment(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `var x = 10; x = x + 5;`)
	wantInt(t, getVar(t, ip, "x"), 15)
}

func TestUndeclaredAssignmentCreatesGlobal(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `y = 42;`)
	wantInt(t, getVar(t, ip, "y"), 42)
}

func TestPlusEqMinusEq(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `var x = 5; x += 3; x -= 1;`)
	wantInt(t, getVar(t, ip, "x"), 7)
}

func TestPostfixIncrementYieldsNewValue(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `var x = 1; var y = x++;`)
	wantInt(t, getVar(t, ip, "x"), 2)
	wantInt(t, getVar(t, ip, "y"), 2)
}

// --- control flow -----------------------------------------------------

func TestIfElseSkipsInactiveBranch(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var hit = 0;
		if (false) { hit = 1; } else { hit = 2; }
	`)
	wantInt(t, getVar(t, ip, "hit"), 2)
}

func TestTernaryDoesNotEvaluateUntakenBranch(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var sideEffect = 0;
		function bump() { sideEffect = sideEffect + 1; return 1; }
		var r = true ? 10 : bump();
	`)
	wantInt(t, getVar(t, ip, "sideEffect"), 0)
	wantInt(t, getVar(t, ip, "r"), 10)
}

func TestShortCircuitAndOr(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var calls = 0;
		function side() { calls = calls + 1; return true; }
		var a = false && side();
		var b = true || side();
	`)
	wantInt(t, getVar(t, ip, "calls"), 0)
	wantBool(t, getVar(t, ip, "a"), false)
	wantBool(t, getVar(t, ip, "b"), true)
}

func TestWhileLoop(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
	`)
	wantInt(t, getVar(t, ip, "sum"), 10)
}

func TestForLoop(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var sum = 0;
		for (var i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
	`)
	wantInt(t, getVar(t, ip, "sum"), 10)
}

func TestLoopExceedsMaxIterationsRaisesLoopError(t *testing.T) {
	ip := NewInterpreter()
	ip.MaxIterations = 100
	err := ip.Execute(`while (true) {}`)
	if err == nil {
		t.Fatal("expected a LoopError, got nil")
	}
	se, ok := err.(*ScriptError)
	if !ok || se.Kind != LoopError {
		t.Fatalf("expected LoopError, got %v", err)
	}
}

// --- functions ----------------------------------------------------------

func TestFunctionCallAndReturn(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		function add(a, b) { return a + b; }
		var r = add(3, 4);
	`)
	wantInt(t, getVar(t, ip, "r"), 7)
}

func TestFunctionPassByValueForBasics(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		function bump(n) { n = n + 1; return n; }
		var x = 1;
		var r = bump(x);
	`)
	wantInt(t, getVar(t, ip, "x"), 1)
	wantInt(t, getVar(t, ip, "r"), 2)
}

func TestFunctionPassByReferenceForComposites(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		function setField(o) { o.v = 99; }
		var obj = { v: 1 };
		setField(obj);
	`)
	obj := getVar(t, ip, "obj")
	wantInt(t, obj.FindChild("v").Value(), 99)
}

func TestMethodCallBindsThis(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var counter = { n: 0, inc: function() { this.n = this.n + 1; } };
		counter.inc();
		counter.inc();
	`)
	counter := getVar(t, ip, "counter")
	wantInt(t, counter.FindChild("n").Value(), 2)
}

func TestRecursiveFunction(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		function fact(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		var r = fact(5);
	`)
	wantInt(t, getVar(t, ip, "r"), 120)
}

// --- objects, arrays, identity --------------------------------------------

func TestArrayLiteralAndLength(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `var a = [1, 2, 3];`)
	a := getVar(t, ip, "a")
	if a.GetArrayLength() != 3 {
		t.Fatalf("want length 3, got %d", a.GetArrayLength())
	}
	wantInt(t, a.GetArrayIndex(1), 2)
}

func TestObjectAssignmentSharesReference(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var a = [1];
		var b = a;
		b[0] = 2;
	`)
	av := mustEval(t, ip, "a[0]")
	defer av.Release()
	wantInt(t, av, 2)

	identity := mustEval(t, ip, "a == b")
	defer identity.Release()
	wantBool(t, identity, true)
}

func TestNewExpressionBindsThisAndRunsConstructor(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		function Point(x, y) { this.x = x; this.y = y; }
		var p = new Point(3, 4);
	`)
	p := getVar(t, ip, "p")
	wantInt(t, p.FindChild("x").Value(), 3)
	wantInt(t, p.FindChild("y").Value(), 4)
}

func TestNewWithNonFunctionSharesPrototype(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `
		var proto = { greeting: "hi" };
		var o = new proto();
	`)
	o := getVar(t, ip, "o")
	proto := o.FindChild("prototype")
	if proto == nil {
		t.Fatal("expected a prototype child")
	}
	wantStr(t, proto.Value().FindChild("greeting").Value(), "hi")
}

// --- errors ---------------------------------------------------------------

func TestUndefinedFunctionCallIsTypeError(t *testing.T) {
	ip := NewInterpreter()
	err := ip.Execute(`nope();`)
	if err == nil {
		t.Fatal("expected an error")
	}
	se, ok := err.(*ScriptError)
	if !ok || se.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestErrorMessageIncludesCallFrame(t *testing.T) {
	ip := NewInterpreter()
	err := ip.Execute(`
		function inner() { return nope(); }
		inner();
	`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "inner") {
		t.Fatalf("expected call frame naming inner() in error, got %q", err.Error())
	}
}

// --- ref-count soundness --------------------------------------------------

func TestRefCountSoundnessAcrossEvaluate(t *testing.T) {
	ip := NewInterpreter()
	mustExec(t, ip, `var obj = { v: 1 };`)
	obj := getVar(t, ip, "obj")
	field := obj.FindChild("v").Value()
	before := field.refs

	v := mustEval(t, ip, "obj.v")
	if v != field {
		t.Fatalf("expected obj.v to evaluate to the same Value obj owns")
	}
	if v.refs != before+1 {
		t.Fatalf("expected the caller's retain to bump refs to %d, got %d", before+1, v.refs)
	}
	v.Release()

	if field.refs != before {
		t.Fatalf("ref count drifted: before=%d after=%d", before, field.refs)
	}
}
