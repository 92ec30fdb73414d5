package core

// This file implements the fused recursive-descent parser/evaluator: every
// production takes a pointer to the enclosing execute gate and both parses
// and (when the gate is open) evaluates in the same pass. A production
// asked to run with *execute == false still consumes exactly the tokens a
// running parse would, so an inactive if/ternary/loop branch is skipped
// without a second, syntax-only pass over it.

// temp wraps v in a fresh, unowned ValueLink representing a value with no
// home in the scope graph (an expression result, not a variable). Callers
// must releaseIfTemp it once done.
func temp(v *Value) *ValueLink { return newLink("", v, false) }

func releaseIfTemp(l *ValueLink) {
	if l != nil && !l.owned {
		l.Release()
	}
}

// --- statements --------------------------------------------------------

func (ip *Interpreter) statement(execute *bool) error {
	switch ip.lexer.Cur.Kind {
	case TokenKind(';'):
		ip.lexer.Advance()
		return nil
	case kwVar:
		return ip.varStatement(execute)
	case kwIf:
		return ip.ifStatement(execute)
	case kwWhile:
		return ip.whileStatement(execute)
	case kwFor:
		return ip.forStatement(execute)
	case kwReturn:
		return ip.returnStatement(execute)
	case kwFunction:
		return ip.functionDeclStatement(execute)
	case TokenKind('{'):
		return ip.block(execute)
	default:
		link, err := ip.base(execute)
		if err != nil {
			return err
		}
		releaseIfTemp(link)
		if ip.lexer.Cur.Kind == TokenKind(';') {
			ip.lexer.Advance()
		}
		return nil
	}
}

// block parses `{ stmt* }`. When entered with the gate already closed, it
// brace-matches straight to the close without recursing into statement —
// the fast-skip path for an inactive block.
func (ip *Interpreter) block(execute *bool) error {
	if err := ip.lexer.Match(TokenKind('{')); err != nil {
		return err
	}
	if !*execute {
		if _, err := ip.lexer.CaptureBody(); err != nil {
			return err
		}
		return ip.lexer.Match(TokenKind('}'))
	}
	for ip.lexer.Cur.Kind != TokenKind('}') {
		if ip.lexer.Cur.Kind == EOF {
			return newSyntaxError(curPos(ip), "unexpected EOF, expected '}'")
		}
		if err := ip.statement(execute); err != nil {
			return err
		}
	}
	return ip.lexer.Match(TokenKind('}'))
}

// varStatement parses `var name[.name…] [= expr] [, …];`. The dotted form
// creates a child within an already-existing object rather than declaring
// a new scope variable.
func (ip *Interpreter) varStatement(execute *bool) error {
	if err := ip.lexer.Match(kwVar); err != nil {
		return err
	}
	for {
		if ip.lexer.Cur.Kind != tokID {
			return newSyntaxError(curPos(ip), "expected identifier after var, got %s", ip.lexer.Cur)
		}
		path := []string{ip.lexer.Cur.Payload}
		ip.lexer.Advance()
		for ip.lexer.Cur.Kind == TokenKind('.') {
			ip.lexer.Advance()
			if ip.lexer.Cur.Kind != tokID {
				return newSyntaxError(curPos(ip), "expected identifier after '.', got %s", ip.lexer.Cur)
			}
			path = append(path, ip.lexer.Cur.Payload)
			ip.lexer.Advance()
		}

		var initLink *ValueLink
		hasInit := false
		if ip.lexer.Cur.Kind == TokenKind('=') {
			ip.lexer.Advance()
			hasInit = true
			var err error
			initLink, err = ip.base(execute)
			if err != nil {
				return err
			}
		}

		if *execute {
			var initVal *Value
			if hasInit {
				initVal = initLink.val
			} else {
				initVal = NewUndefined()
			}
			if len(path) == 1 {
				ip.scopes.Top().AddChildNoDup(path[0], initVal)
			} else {
				base := ip.scopes.FindInScopes(path[0])
				if base == nil {
					return newNameError(curPos(ip), "%s is not defined", path[0])
				}
				cur := base.val
				for i := 1; i < len(path)-1; i++ {
					link := cur.FindChildOrCreate(path[i], flagUndefined)
					if link.val.IsUndefined() {
						link.val.SetObject()
					}
					cur = link.val
				}
				cur.AddChildNoDup(path[len(path)-1], initVal)
			}
		}
		if hasInit {
			releaseIfTemp(initLink)
		}

		if ip.lexer.Cur.Kind == TokenKind(',') {
			ip.lexer.Advance()
			continue
		}
		break
	}
	return ip.lexer.Match(TokenKind(';'))
}

func (ip *Interpreter) ifStatement(execute *bool) error {
	if err := ip.lexer.Match(kwIf); err != nil {
		return err
	}
	if err := ip.lexer.Match(TokenKind('(')); err != nil {
		return err
	}
	condLink, err := ip.base(execute)
	if err != nil {
		return err
	}
	condTrue := *execute && condLink.val.GetBool()
	releaseIfTemp(condLink)
	if err := ip.lexer.Match(TokenKind(')')); err != nil {
		return err
	}

	// The taken branch runs with the real execute pointer, so a return
	// inside it clears the caller's gate too; the untaken branch gets a
	// throwaway noexecute so it parses without running and without
	// touching the caller's gate.
	noexecute := false
	thenGate := &noexecute
	if condTrue {
		thenGate = execute
	}
	if err := ip.statement(thenGate); err != nil {
		return err
	}
	if ip.lexer.Cur.Kind == kwElse {
		ip.lexer.Advance()
		elseGate := &noexecute
		if *execute && !condTrue {
			elseGate = execute
		}
		if err := ip.statement(elseGate); err != nil {
			return err
		}
	}
	return nil
}

// whileStatement parses `while (cond) body`. The condition and body source
// ranges are captured once (which, when the gate is already closed, is
// itself the entire skip) and then replayed through fresh sub-lexers for
// each real iteration.
func (ip *Interpreter) whileStatement(execute *bool) error {
	if err := ip.lexer.Match(kwWhile); err != nil {
		return err
	}
	if err := ip.lexer.Match(TokenKind('(')); err != nil {
		return err
	}
	condStart := ip.lexer.Pos()
	dry := false
	if _, err := ip.base(&dry); err != nil {
		return err
	}
	condSrc := ip.lexer.GetSubString(condStart)
	if err := ip.lexer.Match(TokenKind(')')); err != nil {
		return err
	}

	bodyStart := ip.lexer.Pos()
	if err := ip.statement(&dry); err != nil {
		return err
	}
	bodySrc := ip.lexer.GetSubString(bodyStart)

	if !*execute {
		return nil
	}

	for iter := 0; ; iter++ {
		if iter >= ip.MaxIterations {
			return newLoopError(curPos(ip))
		}
		condLink, err := ip.evalSub(condSrc, ip.base)
		if err != nil {
			return err
		}
		truthy := condLink.val.GetBool()
		releaseIfTemp(condLink)
		if !truthy {
			break
		}
		if err := ip.execSub(bodySrc, execute, ip.statement); err != nil {
			return err
		}
		if !*execute {
			break
		}
	}
	return nil
}

// forStatement parses `for (init; cond; step) body`. init runs once, in
// the enclosing scope, gated by the real execute flag; cond/step/body are
// captured and replayed per iteration like whileStatement.
func (ip *Interpreter) forStatement(execute *bool) error {
	if err := ip.lexer.Match(kwFor); err != nil {
		return err
	}
	if err := ip.lexer.Match(TokenKind('(')); err != nil {
		return err
	}

	if ip.lexer.Cur.Kind == kwVar {
		if err := ip.varStatement(execute); err != nil {
			return err
		}
	} else {
		if ip.lexer.Cur.Kind != TokenKind(';') {
			initLink, err := ip.base(execute)
			if err != nil {
				return err
			}
			releaseIfTemp(initLink)
		}
		if err := ip.lexer.Match(TokenKind(';')); err != nil {
			return err
		}
	}

	condSrc := ""
	dry := false
	if ip.lexer.Cur.Kind != TokenKind(';') {
		condStart := ip.lexer.Pos()
		if _, err := ip.base(&dry); err != nil {
			return err
		}
		condSrc = ip.lexer.GetSubString(condStart)
	}
	if err := ip.lexer.Match(TokenKind(';')); err != nil {
		return err
	}

	stepSrc := ""
	if ip.lexer.Cur.Kind != TokenKind(')') {
		stepStart := ip.lexer.Pos()
		if _, err := ip.base(&dry); err != nil {
			return err
		}
		stepSrc = ip.lexer.GetSubString(stepStart)
	}
	if err := ip.lexer.Match(TokenKind(')')); err != nil {
		return err
	}

	bodyStart := ip.lexer.Pos()
	if err := ip.statement(&dry); err != nil {
		return err
	}
	bodySrc := ip.lexer.GetSubString(bodyStart)

	if !*execute {
		return nil
	}

	for iter := 0; ; iter++ {
		if iter >= ip.MaxIterations {
			return newLoopError(curPos(ip))
		}
		if condSrc != "" {
			condLink, err := ip.evalSub(condSrc, ip.base)
			if err != nil {
				return err
			}
			truthy := condLink.val.GetBool()
			releaseIfTemp(condLink)
			if !truthy {
				break
			}
		}
		if err := ip.execSub(bodySrc, execute, ip.statement); err != nil {
			return err
		}
		if !*execute {
			break
		}
		if stepSrc != "" {
			stepLink, err := ip.evalSub(stepSrc, ip.base)
			if err != nil {
				return err
			}
			releaseIfTemp(stepLink)
		}
	}
	return nil
}

// evalSub runs prod over a fresh sub-lexer for src with the gate open,
// returning its result link exactly as a normal call to prod would (the
// caller is responsible for releaseIfTemp).
func (ip *Interpreter) evalSub(src string, prod func(*bool) (*ValueLink, error)) (*ValueLink, error) {
	saved := ip.lexer
	ip.lexer = NewLexer(src)
	defer func() { ip.lexer = saved }()

	execute := true
	return prod(&execute)
}

// execSub runs a statement-shaped prod over a fresh sub-lexer for src,
// threading the caller's own execute gate through rather than a fresh
// local: a return inside the body must clear the loop's gate too, so the
// loop can stop iterating instead of discarding the return and continuing.
func (ip *Interpreter) execSub(src string, execute *bool, prod func(*bool) error) error {
	saved := ip.lexer
	ip.lexer = NewLexer(src)
	defer func() { ip.lexer = saved }()

	return prod(execute)
}

// returnStatement parses `return [expr];`, writing expr's value into the
// innermost scope's `return` slot (the active call frame) and clearing the
// execute gate so sibling statements in the same block parse without
// running.
func (ip *Interpreter) returnStatement(execute *bool) error {
	if err := ip.lexer.Match(kwReturn); err != nil {
		return err
	}
	if ip.lexer.Cur.Kind != TokenKind(';') {
		valLink, err := ip.base(execute)
		if err != nil {
			return err
		}
		if *execute {
			ip.scopes.Top().AddChildNoDup("return", valLink.val)
		}
		releaseIfTemp(valLink)
	}
	if ip.lexer.Cur.Kind == TokenKind(';') {
		ip.lexer.Advance()
	}
	*execute = false
	return nil
}

func (ip *Interpreter) functionDeclStatement(execute *bool) error {
	name, params, body, err := ip.parseFunctionLiteral(execute, true)
	if err != nil {
		return err
	}
	if *execute {
		fn := NewFunction(body)
		for _, p := range params {
			fn.AddChild(p, NewUndefined())
		}
		ip.scopes.Top().AddChildNoDup(name, fn)
	}
	return nil
}
