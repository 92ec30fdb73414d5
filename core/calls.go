package core

// callFunction parses `(args)` against an already-resolved callee and
// invokes it, binding receiver (if any) as `this`. Basic argument values
// are deep-copied into the frame; composite values are shared by
// reference/§4.4.
func (ip *Interpreter) callFunction(execute *bool, calleeLink *ValueLink, receiver *Value) (*ValueLink, error) {
	if err := ip.lexer.Match(TokenKind('(')); err != nil {
		return nil, err
	}
	var argLinks []*ValueLink
	for ip.lexer.Cur.Kind != TokenKind(')') {
		a, err := ip.base(execute)
		if err != nil {
			releaseAll(argLinks)
			return nil, err
		}
		argLinks = append(argLinks, a)
		if ip.lexer.Cur.Kind == TokenKind(',') {
			ip.lexer.Advance()
			continue
		}
		break
	}
	if err := ip.lexer.Match(TokenKind(')')); err != nil {
		releaseAll(argLinks)
		return nil, err
	}

	if !*execute {
		releaseAll(argLinks)
		return temp(NewUndefined()), nil
	}

	fn := calleeLink.val
	if !fn.IsFunction() {
		releaseAll(argLinks)
		return nil, newTypeError(curPos(ip), "%s is not a function", calleeLink.name)
	}

	frame := NewObject().Retain()
	if receiver != nil {
		frame.AddChild("this", receiver)
	}
	if err := ip.callOnFrame(fn, frame, argLinks, calleeLink.name); err != nil {
		frame.Release()
		return nil, err
	}
	result := temp(frame.GetReturnVar())
	frame.Release()
	return result, nil
}

// invokeCall is the `new` expression's equivalent of callFunction: thisObj
// is bound as the receiver and the return value is discarded by the
// caller (it already holds thisObj).
func (ip *Interpreter) invokeCall(fn *Value, thisObj *Value, argLinks []*ValueLink, name string) error {
	frame := NewObject().Retain()
	frame.AddChild("this", thisObj)
	err := ip.callOnFrame(fn, frame, argLinks, name)
	frame.Release()
	return err
}

// callOnFrame binds argLinks to fn's declared parameters (in order) onto
// frame, releases them, then dispatches to the native or script body.
// Errors are annotated with one Frame for this call level as they unwind.
func (ip *Interpreter) callOnFrame(fn *Value, frame *Value, argLinks []*ValueLink, name string) error {
	i := 0
	for pl := fn.firstChild; pl != nil; pl = pl.next {
		if i < len(argLinks) {
			argVal := argLinks[i].val
			if argVal.IsBasic() {
				frame.AddChildNoDup(pl.name, argVal.DeepCopy())
			} else {
				frame.AddChildNoDup(pl.name, argVal)
			}
		}
		i++
	}
	releaseAll(argLinks)

	var callErr error
	if fn.IsNative() {
		callErr = ip.invokeNative(fn, frame)
	} else {
		callErr = ip.invokeScriptFunction(fn, frame)
	}
	if callErr == nil {
		return nil
	}
	if se, ok := callErr.(*ScriptError); ok {
		return se.WithFrame(Frame{Name: name, Pos: curPos(ip)})
	}
	return callErr
}

// invokeScriptFunction re-lexes fn's captured body source and executes it
// with frame pushed as the innermost scope/§5.
func (ip *Interpreter) invokeScriptFunction(fn *Value, frame *Value) error {
	savedLexer := ip.lexer
	ip.lexer = NewLexer(fn.strVal)
	ip.scopes.Push(frame)
	defer func() {
		ip.scopes.Pop()
		ip.lexer = savedLexer
	}()

	execute := true
	for ip.lexer.Cur.Kind != EOF {
		if err := ip.statement(&execute); err != nil {
			return err
		}
	}
	return nil
}

func releaseAll(links []*ValueLink) {
	for _, l := range links {
		releaseIfTemp(l)
	}
}
