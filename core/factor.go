package core

import "strconv"

// factor parses a primary value followed by zero or more `.name`, `[expr]`,
// and `(args)` suffixes. A receiver is tracked across `.`/`[]` suffixes so
// that an immediately following call binds `this` to the object that was
// just navigated out of.
func (ip *Interpreter) factor(execute *bool) (*ValueLink, error) {
	link, err := ip.primary(execute)
	if err != nil {
		return nil, err
	}

	var receiver *Value
	setReceiver := func(v *Value) {
		if v != nil {
			v.Retain()
		}
		if receiver != nil {
			receiver.Release()
		}
		receiver = v
	}
	defer setReceiver(nil)
	for {
		switch ip.lexer.Cur.Kind {
		case TokenKind('.'):
			ip.lexer.Advance()
			if ip.lexer.Cur.Kind != tokID {
				return nil, newSyntaxError(curPos(ip), "expected member name after '.', got %s", ip.lexer.Cur)
			}
			name := ip.lexer.Cur.Payload
			ip.lexer.Advance()
			if !*execute {
				releaseIfTemp(link)
				link = temp(NewUndefined())
				setReceiver(nil)
				continue
			}
			setReceiver(link.val)
			next := ip.memberAccess(link.val, name)
			releaseIfTemp(link)
			link = next

		case TokenKind('['):
			ip.lexer.Advance()
			idxLink, err := ip.base(execute)
			if err != nil {
				releaseIfTemp(link)
				return nil, err
			}
			if err := ip.lexer.Match(TokenKind(']')); err != nil {
				releaseIfTemp(link)
				releaseIfTemp(idxLink)
				return nil, err
			}
			if !*execute {
				releaseIfTemp(idxLink)
				releaseIfTemp(link)
				link = temp(NewUndefined())
				setReceiver(nil)
				continue
			}
			setReceiver(link.val)
			next := link.val.FindChildOrCreate(idxLink.val.GetString(), flagUndefined)
			releaseIfTemp(idxLink)
			releaseIfTemp(link)
			link = next

		case TokenKind('('):
			result, err := ip.callFunction(execute, link, receiver)
			releaseIfTemp(link)
			if err != nil {
				return nil, err
			}
			link = result
			setReceiver(nil)

		default:
			return link, nil
		}
	}
}

func (ip *Interpreter) primary(execute *bool) (*ValueLink, error) {
	tok := ip.lexer.Cur
	switch tok.Kind {
	case tokInt:
		ip.lexer.Advance()
		n, _ := strconv.ParseInt(tok.Payload, 0, 64)
		return temp(NewInt(n)), nil
	case tokFloat:
		ip.lexer.Advance()
		f, _ := strconv.ParseFloat(tok.Payload, 64)
		return temp(NewDouble(f)), nil
	case tokStr:
		ip.lexer.Advance()
		return temp(NewString(tok.Payload)), nil
	case kwTrue:
		ip.lexer.Advance()
		return temp(NewBool(true)), nil
	case kwFalse:
		ip.lexer.Advance()
		return temp(NewBool(false)), nil
	case kwNull:
		ip.lexer.Advance()
		return temp(NewNull()), nil
	case kwUndefined:
		ip.lexer.Advance()
		return temp(NewUndefined()), nil
	case TokenKind('('):
		ip.lexer.Advance()
		inner, err := ip.base(execute)
		if err != nil {
			return nil, err
		}
		if err := ip.lexer.Match(TokenKind(')')); err != nil {
			releaseIfTemp(inner)
			return nil, err
		}
		return inner, nil
	case TokenKind('{'):
		return ip.objectLiteral(execute)
	case TokenKind('['):
		return ip.arrayLiteral(execute)
	case kwFunction:
		return ip.functionLiteral(execute)
	case kwNew:
		return ip.newExpression(execute)
	case tokID:
		ip.lexer.Advance()
		if !*execute {
			return temp(NewUndefined()), nil
		}
		if l := ip.scopes.FindInScopes(tok.Payload); l != nil {
			return l, nil
		}
		return newLink(tok.Payload, NewUndefined(), false), nil
	}
	return nil, newSyntaxError(Position{Line: tok.Line, Col: tok.Col}, "unexpected %s", tok)
}

// objectLiteral parses `{ key: expr, … }`.
func (ip *Interpreter) objectLiteral(execute *bool) (*ValueLink, error) {
	if err := ip.lexer.Match(TokenKind('{')); err != nil {
		return nil, err
	}
	var obj *Value
	if *execute {
		obj = NewObject()
	}
	for ip.lexer.Cur.Kind != TokenKind('}') {
		var key string
		switch ip.lexer.Cur.Kind {
		case tokID:
			key = ip.lexer.Cur.Payload
		case tokStr:
			key = ip.lexer.Cur.Payload
		default:
			return nil, newSyntaxError(curPos(ip), "expected property name, got %s", ip.lexer.Cur)
		}
		ip.lexer.Advance()
		if err := ip.lexer.Match(TokenKind(':')); err != nil {
			return nil, err
		}
		valLink, err := ip.base(execute)
		if err != nil {
			return nil, err
		}
		if *execute {
			obj.AddChildNoDup(key, valLink.val)
		}
		releaseIfTemp(valLink)
		if ip.lexer.Cur.Kind == TokenKind(',') {
			ip.lexer.Advance()
			continue
		}
		break
	}
	if err := ip.lexer.Match(TokenKind('}')); err != nil {
		return nil, err
	}
	if !*execute {
		return temp(NewUndefined()), nil
	}
	return temp(obj), nil
}

// arrayLiteral parses `[ expr, … ]`, assigning decimal-string indices.
func (ip *Interpreter) arrayLiteral(execute *bool) (*ValueLink, error) {
	if err := ip.lexer.Match(TokenKind('[')); err != nil {
		return nil, err
	}
	var arr *Value
	if *execute {
		arr = NewArray()
	}
	idx := 0
	for ip.lexer.Cur.Kind != TokenKind(']') {
		valLink, err := ip.base(execute)
		if err != nil {
			return nil, err
		}
		if *execute {
			arr.AddChildNoDup(strconv.Itoa(idx), valLink.val)
			idx++
		}
		releaseIfTemp(valLink)
		if ip.lexer.Cur.Kind == TokenKind(',') {
			ip.lexer.Advance()
			continue
		}
		break
	}
	if err := ip.lexer.Match(TokenKind(']')); err != nil {
		return nil, err
	}
	if !*execute {
		return temp(NewUndefined()), nil
	}
	return temp(arr), nil
}

// parseFunctionLiteral parses `function [name](params) { body }`, used by
// both the statement-level declaration (name required) and the
// expression-level function literal (name optional).
func (ip *Interpreter) parseFunctionLiteral(execute *bool, requireName bool) (name string, params []string, body string, err error) {
	if err = ip.lexer.Match(kwFunction); err != nil {
		return
	}
	if ip.lexer.Cur.Kind == tokID {
		name = ip.lexer.Cur.Payload
		ip.lexer.Advance()
	} else if requireName {
		err = newSyntaxError(curPos(ip), "expected function name, got %s", ip.lexer.Cur)
		return
	}
	if err = ip.lexer.Match(TokenKind('(')); err != nil {
		return
	}
	for ip.lexer.Cur.Kind != TokenKind(')') {
		if ip.lexer.Cur.Kind != tokID {
			err = newSyntaxError(curPos(ip), "expected parameter name, got %s", ip.lexer.Cur)
			return
		}
		params = append(params, ip.lexer.Cur.Payload)
		ip.lexer.Advance()
		if ip.lexer.Cur.Kind == TokenKind(',') {
			ip.lexer.Advance()
			continue
		}
		break
	}
	if err = ip.lexer.Match(TokenKind(')')); err != nil {
		return
	}
	if err = ip.lexer.Match(TokenKind('{')); err != nil {
		return
	}
	body, err = ip.lexer.CaptureBody()
	if err != nil {
		return
	}
	err = ip.lexer.Match(TokenKind('}'))
	return
}

func (ip *Interpreter) functionLiteral(execute *bool) (*ValueLink, error) {
	name, params, body, err := ip.parseFunctionLiteral(execute, false)
	if err != nil {
		return nil, err
	}
	if !*execute {
		return temp(NewUndefined()), nil
	}
	fn := NewFunction(body)
	for _, p := range params {
		fn.AddChild(p, NewUndefined())
	}
	return newLink(name, fn, false), nil
}

// newExpression parses `new className[(args)]`: if
// className resolves to a function, a fresh OBJECT is bound as `this` and
// the function is called for effect (its return value discarded); if it
// resolves to anything else, the fresh object's `prototype` child shares
// that value by reference; if className does not resolve in any scope, no
// error is raised or reported and the expression yields UNDEFINED.
func (ip *Interpreter) newExpression(execute *bool) (*ValueLink, error) {
	if err := ip.lexer.Match(kwNew); err != nil {
		return nil, err
	}
	if ip.lexer.Cur.Kind != tokID {
		return nil, newSyntaxError(curPos(ip), "expected class name after new, got %s", ip.lexer.Cur)
	}
	name := ip.lexer.Cur.Payload
	ip.lexer.Advance()

	var ctor *ValueLink
	if *execute {
		ctor = ip.scopes.FindInScopes(name)
	}

	var argLinks []*ValueLink
	if ip.lexer.Cur.Kind == TokenKind('(') {
		ip.lexer.Advance()
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
	}

	if !*execute {
		return temp(NewUndefined()), nil
	}

	if ctor == nil {
		releaseAll(argLinks)
		return temp(NewUndefined()), nil
	}

	obj := NewObject().Retain()
	if ctor.val.IsFunction() {
		if err := ip.invokeCall(ctor.val, obj, argLinks, name); err != nil {
			obj.Release()
			return nil, err
		}
	} else {
		releaseAll(argLinks)
		obj.AddChild("prototype", ctor.val)
	}
	result := temp(obj)
	obj.Release()
	return result, nil
}
