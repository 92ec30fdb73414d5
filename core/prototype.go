package core

// memberAccess resolves `a.name`: a direct child, then the
// synthetic `length` member for STRING/ARRAY, then the `prototype` chain,
// then the built-in class object for a's type, then autovivification of a
// fresh UNDEFINED child (write-through, enabling `a.b = …`).
func (ip *Interpreter) memberAccess(obj *Value, name string) *ValueLink {
	if l := obj.FindChild(name); l != nil {
		return l
	}

	if name == "length" {
		switch {
		case obj.IsArray():
			return temp(NewInt(int64(obj.GetArrayLength())))
		case obj.IsString():
			return temp(NewInt(int64(len(obj.GetString()))))
		}
	}

	for proto := obj; ; {
		protoLink := proto.FindChild("prototype")
		if protoLink == nil {
			break
		}
		proto = protoLink.val
		if l := proto.FindChild(name); l != nil {
			return l
		}
	}

	if l := ip.classFor(obj).FindChild(name); l != nil {
		return l
	}

	return obj.FindChildOrCreate(name, flagUndefined)
}
