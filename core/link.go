package core

import (
	"strconv"
	"strings"
)

// ValueLink is a named edge from a parent Value to a child Value. owned is
// true when the link is a member of some Value's child list; false when it
// is a temporary produced by expression evaluation and must be released by
// the caller.
type ValueLink struct {
	name string
	val  *Value

	owned  bool
	parent *Value
	next   *ValueLink
	prev   *ValueLink
}

// newLink builds a link to val, retaining val on the caller's behalf. It
// backs both the addChild-family helpers (owned == true) and the unowned
// temporaries expression productions return (owned == false).
func newLink(name string, val *Value, owned bool) *ValueLink {
	val.Retain()
	return &ValueLink{name: name, val: val, owned: owned}
}

func (l *ValueLink) Name() string { return l.name }
func (l *ValueLink) Value() *Value { return l.val }
func (l *ValueLink) Owned() bool   { return l.owned }

// Release drops the link's strong reference. Call this on every ValueLink
// a production returns with owned == false once the caller is done with it.
func (l *ValueLink) Release() {
	if l.val != nil {
		l.val.Release()
		l.val = nil
	}
}

// Replace swaps the link's target for a new Value, releasing the old one.
// Used by assignment (`=`, `+=`, `-=`) and postfix `++`/`--`.
func (l *ValueLink) Replace(nv *Value) {
	nv.Retain()
	old := l.val
	l.val = nv
	if old != nil {
		old.Release()
	}
}

// --- parent-side child list operations -----------------------------------

// FindChild performs a linear scan over the child list for the first match,
// or nil. A name index is maintained for the common (non-duplicate) case so
// this resolves in O(1) amortized; ties break toward the earliest-inserted
// link, matching a true linear scan.
func (v *Value) FindChild(name string) *ValueLink {
	if v.byName != nil {
		if l, ok := v.byName[name]; ok {
			return l
		}
	}
	for l := v.firstChild; l != nil; l = l.next {
		if l.name == name {
			return l
		}
	}
	return nil
}

func (v *Value) appendLink(l *ValueLink) {
	l.owned = true
	l.parent = v
	l.prev = v.lastChild
	if v.lastChild != nil {
		v.lastChild.next = l
	} else {
		v.firstChild = l
	}
	v.lastChild = l
	if v.byName == nil {
		v.byName = make(map[string]*ValueLink)
	}
	if _, exists := v.byName[l.name]; !exists {
		v.byName[l.name] = l
	}
}

// AddChild appends a new owned link. If v was UNDEFINED, it is promoted to
// OBJECT (autovivification).
func (v *Value) AddChild(name string, child *Value) *ValueLink {
	if v.IsUndefined() {
		v.SetObject()
	}
	l := newLink(name, child, true)
	v.appendLink(l)
	return l
}

// AddChildNoDup replaces an existing same-named child's target in place, or
// appends a new one. Used by object-literal and `var` semantics where a
// later entry overwrites an earlier one.
func (v *Value) AddChildNoDup(name string, child *Value) *ValueLink {
	if l := v.FindChild(name); l != nil {
		l.Replace(child)
		return l
	}
	return v.AddChild(name, child)
}

// FindChildOrCreate finds name, or appends a fresh child of the given type
// flags (e.g. flagUndefined) and returns its link.
func (v *Value) FindChildOrCreate(name string, flags Flag) *ValueLink {
	if l := v.FindChild(name); l != nil {
		return l
	}
	return v.AddChild(name, newValue(flags))
}

// FindChildOrCreateByPath walks a dotted path ("a.b.c"), creating
// intermediate OBJECT values as needed.
func (v *Value) FindChildOrCreateByPath(path string) *ValueLink {
	parts := strings.Split(path, ".")
	cur := v
	var link *ValueLink
	for i, part := range parts {
		link = cur.FindChildOrCreate(part, flagUndefined)
		if i < len(parts)-1 {
			if link.val.IsUndefined() {
				link.val.SetObject()
			}
			cur = link.val
		}
	}
	return link
}

// RemoveLink unlinks l from its parent's child list in O(1) and releases
// its reference.
func (v *Value) RemoveLink(l *ValueLink) {
	if l.prev != nil {
		l.prev.next = l.next
	} else {
		v.firstChild = l.next
	}
	if l.next != nil {
		l.next.prev = l.prev
	} else {
		v.lastChild = l.prev
	}
	if v.byName != nil && v.byName[l.name] == l {
		delete(v.byName, l.name)
		// restore the index to the next surviving link with this name, if any.
		for scan := v.firstChild; scan != nil; scan = scan.next {
			if scan.name == l.name {
				v.byName[l.name] = scan
				break
			}
		}
	}
	l.prev, l.next, l.parent = nil, nil, nil
	l.owned = false
	l.Release()
}

// --- array-indexed children ------------------------------------------------

// GetArrayIndex returns the value at decimal index i, or a fresh NULL value
// if absent (not UNDEFINED — a preserved oddity of the language this is
// modeled on).
func (v *Value) GetArrayIndex(i int) *Value {
	if l := v.FindChild(strconv.Itoa(i)); l != nil {
		return l.val
	}
	return NewNull()
}

// SetArrayIndex sets index i to nv; setting UNDEFINED removes the slot.
func (v *Value) SetArrayIndex(i int, nv *Value) {
	name := strconv.Itoa(i)
	if nv.IsUndefined() {
		if l := v.FindChild(name); l != nil {
			v.RemoveLink(l)
		}
		return
	}
	v.AddChildNoDup(name, nv)
}

// GetArrayLength returns 1 + the maximum decimal-integer child name, or 0.
func (v *Value) GetArrayLength() int {
	max := -1
	for l := v.firstChild; l != nil; l = l.next {
		if n, err := strconv.Atoi(l.name); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// --- copying ---------------------------------------------------------------

// DeepCopy returns a fresh, refs==0 structural copy of v. A child named
// "prototype" is shared by reference, not cloned.
func (v *Value) DeepCopy() *Value {
	nv := newValue(v.flags)
	nv.intVal, nv.dblVal, nv.strVal, nv.strCached = v.intVal, v.dblVal, v.strVal, v.strCached
	nv.nativeFn, nv.nativeData = v.nativeFn, v.nativeData
	for l := v.firstChild; l != nil; l = l.next {
		if l.name == "prototype" {
			nv.AddChild(l.name, l.val)
			continue
		}
		nv.AddChild(l.name, l.val.DeepCopy())
	}
	return nv
}

// CopyValue is DeepCopy performed in place on v (its old children released).
func (v *Value) CopyValue(other *Value) {
	copy := other.DeepCopy()
	v.destroy()
	v.flags = copy.flags
	v.intVal, v.dblVal, v.strVal, v.strCached = copy.intVal, copy.dblVal, copy.strVal, copy.strCached
	v.nativeFn, v.nativeData = copy.nativeFn, copy.nativeData
	v.firstChild, v.lastChild, v.byName = copy.firstChild, copy.lastChild, copy.byName
	for l := v.firstChild; l != nil; l = l.next {
		l.parent = v
	}
}
