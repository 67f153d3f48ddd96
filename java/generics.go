package java

import "github.com/dhamidi/classgraph/classfile"

// typeScope is a chain of declared type variables, innermost first.
type typeScope struct {
	vars []*TypeVariable
	next *typeScope
}

func (s *typeScope) find(name string) *TypeVariable {
	for ; s != nil; s = s.next {
		for _, tv := range s.vars {
			if tv.name == name {
				return tv
			}
		}
	}
	return nil
}

func (cp *Completer) classScope(c *Class) *typeScope {
	if c == nil {
		return nil
	}
	cp.Hierarchy(c)
	if c.enclosingClass != nil {
		cp.TypeParameters(c.enclosingClass)
	}
	return &typeScope{vars: c.typeParameters, next: cp.classScope(c.enclosingClass)}
}

// declare creates the variables without bounds so that bounds can refer to
// any of them, including the variable itself.
func (cp *Completer) declare(owner TypeParameterOwner, sigs []classfile.TypeParameterSig) []*TypeVariable {
	if len(sigs) == 0 {
		return nil
	}
	vars := make([]*TypeVariable, len(sigs))
	for i, s := range sigs {
		vars[i] = &TypeVariable{name: s.Name, owner: owner}
	}
	return vars
}

func (cp *Completer) bind(vars []*TypeVariable, sigs []classfile.TypeParameterSig, scope *typeScope) {
	for i := range sigs {
		for _, b := range sigs[i].Bounds() {
			vars[i].bounds = append(vars[i].bounds, cp.convert(b, scope))
		}
	}
	for _, tv := range vars {
		cp.erase(tv)
	}
}

func (cp *Completer) object() *Class {
	return cp.lookup.GetOrResolve(ObjectClassName)
}

func (cp *Completer) convert(sig classfile.TypeSig, scope *typeScope) Type {
	switch s := sig.(type) {
	case *classfile.BaseTypeSig:
		return cp.lookup.GetOrResolve(s.Name)
	case *classfile.TypeVarSig:
		if tv := scope.find(s.Name); tv != nil {
			return tv
		}
		log.Debugf("type variable %s is not in scope, creating a stub", s.Name)
		return &TypeVariable{name: s.Name, stub: true, erasure: cp.object()}
	case *classfile.ArrayTypeSig:
		component := cp.convert(s.Component, scope)
		if c, ok := component.(*Class); ok {
			return cp.lookup.GetOrResolve(c.name + "[]")
		}
		return &GenericArrayType{component: component}
	case *classfile.ClassTypeSig:
		return cp.convertClass(s, scope)
	}
	return cp.object()
}

func (cp *Completer) convertClass(s *classfile.ClassTypeSig, scope *typeScope) Type {
	raw := cp.lookup.GetOrResolve(s.Name)
	var owner Type
	if s.Owner != nil {
		owner = cp.convertClass(s.Owner, scope)
	}
	_, ownerParameterized := owner.(*ParameterizedType)
	if len(s.Args) == 0 && !ownerParameterized {
		return raw
	}
	pt := &ParameterizedType{raw: raw}
	if ownerParameterized {
		pt.owner = owner
	}
	for _, a := range s.Args {
		pt.args = append(pt.args, cp.convertArgument(a, scope))
	}
	return pt
}

func (cp *Completer) convertArgument(a classfile.TypeArgSig, scope *typeScope) Type {
	switch a.Wildcard {
	case classfile.WildcardAny:
		return &WildcardType{erasure: cp.object()}
	case classfile.WildcardExtends:
		return &WildcardType{upper: []Type{cp.convert(a.Type, scope)}, erasure: cp.object()}
	case classfile.WildcardSuper:
		return &WildcardType{lower: []Type{cp.convert(a.Type, scope)}, erasure: cp.object()}
	}
	return cp.convert(a.Type, scope)
}

// erase fills in the erasures of t and everything it contains once all
// bounds are known.
func (cp *Completer) erase(t Type) *Class {
	switch t := t.(type) {
	case *Class:
		return t
	case *TypeVariable:
		if t.erasure != nil {
			return t.erasure
		}
		t.erasure = cp.object()
		if len(t.bounds) > 0 {
			t.erasure = cp.erase(t.bounds[0])
			for _, b := range t.bounds[1:] {
				cp.erase(b)
			}
		}
		return t.erasure
	case *ParameterizedType:
		for _, a := range t.args {
			cp.erase(a)
		}
		if t.owner != nil {
			cp.erase(t.owner)
		}
		return t.raw
	case *WildcardType:
		for _, b := range t.upper {
			cp.erase(b)
		}
		for _, b := range t.lower {
			cp.erase(b)
		}
		return t.Erasure()
	case *GenericArrayType:
		if t.erasure == nil {
			t.erasure = cp.lookup.GetOrResolve(cp.erase(t.component).name + "[]")
		}
		return t.erasure
	}
	return nil
}
