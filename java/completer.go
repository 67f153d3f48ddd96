package java

import (
	"github.com/dhamidi/classgraph/classfile"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("classgraph.java")

// Lookup hands out the one node for a type name, resolving or stubbing it
// when it is not known yet.
type Lookup interface {
	GetOrResolve(name string) *Class
}

// Completer fills in the parts of a class that refer to other classes.
// Every step runs at most once per class; calling it again is a no-op.
type Completer struct {
	lookup Lookup
}

func NewCompleter(lookup Lookup) *Completer {
	return &Completer{lookup: lookup}
}

// Hierarchy links superclass, interfaces and enclosing class.
func (cp *Completer) Hierarchy(c *Class) {
	if c.done&stepHierarchy != 0 {
		return
	}
	c.done |= stepHierarchy
	rec := c.record
	if rec.SuperName != "" && !c.IsInterface() {
		c.superclass = cp.lookup.GetOrResolve(rec.SuperName)
	}
	seen := map[*Class]bool{}
	for _, name := range rec.InterfaceNames {
		iface := cp.lookup.GetOrResolve(name)
		if !seen[iface] {
			seen[iface] = true
			c.interfaces = append(c.interfaces, iface)
		}
	}
	if rec.EnclosingClass != "" {
		c.enclosingClass = cp.lookup.GetOrResolve(rec.EnclosingClass)
	}
}

// TypeParameters builds the class type parameters and the generic
// supertypes from the class signature. Type parameters of enclosing
// classes are completed first so inner classes can refer to them.
func (cp *Completer) TypeParameters(c *Class) {
	if c.done&(stepTypeParameters|stepTypeParametersRunning) != 0 {
		return
	}
	c.done |= stepTypeParametersRunning
	defer func() {
		c.done = c.done&^stepTypeParametersRunning | stepTypeParameters
	}()

	cp.Hierarchy(c)
	if c.record.Signature == "" {
		return
	}
	sig, err := classfile.ParseClassSignature(c.record.Signature)
	if err != nil {
		log.Warningf("%s: ignoring generic signature: %v", c.name, err)
		return
	}

	c.typeParameters = cp.declare(c, sig.TypeParameters)
	scope := cp.classScope(c)
	cp.bind(c.typeParameters, sig.TypeParameters, scope)

	if sig.Superclass != nil && c.superclass != nil {
		if t := cp.convert(sig.Superclass, scope); !isClass(t) {
			c.genericSuperclass = t
		}
	}
	if len(sig.Interfaces) == len(c.interfaces) {
		generic := make([]Type, len(sig.Interfaces))
		parameterized := false
		for i, s := range sig.Interfaces {
			generic[i] = cp.convert(s, scope)
			parameterized = parameterized || !isClass(generic[i])
		}
		if parameterized {
			c.genericInterfaces = generic
		}
	}
	cp.erase(c.genericSuperclass)
	for _, t := range c.genericInterfaces {
		cp.erase(t)
	}
}

// Members creates fields, methods, constructors and the static initializer.
func (cp *Completer) Members(c *Class) {
	if c.done&stepMembers != 0 {
		return
	}
	c.done |= stepMembers
	cp.TypeParameters(c)
	scope := cp.classScope(c)

	for i := range c.record.Fields {
		c.fields = append(c.fields, cp.field(c, &c.record.Fields[i], scope))
	}
	for i := range c.record.Methods {
		u := cp.codeUnit(c, &c.record.Methods[i], scope)
		switch u.kind {
		case CodeUnitConstructor:
			c.constructors = append(c.constructors, u)
		case CodeUnitStaticInitializer:
			c.staticInitializer = u
		default:
			c.methods = append(c.methods, u)
		}
	}
}

func (cp *Completer) field(c *Class, rec *classfile.FieldRecord, scope *typeScope) *Field {
	f := &Field{
		owner:      c,
		name:       rec.Name,
		descriptor: rec.Descriptor,
		modifiers:  modifiersOf(rec.AccessFlags, targetField),
	}
	typeName := classfile.DescriptorTypeName(rec.Descriptor)
	if typeName == "" {
		log.Warningf("%s.%s: malformed descriptor %q", c.name, rec.Name, rec.Descriptor)
		typeName = ObjectClassName
	}
	f.rawType = cp.lookup.GetOrResolve(typeName)
	if rec.Signature != "" {
		sig, err := classfile.ParseFieldSignature(rec.Signature)
		if err != nil {
			log.Warningf("%s.%s: ignoring generic signature: %v", c.name, rec.Name, err)
		} else if t := cp.convert(sig, scope); !isClass(t) {
			cp.erase(t)
			f.genericType = t
		}
	}
	f.annotations = newAnnotations(rec.Annotations, f.Description(), cp.lookup)
	return f
}

func (cp *Completer) codeUnit(c *Class, rec *classfile.MethodRecord, scope *typeScope) *CodeUnit {
	u := &CodeUnit{
		owner:      c,
		name:       rec.Name,
		descriptor: rec.Descriptor,
		modifiers:  modifiersOf(rec.AccessFlags, targetMethod),
		raw:        rec,
	}
	switch {
	case rec.IsConstructor():
		u.kind = CodeUnitConstructor
	case rec.IsStaticInitializer():
		u.kind = CodeUnitStaticInitializer
	}

	md := classfile.ParseMethodDescriptor(rec.Descriptor)
	if md == nil {
		log.Warningf("%s.%s: malformed descriptor %q", c.name, rec.Name, rec.Descriptor)
		md = &classfile.MethodDescriptor{}
	}
	for i, name := range md.ParameterTypeNames() {
		u.parameters = append(u.parameters, &Parameter{owner: u, index: i, rawType: cp.lookup.GetOrResolve(name)})
	}
	u.rawReturnType = cp.lookup.GetOrResolve(md.ReturnTypeName())
	for _, name := range rec.Exceptions {
		u.throws = append(u.throws, cp.lookup.GetOrResolve(name))
	}

	if rec.Signature != "" {
		if sig, err := classfile.ParseMethodSignature(rec.Signature); err != nil {
			log.Warningf("%s: ignoring generic signature: %v", u.FullName(), err)
		} else {
			cp.genericCodeUnit(u, sig, scope)
		}
	}

	desc := u.Description()
	u.annotations = newAnnotations(rec.Annotations, desc, cp.lookup)
	for i, anns := range rec.ParameterAnnotations {
		if i < len(u.parameters) {
			p := u.parameters[i]
			p.annotations = newAnnotations(anns, p.Description(), cp.lookup)
		}
	}
	return u
}

func (cp *Completer) genericCodeUnit(u *CodeUnit, sig *classfile.MethodSignature, outer *typeScope) {
	u.typeParameters = cp.declare(u, sig.TypeParameters)
	scope := &typeScope{vars: u.typeParameters, next: outer}
	cp.bind(u.typeParameters, sig.TypeParameters, scope)

	// Signatures of inner class constructors leave out synthetic parameters.
	if len(sig.Parameters) == len(u.parameters) {
		for i, ps := range sig.Parameters {
			if t := cp.convert(ps, scope); !isClass(t) {
				cp.erase(t)
				u.parameters[i].genericType = t
			}
		}
	}
	if sig.Return != nil {
		if t := cp.convert(sig.Return, scope); !isClass(t) {
			cp.erase(t)
			u.returnType = t
		}
	}
}

// Annotations resolves the class annotations.
func (cp *Completer) Annotations(c *Class) {
	if c.done&stepAnnotations != 0 {
		return
	}
	c.done |= stepAnnotations
	c.annotations = newAnnotations(c.record.Annotations, c.Description(), cp.lookup)
}

// Accesses turns the scanned instructions of every code unit into accesses
// and records them on their targets. Members of resolved target classes are
// completed on demand so targets can be matched.
func (cp *Completer) Accesses(c *Class) {
	if c.done&stepAccesses != 0 {
		return
	}
	c.done |= stepAccesses
	cp.Members(c)
	for _, u := range c.CodeUnits() {
		for _, rec := range u.raw.Accesses {
			a := &Access{
				origin:     u,
				kind:       rec.Kind,
				owner:      cp.lookup.GetOrResolve(rec.Owner),
				name:       rec.Name,
				descriptor: rec.Descriptor,
				line:       rec.Line,
			}
			cp.completeSupertypes(a.owner)
			for _, candidate := range a.candidates() {
				cp.Members(candidate)
			}
			a.resolveTarget()
			u.accesses = append(u.accesses, a)

			a.owner.accessesToSelf = append(a.owner.accessesToSelf, a)
			if a.field != nil {
				a.field.accessesToSelf = append(a.field.accessesToSelf, a)
			}
			if a.codeUnit != nil {
				a.codeUnit.callsToMe = append(a.codeUnit.callsToMe, a)
			}
		}
	}
}

func (cp *Completer) completeSupertypes(c *Class) {
	seen := map[*Class]bool{}
	queue := []*Class{c}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		cp.Hierarchy(next)
		if next.superclass != nil {
			queue = append(queue, next.superclass)
		}
		queue = append(queue, next.interfaces...)
	}
}

// LinkDependencies computes the outgoing dependencies of every class in
// classes and records them as incoming dependencies on their targets.
func (cp *Completer) LinkDependencies(classes []*Class) {
	for _, c := range classes {
		if c.done&stepDependencies != 0 {
			continue
		}
		c.done |= stepDependencies
		c.dependenciesFromSelf = computeDependencies(c)
		for _, d := range c.dependenciesFromSelf {
			d.Target.dependenciesToSelf = append(d.Target.dependenciesToSelf, d)
		}
	}
}

// Complete runs every step on c.
func (cp *Completer) Complete(c *Class) {
	cp.Hierarchy(c)
	cp.TypeParameters(c)
	cp.Members(c)
	cp.Annotations(c)
	cp.Accesses(c)
}

func isClass(t Type) bool {
	_, ok := t.(*Class)
	return ok
}
