package java

import "fmt"

type DependencyKind uint8

const (
	DependencyExtends DependencyKind = iota + 1
	DependencyImplements
	DependencyMethodCall
	DependencyConstructorCall
	DependencyFieldGet
	DependencyFieldSet
	DependencyFieldType
	DependencyParameterType
	DependencyReturnType
	DependencyThrows
	DependencyInstanceofCheck
	DependencyCastCheck
	DependencyClassObjectReference
	DependencyAnnotationType
	DependencyAnnotationParameter
	DependencyTypeParameterBound
	DependencyTypeArgument
	DependencyEnclosingClass
)

var dependencyKindNames = map[DependencyKind]string{
	DependencyExtends:              "EXTENDS",
	DependencyImplements:           "IMPLEMENTS",
	DependencyMethodCall:           "METHOD_CALL",
	DependencyConstructorCall:      "CONSTRUCTOR_CALL",
	DependencyFieldGet:             "FIELD_GET",
	DependencyFieldSet:             "FIELD_SET",
	DependencyFieldType:            "FIELD_TYPE",
	DependencyParameterType:        "PARAMETER_TYPE",
	DependencyReturnType:           "RETURN_TYPE",
	DependencyThrows:               "THROWS",
	DependencyInstanceofCheck:      "INSTANCEOF_CHECK",
	DependencyCastCheck:            "CAST_CHECK",
	DependencyClassObjectReference: "CLASS_OBJECT_REFERENCE",
	DependencyAnnotationType:       "ANNOTATION_TYPE",
	DependencyAnnotationParameter:  "ANNOTATION_PARAMETER",
	DependencyTypeParameterBound:   "TYPE_PARAMETER_BOUND",
	DependencyTypeArgument:         "TYPE_ARGUMENT",
	DependencyEnclosingClass:       "ENCLOSING_CLASS",
}

func (k DependencyKind) String() string {
	if name, ok := dependencyKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DependencyKind(%d)", uint8(k))
}

// ParseDependencyKind is the inverse of DependencyKind.String.
func ParseDependencyKind(name string) (DependencyKind, bool) {
	for k, n := range dependencyKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Dependency is a directed edge between two classes. Line is 0 for
// dependencies that do not come from code.
type Dependency struct {
	Origin      *Class
	Target      *Class
	Kind        DependencyKind
	Line        int
	Description string
}

func (d Dependency) String() string { return d.Description }

// dependencyCollector builds the outgoing edges of one class.
type dependencyCollector struct {
	origin *Class
	seen   map[Dependency]bool
	out    []Dependency
}

func (dc *dependencyCollector) add(target *Class, kind DependencyKind, line int, description string) {
	if target == nil {
		return
	}
	target = target.BaseComponentType()
	if target == dc.origin || target.IsPrimitive() {
		return
	}
	d := Dependency{Origin: dc.origin, Target: target, Kind: kind, Line: line, Description: description}
	if dc.seen[d] {
		return
	}
	dc.seen[d] = true
	dc.out = append(dc.out, d)
}

func (dc *dependencyCollector) at(line int) string {
	return " in " + dc.origin.sourceLocation(line)
}

func (dc *dependencyCollector) annotations(owner string, anns []*Annotation) {
	for _, a := range anns {
		dc.add(a.typ, DependencyAnnotationType, 0, owner+" is annotated with <"+a.typ.name+">"+dc.at(0))
		for _, c := range a.involvedClasses()[1:] {
			dc.add(c, DependencyAnnotationParameter, 0, owner+" has annotation member of type <"+c.name+">"+dc.at(0))
		}
	}
}

func (dc *dependencyCollector) typeParameters(owner string, params []*TypeVariable) {
	for _, tv := range params {
		for _, b := range tv.bounds {
			for _, c := range AllInvolvedClasses(b) {
				dc.add(c, DependencyTypeParameterBound, 0,
					owner+" has type parameter '"+tv.name+"' depending on <"+c.name+">"+dc.at(0))
			}
		}
	}
}

func (dc *dependencyCollector) typeArguments(owner, what string, t Type) {
	for _, c := range typeArgumentClasses(t) {
		dc.add(c, DependencyTypeArgument, 0,
			owner+" has "+what+" <"+t.Name()+"> with type argument depending on <"+c.name+">"+dc.at(0))
	}
}

func typeArgumentClasses(t Type) []*Class {
	var out []*Class
	switch t := t.(type) {
	case *ParameterizedType:
		for _, a := range t.args {
			out = append(out, AllInvolvedClasses(a)...)
		}
		if t.owner != nil {
			out = append(out, typeArgumentClasses(t.owner)...)
		}
	case *GenericArrayType:
		out = typeArgumentClasses(t.component)
	}
	return out
}

func computeDependencies(c *Class) []Dependency {
	dc := &dependencyCollector{origin: c, seen: map[Dependency]bool{}}
	desc := c.Description()

	if c.superclass != nil {
		dc.add(c.superclass, DependencyExtends, 0, desc+" extends class <"+c.superclass.name+">"+dc.at(0))
	}
	for _, iface := range c.interfaces {
		verb := " implements interface <"
		if c.IsInterface() {
			verb = " extends interface <"
		}
		dc.add(iface, DependencyImplements, 0, desc+verb+iface.name+">"+dc.at(0))
	}
	if c.genericSuperclass != nil {
		dc.typeArguments(desc, "generic superclass", c.genericSuperclass)
	}
	for _, iface := range c.genericInterfaces {
		dc.typeArguments(desc, "generic interface", iface)
	}
	dc.typeParameters(desc, c.typeParameters)
	if c.enclosingClass != nil {
		dc.add(c.enclosingClass, DependencyEnclosingClass, 0, desc+" is enclosed in <"+c.enclosingClass.name+">"+dc.at(0))
	}
	dc.annotations(desc, c.annotations)

	for _, f := range c.fields {
		fdesc := f.Description()
		dc.add(f.rawType, DependencyFieldType, 0, fdesc+" has type <"+f.rawType.name+">"+dc.at(0))
		if f.genericType != nil {
			dc.typeArguments(fdesc, "generic type", f.genericType)
		}
		dc.annotations(fdesc, f.annotations)
	}

	for _, u := range c.CodeUnits() {
		udesc := u.Description()
		for _, p := range u.parameters {
			dc.add(p.rawType, DependencyParameterType, 0, udesc+" has parameter of type <"+p.rawType.name+">"+dc.at(0))
			if p.genericType != nil {
				dc.typeArguments(udesc, "generic parameter type", p.genericType)
			}
			dc.annotations(p.Description(), p.annotations)
		}
		if u.kind == CodeUnitMethod && u.rawReturnType != nil {
			dc.add(u.rawReturnType, DependencyReturnType, 0, udesc+" has return type <"+u.rawReturnType.name+">"+dc.at(0))
			if u.returnType != nil {
				dc.typeArguments(udesc, "generic return type", u.returnType)
			}
		}
		for _, t := range u.throws {
			dc.add(t, DependencyThrows, 0, udesc+" throws type <"+t.name+">"+dc.at(0))
		}
		dc.typeParameters(udesc, u.typeParameters)
		dc.annotations(udesc, u.annotations)

		for _, a := range u.accesses {
			dc.add(a.owner, accessDependencyKind(a.kind), a.line, a.Description())
		}
	}
	return dc.out
}

func accessDependencyKind(k AccessKind) DependencyKind {
	switch k {
	case AccessMethodCall:
		return DependencyMethodCall
	case AccessConstructorCall:
		return DependencyConstructorCall
	case AccessFieldGet:
		return DependencyFieldGet
	case AccessFieldSet:
		return DependencyFieldSet
	case AccessInstanceof:
		return DependencyInstanceofCheck
	case AccessCheckcast:
		return DependencyCastCheck
	}
	return DependencyClassObjectReference
}
