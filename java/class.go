package java

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

// Class is one node of the class graph. Every type name maps to exactly one
// *Class per import; after the import returns the node is read-only.
type Class struct {
	name        string
	simpleName  string
	packageName string
	kind        ClassKind
	modifiers   Modifiers
	origin      Origin
	record      *classfile.ClassRecord

	superclass        *Class
	interfaces        []*Class
	genericSuperclass Type
	genericInterfaces []Type
	typeParameters    []*TypeVariable
	enclosingClass    *Class
	componentType     *Class

	fields            []*Field
	methods           []*CodeUnit
	constructors      []*CodeUnit
	staticInitializer *CodeUnit
	annotations       []*Annotation

	accessesToSelf       []*Access
	dependenciesFromSelf []Dependency
	dependenciesToSelf   []Dependency
	pkg                  *Package

	done completionStep
}

type completionStep uint8

const (
	stepHierarchy completionStep = 1 << iota
	stepTypeParameters
	stepTypeParametersRunning
	stepMembers
	stepAnnotations
	stepAccesses
	stepDependencies
)

// NewClass creates the shell of a class from its raw record. Everything
// that refers to other classes is filled in by a Completer.
func NewClass(rec *classfile.ClassRecord, origin Origin) *Class {
	pkg, simple := splitClassName(rec.Name)
	if rec.EnclosingClass != "" || strings.Contains(simple, "$") {
		simple = rec.SimpleName
	}
	return &Class{
		name:        rec.Name,
		simpleName:  simple,
		packageName: pkg,
		kind:        classKindOf(rec.AccessFlags),
		modifiers:   modifiersOf(rec.AccessFlags, targetClass),
		origin:      origin,
		record:      rec,
	}
}

// NewStubClass creates a class that is known by name only. Array stubs are
// linked to their component type through lookup.
func NewStubClass(name string, lookup Lookup) *Class {
	c := &Class{name: name, kind: ClassKindClass, origin: OriginStub}
	switch {
	case classfile.IsPrimitiveName(name):
		c.kind = ClassKindPrimitive
		c.simpleName = name
		c.modifiers = StubModifiers
	case strings.HasSuffix(name, "[]"):
		component, _ := classfile.ArrayComponentName(name)
		c.kind = ClassKindArray
		c.modifiers = StubModifiers
		c.componentType = lookup.GetOrResolve(component)
		c.simpleName = c.componentType.SimpleName() + "[]"
		c.packageName = c.componentType.PackageName()
	default:
		c.packageName, c.simpleName = splitClassName(name)
		if _, inner := splitInnerName(c.simpleName); inner != "" {
			c.simpleName = inner
		}
	}
	c.done = stepHierarchy | stepTypeParameters | stepMembers | stepAnnotations | stepAccesses | stepDependencies
	return c
}

func (c *Class) Name() string     { return c.name }
func (c *Class) FullName() string { return c.name }

// Erasure of a class is the class itself.
func (c *Class) Erasure() *Class { return c }

func (c *Class) SimpleName() string  { return c.simpleName }
func (c *Class) PackageName() string { return c.packageName }

// Package is the node of the package tree this class lives in. Primitive
// classes report the default package and arrays the package of their base
// component.
func (c *Class) Package() *Package { return c.pkg }

func (c *Class) Description() string { return "Class <" + c.name + ">" }
func (c *Class) String() string      { return c.name }

func (c *Class) Kind() ClassKind             { return c.kind }
func (c *Class) Modifiers() Modifiers        { return c.modifiers }
func (c *Class) HasModifier(m Modifier) bool { return c.modifiers.Has(m) }
func (c *Class) Origin() Origin              { return c.origin }
func (c *Class) IsStub() bool                { return c.origin == OriginStub }
func (c *Class) IsDirectlyImported() bool    { return c.origin == OriginImported }

func (c *Class) IsInterface() bool {
	return c.kind == ClassKindInterface || c.kind == ClassKindAnnotation
}

func (c *Class) IsEnum() bool                   { return c.kind == ClassKindEnum }
func (c *Class) IsAnnotation() bool             { return c.kind == ClassKindAnnotation }
func (c *Class) IsPrimitive() bool              { return c.kind == ClassKindPrimitive }
func (c *Class) IsArray() bool                  { return c.kind == ClassKindArray }
func (c *Class) Record() *classfile.ClassRecord { return c.record }

// ComponentType is the element type of an array class and nil otherwise.
func (c *Class) ComponentType() *Class { return c.componentType }

// BaseComponentType strips every array dimension.
func (c *Class) BaseComponentType() *Class {
	base := c
	for base.componentType != nil {
		base = base.componentType
	}
	return base
}

func (c *Class) SourceFile() string {
	if c.record == nil {
		return ""
	}
	return c.record.SourceFile
}

// Superclass is nil for java.lang.Object, interfaces, primitives and stubs.
func (c *Class) Superclass() *Class     { return c.superclass }
func (c *Class) Interfaces() []*Class   { return slices.Clone(c.interfaces) }
func (c *Class) EnclosingClass() *Class { return c.enclosingClass }
func (c *Class) IsNested() bool         { return c.enclosingClass != nil }
func (c *Class) IsAnonymous() bool      { return c.enclosingClass != nil && c.simpleName == "" }
func (c *Class) TypeParameters() []*TypeVariable {
	return slices.Clone(c.typeParameters)
}

// GenericSuperclass is the superclass with its type arguments, or the plain
// superclass when it is not parameterized.
func (c *Class) GenericSuperclass() Type {
	if c.genericSuperclass != nil {
		return c.genericSuperclass
	}
	if c.superclass == nil {
		return nil
	}
	return c.superclass
}

func (c *Class) GenericInterfaces() []Type {
	if c.genericInterfaces != nil {
		return slices.Clone(c.genericInterfaces)
	}
	types := make([]Type, len(c.interfaces))
	for i, iface := range c.interfaces {
		types[i] = iface
	}
	return types
}

// AllSuperclasses walks the superclass chain upwards.
func (c *Class) AllSuperclasses() []*Class {
	var out []*Class
	for s := c.superclass; s != nil; s = s.superclass {
		out = append(out, s)
	}
	return out
}

// AllInterfaces returns every interface implemented directly or through a
// supertype, each once, in breadth-first order.
func (c *Class) AllInterfaces() []*Class {
	var out []*Class
	seen := map[*Class]bool{}
	queue := []*Class{c}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, iface := range next.interfaces {
			if !seen[iface] {
				seen[iface] = true
				out = append(out, iface)
				queue = append(queue, iface)
			}
		}
		if next.superclass != nil {
			queue = append(queue, next.superclass)
		}
	}
	return out
}

// IsAssignableTo reports whether c is typeName or one of its subtypes.
func (c *Class) IsAssignableTo(typeName string) bool {
	if c.name == typeName {
		return true
	}
	for _, s := range c.AllSuperclasses() {
		if s.name == typeName {
			return true
		}
	}
	for _, iface := range c.AllInterfaces() {
		if iface.name == typeName {
			return true
		}
	}
	return false
}

func (c *Class) Fields() []*Field { return slices.Clone(c.fields) }

func (c *Class) Field(name string) (*Field, error) {
	for _, f := range c.fields {
		if f.name == name {
			return f, nil
		}
	}
	return nil, notFound(c.Description(), "field", name)
}

func (c *Class) Methods() []*CodeUnit      { return slices.Clone(c.methods) }
func (c *Class) Constructors() []*CodeUnit { return slices.Clone(c.constructors) }

// StaticInitializer is nil when the class has none.
func (c *Class) StaticInitializer() *CodeUnit { return c.staticInitializer }

// CodeUnits returns methods, constructors and the static initializer.
func (c *Class) CodeUnits() []*CodeUnit {
	units := slices.Concat(c.methods, c.constructors)
	if c.staticInitializer != nil {
		units = append(units, c.staticInitializer)
	}
	return units
}

// Method finds a declared method by name and parameter type names.
func (c *Class) Method(name string, parameterTypes ...string) (*CodeUnit, error) {
	for _, m := range c.methods {
		if m.name == name && m.hasParameterTypes(parameterTypes) {
			return m, nil
		}
	}
	return nil, notFound(c.Description(), "method", name+"("+strings.Join(parameterTypes, ", ")+")")
}

func (c *Class) Constructor(parameterTypes ...string) (*CodeUnit, error) {
	for _, m := range c.constructors {
		if m.hasParameterTypes(parameterTypes) {
			return m, nil
		}
	}
	return nil, notFound(c.Description(), "constructor", "<init>("+strings.Join(parameterTypes, ", ")+")")
}

func (c *Class) Annotations() []*Annotation { return slices.Clone(c.annotations) }

func (c *Class) Annotation(typeName string) (*Annotation, error) {
	return findAnnotation(c.annotations, c.Description(), typeName)
}

func (c *Class) IsAnnotatedWith(typeName string) bool {
	_, err := c.Annotation(typeName)
	return err == nil
}

// AccessesFromSelf returns every access made by code of this class.
func (c *Class) AccessesFromSelf() []*Access {
	var out []*Access
	for _, u := range c.CodeUnits() {
		out = append(out, u.accesses...)
	}
	return out
}

// AccessesToSelf returns accesses of imported classes targeting this class.
func (c *Class) AccessesToSelf() []*Access { return slices.Clone(c.accessesToSelf) }

func (c *Class) MethodCallsFromSelf() []*Access {
	return filterAccesses(c.AccessesFromSelf(), AccessMethodCall)
}

func (c *Class) ConstructorCallsFromSelf() []*Access {
	return filterAccesses(c.AccessesFromSelf(), AccessConstructorCall)
}

func (c *Class) FieldAccessesFromSelf() []*Access {
	return filterAccesses(c.AccessesFromSelf(), AccessFieldGet, AccessFieldSet)
}

func (c *Class) DependenciesFromSelf() []Dependency { return slices.Clone(c.dependenciesFromSelf) }
func (c *Class) DependenciesToSelf() []Dependency   { return slices.Clone(c.dependenciesToSelf) }

func (c *Class) sourceLocation(line int) string {
	file := c.SourceFile()
	if file == "" {
		outer := c.BaseComponentType()
		for outer.enclosingClass != nil {
			outer = outer.enclosingClass
		}
		_, simple := splitClassName(outer.name)
		if i := strings.IndexByte(simple, '$'); i >= 0 {
			simple = simple[:i]
		}
		file = simple + ".java"
	}
	return "(" + file + ":" + strconv.Itoa(line) + ")"
}
