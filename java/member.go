package java

import (
	"slices"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

type Field struct {
	owner       *Class
	name        string
	descriptor  string
	modifiers   Modifiers
	rawType     *Class
	genericType Type
	annotations []*Annotation

	accessesToSelf []*Access
}

func (f *Field) Owner() *Class               { return f.owner }
func (f *Field) Name() string                { return f.name }
func (f *Field) FullName() string            { return f.owner.name + "." + f.name }
func (f *Field) Descriptor() string          { return f.descriptor }
func (f *Field) Modifiers() Modifiers        { return f.modifiers }
func (f *Field) HasModifier(m Modifier) bool { return f.modifiers.Has(m) }
func (f *Field) RawType() *Class             { return f.rawType }
func (f *Field) Description() string         { return "Field <" + f.FullName() + ">" }

// Type is the declared generic type, or the raw type without a signature.
func (f *Field) Type() Type {
	if f.genericType != nil {
		return f.genericType
	}
	return f.rawType
}

func (f *Field) Annotations() []*Annotation { return slices.Clone(f.annotations) }

func (f *Field) Annotation(typeName string) (*Annotation, error) {
	return findAnnotation(f.annotations, f.Description(), typeName)
}

func (f *Field) IsAnnotatedWith(typeName string) bool {
	_, err := f.Annotation(typeName)
	return err == nil
}

// AccessesToSelf returns the reads and writes of this field made by imported
// classes.
func (f *Field) AccessesToSelf() []*Access { return slices.Clone(f.accessesToSelf) }

type CodeUnitKind uint8

const (
	CodeUnitMethod CodeUnitKind = iota
	CodeUnitConstructor
	CodeUnitStaticInitializer
)

func (k CodeUnitKind) String() string {
	switch k {
	case CodeUnitConstructor:
		return "Constructor"
	case CodeUnitStaticInitializer:
		return "Static Initializer"
	}
	return "Method"
}

// CodeUnit is a method, a constructor or a static initializer.
type CodeUnit struct {
	owner          *Class
	kind           CodeUnitKind
	name           string
	descriptor     string
	modifiers      Modifiers
	parameters     []*Parameter
	rawReturnType  *Class
	returnType     Type
	throws         []*Class
	typeParameters []*TypeVariable
	annotations    []*Annotation

	accesses  []*Access
	callsToMe []*Access
	raw       *classfile.MethodRecord
}

func (u *CodeUnit) Owner() *Class               { return u.owner }
func (u *CodeUnit) Kind() CodeUnitKind          { return u.kind }
func (u *CodeUnit) Name() string                { return u.name }
func (u *CodeUnit) Descriptor() string          { return u.descriptor }
func (u *CodeUnit) Modifiers() Modifiers        { return u.modifiers }
func (u *CodeUnit) HasModifier(m Modifier) bool { return u.modifiers.Has(m) }
func (u *CodeUnit) IsConstructor() bool         { return u.kind == CodeUnitConstructor }

// FullName renders "com.example.Foo.bar(int, java.lang.String)".
func (u *CodeUnit) FullName() string {
	return u.owner.name + "." + u.name + "(" + strings.Join(u.ParameterTypeNames(), ", ") + ")"
}

func (u *CodeUnit) Description() string {
	return u.kind.String() + " <" + u.FullName() + ">"
}

func (u *CodeUnit) Parameters() []*Parameter { return slices.Clone(u.parameters) }

// RawParameterTypes returns the erased parameter types in declaration order.
func (u *CodeUnit) RawParameterTypes() []*Class {
	types := make([]*Class, len(u.parameters))
	for i, p := range u.parameters {
		types[i] = p.rawType
	}
	return types
}

func (u *CodeUnit) ParameterTypeNames() []string {
	names := make([]string, len(u.parameters))
	for i, p := range u.parameters {
		names[i] = p.rawType.name
	}
	return names
}

func (u *CodeUnit) hasParameterTypes(names []string) bool {
	return slices.Equal(u.ParameterTypeNames(), names)
}

// RawReturnType is the class "void" for void methods and constructors.
func (u *CodeUnit) RawReturnType() *Class { return u.rawReturnType }

func (u *CodeUnit) ReturnType() Type {
	if u.returnType != nil {
		return u.returnType
	}
	return u.rawReturnType
}

func (u *CodeUnit) ThrowsClause() []*Class { return slices.Clone(u.throws) }

func (u *CodeUnit) TypeParameters() []*TypeVariable { return slices.Clone(u.typeParameters) }

func (u *CodeUnit) Annotations() []*Annotation { return slices.Clone(u.annotations) }

func (u *CodeUnit) Annotation(typeName string) (*Annotation, error) {
	return findAnnotation(u.annotations, u.Description(), typeName)
}

func (u *CodeUnit) IsAnnotatedWith(typeName string) bool {
	_, err := u.Annotation(typeName)
	return err == nil
}

// AccessesFromSelf returns the accesses made by this code unit in bytecode
// order.
func (u *CodeUnit) AccessesFromSelf() []*Access { return slices.Clone(u.accesses) }

func (u *CodeUnit) MethodCallsFromSelf() []*Access {
	return filterAccesses(u.accesses, AccessMethodCall)
}

// CallsToSelf returns calls of imported classes that resolved to this code
// unit.
func (u *CodeUnit) CallsToSelf() []*Access { return slices.Clone(u.callsToMe) }

type Parameter struct {
	owner       *CodeUnit
	index       int
	rawType     *Class
	genericType Type
	annotations []*Annotation
}

func (p *Parameter) Owner() *CodeUnit { return p.owner }
func (p *Parameter) Index() int       { return p.index }
func (p *Parameter) RawType() *Class  { return p.rawType }

func (p *Parameter) Type() Type {
	if p.genericType != nil {
		return p.genericType
	}
	return p.rawType
}

func (p *Parameter) Description() string {
	return "Parameter <" + p.rawType.name + "> of " + strings.ToLower(p.owner.kind.String()[:1]) + p.owner.Description()[1:]
}

func (p *Parameter) Annotations() []*Annotation { return slices.Clone(p.annotations) }

func (p *Parameter) IsAnnotatedWith(typeName string) bool {
	_, err := findAnnotation(p.annotations, p.Description(), typeName)
	return err == nil
}
