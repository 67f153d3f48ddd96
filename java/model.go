package java

import (
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindPrimitive  ClassKind = "primitive"
	ClassKindArray      ClassKind = "array"
)

func classKindOf(flags classfile.AccessFlags) ClassKind {
	switch {
	case flags.IsAnnotation():
		return ClassKindAnnotation
	case flags.IsInterface():
		return ClassKindInterface
	case flags.IsEnum():
		return ClassKindEnum
	}
	return ClassKindClass
}

// Origin tells how a class entered the graph.
type Origin uint8

const (
	// OriginImported classes were parsed from the import set.
	OriginImported Origin = iota
	// OriginResolved classes were found on demand by a resolver.
	OriginResolved
	// OriginStub classes were referenced but never found.
	OriginStub
)

func (o Origin) String() string {
	switch o {
	case OriginImported:
		return "imported"
	case OriginResolved:
		return "resolved"
	case OriginStub:
		return "stub"
	}
	return "unknown"
}

type Modifier uint16

const (
	ModifierPublic Modifier = 1 << iota
	ModifierProtected
	ModifierPrivate
	ModifierStatic
	ModifierFinal
	ModifierAbstract
	ModifierSynchronized
	ModifierNative
	ModifierVolatile
	ModifierTransient
	ModifierBridge
	ModifierSynthetic
)

var modifierNames = []struct {
	m    Modifier
	name string
}{
	{ModifierPublic, "public"},
	{ModifierProtected, "protected"},
	{ModifierPrivate, "private"},
	{ModifierStatic, "static"},
	{ModifierFinal, "final"},
	{ModifierAbstract, "abstract"},
	{ModifierSynchronized, "synchronized"},
	{ModifierNative, "native"},
	{ModifierVolatile, "volatile"},
	{ModifierTransient, "transient"},
	{ModifierBridge, "bridge"},
	{ModifierSynthetic, "synthetic"},
}

// Modifiers is a set of Modifier values.
type Modifiers Modifier

func (ms Modifiers) Has(m Modifier) bool { return Modifier(ms)&m != 0 }

func (ms Modifiers) Names() []string {
	var names []string
	for _, mn := range modifierNames {
		if ms.Has(mn.m) {
			names = append(names, mn.name)
		}
	}
	return names
}

func (ms Modifiers) String() string {
	return strings.Join(ms.Names(), " ")
}

// ParseModifier maps a lower case modifier name back to its value.
func ParseModifier(name string) (Modifier, bool) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.m, true
		}
	}
	return 0, false
}

type memberTarget uint8

const (
	targetClass memberTarget = iota
	targetField
	targetMethod
)

// modifiersOf decodes access flags; the meaning of some bits depends on
// what they are attached to.
func modifiersOf(flags classfile.AccessFlags, target memberTarget) Modifiers {
	var m Modifier
	set := func(flag classfile.AccessFlags, mod Modifier) {
		if flags.Has(flag) {
			m |= mod
		}
	}
	set(classfile.AccPublic, ModifierPublic)
	set(classfile.AccProtected, ModifierProtected)
	set(classfile.AccPrivate, ModifierPrivate)
	set(classfile.AccStatic, ModifierStatic)
	set(classfile.AccFinal, ModifierFinal)
	set(classfile.AccSynthetic, ModifierSynthetic)
	switch target {
	case targetClass:
		set(classfile.AccAbstract, ModifierAbstract)
	case targetField:
		set(classfile.AccVolatile, ModifierVolatile)
		set(classfile.AccTransient, ModifierTransient)
	case targetMethod:
		set(classfile.AccAbstract, ModifierAbstract)
		set(classfile.AccSynchronized, ModifierSynchronized)
		set(classfile.AccNative, ModifierNative)
		set(classfile.AccBridge, ModifierBridge)
	}
	return Modifiers(m)
}

// StubModifiers are given to primitive and array classes.
const StubModifiers = Modifiers(ModifierPublic | ModifierAbstract | ModifierFinal)

// ObjectClassName is the root of the class hierarchy and the erasure of
// unbounded type variables.
const ObjectClassName = "java.lang.Object"

func splitClassName(fullName string) (pkg, simpleName string) {
	lastDot := strings.LastIndex(fullName, ".")
	if lastDot == -1 {
		return "", fullName
	}
	return fullName[:lastDot], fullName[lastDot+1:]
}
