package java

import (
	"regexp"
	"strings"
)

// Predicate is a described test over T.
type Predicate[T any] struct {
	description string
	test        func(T) bool
}

func NewPredicate[T any](description string, test func(T) bool) Predicate[T] {
	return Predicate[T]{description: description, test: test}
}

func (p Predicate[T]) Description() string { return p.description }
func (p Predicate[T]) Test(v T) bool       { return p.test(v) }

func (p Predicate[T]) And(other Predicate[T]) Predicate[T] {
	return NewPredicate(p.description+" and "+other.description, func(v T) bool {
		return p.test(v) && other.test(v)
	})
}

func (p Predicate[T]) Or(other Predicate[T]) Predicate[T] {
	return NewPredicate(p.description+" or "+other.description, func(v T) bool {
		return p.test(v) || other.test(v)
	})
}

func Not[T any](p Predicate[T]) Predicate[T] {
	return NewPredicate("not "+p.description, func(v T) bool { return !p.test(v) })
}

// Anything matches every value.
func Anything[T any]() Predicate[T] {
	return NewPredicate("anything", func(T) bool { return true })
}

// Named is implemented by *Class and *Package.
type Named interface {
	Name() string
}

// NameMatching matches names against a regular expression covering the
// whole name. It panics if pattern does not compile.
func NameMatching[T Named](pattern string) Predicate[T] {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return NewPredicate("name matching '"+pattern+"'", func(v T) bool { return re.MatchString(v.Name()) })
}

func NameContaining[T Named](infix string) Predicate[T] {
	return NewPredicate("name containing '"+infix+"'", func(v T) bool { return strings.Contains(v.Name(), infix) })
}

func SimpleNameStartingWith(prefix string) Predicate[*Class] {
	return NewPredicate("simple name starting with '"+prefix+"'", func(c *Class) bool {
		return strings.HasPrefix(c.simpleName, prefix)
	})
}

// ResideInAPackage matches classes whose package matches a package
// identifier: ".." stands for any number of packages and "*" for any part
// of a single package name, as in "..service.." or "com.*.api".
func ResideInAPackage(identifier string) Predicate[*Class] {
	re := packageIdentifierPattern(identifier)
	return NewPredicate("reside in a package '"+identifier+"'", func(c *Class) bool {
		return re.MatchString(c.BaseComponentType().packageName)
	})
}

func packageIdentifierPattern(identifier string) *regexp.Regexp {
	if identifier == ".." {
		return regexp.MustCompile(`^.*$`)
	}
	parts := strings.Split(identifier, "..")
	var sb strings.Builder
	sb.WriteString("^")
	for i, part := range parts {
		switch {
		case i == 0:
		case i == 1 && parts[0] == "":
			sb.WriteString(`(?:.*\.)?`)
		case i == len(parts)-1 && part == "":
			sb.WriteString(`(?:\..*)?`)
		default:
			sb.WriteString(`\.(?:.*\.)?`)
		}
		segment := regexp.QuoteMeta(part)
		segment = strings.ReplaceAll(segment, `\(\*\)`, `([^.]*)`)
		segment = strings.ReplaceAll(segment, `\*`, `[^.]*`)
		sb.WriteString(segment)
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func AssignableTo(typeName string) Predicate[*Class] {
	return NewPredicate("assignable to "+typeName, func(c *Class) bool { return c.IsAssignableTo(typeName) })
}

func AnnotatedWith(typeName string) Predicate[*Class] {
	return NewPredicate("annotated with @"+typeName, func(c *Class) bool { return c.IsAnnotatedWith(typeName) })
}

func HaveModifier(m Modifier) Predicate[*Class] {
	return NewPredicate("modifier "+Modifiers(m).String(), func(c *Class) bool { return c.HasModifier(m) })
}

func DirectlyImported() Predicate[*Class] {
	return NewPredicate("directly imported", (*Class).IsDirectlyImported)
}
