package java

import "strings"

// Type is a Java type as it appears in declarations: a *Class, a
// *TypeVariable, a *ParameterizedType, a *WildcardType or a
// *GenericArrayType.
type Type interface {
	// Name renders the type in Java syntax.
	Name() string
	// Erasure is the class the type reduces to once generic information is
	// discarded.
	Erasure() *Class
}

// TypeParameterOwner is the *Class or *CodeUnit declaring a type variable.
type TypeParameterOwner interface {
	FullName() string
}

// TypeVariable is a declared type parameter or a stub for one that could
// not be found. Bounds may refer back to the variable itself.
type TypeVariable struct {
	name    string
	owner   TypeParameterOwner
	bounds  []Type
	erasure *Class
	stub    bool
}

func (tv *TypeVariable) Name() string { return tv.name }

// Owner is nil for stub type variables.
func (tv *TypeVariable) Owner() TypeParameterOwner { return tv.owner }

// Bounds returns the upper bounds, leftmost first. Unbounded and stub
// variables have none.
func (tv *TypeVariable) Bounds() []Type {
	return append([]Type(nil), tv.bounds...)
}

func (tv *TypeVariable) Erasure() *Class { return tv.erasure }

// IsStub reports whether the declaration of the variable was out of reach.
func (tv *TypeVariable) IsStub() bool { return tv.stub }

// Declaration renders "T extends A & B".
func (tv *TypeVariable) Declaration() string {
	if len(tv.bounds) == 0 {
		return tv.name
	}
	names := make([]string, len(tv.bounds))
	for i, b := range tv.bounds {
		names[i] = b.Name()
	}
	return tv.name + " extends " + strings.Join(names, " & ")
}

// ParameterizedType is a generic class applied to type arguments.
type ParameterizedType struct {
	raw   *Class
	args  []Type
	owner Type
}

func (pt *ParameterizedType) Name() string {
	var sb strings.Builder
	if pt.owner != nil {
		_, inner := splitInnerName(pt.raw.Name())
		sb.WriteString(pt.owner.Name())
		sb.WriteString(".")
		sb.WriteString(inner)
	} else {
		sb.WriteString(pt.raw.Name())
	}
	if len(pt.args) > 0 {
		names := make([]string, len(pt.args))
		for i, a := range pt.args {
			names[i] = a.Name()
		}
		sb.WriteString("<")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString(">")
	}
	return sb.String()
}

func (pt *ParameterizedType) Erasure() *Class { return pt.raw }

func (pt *ParameterizedType) RawType() *Class { return pt.raw }

func (pt *ParameterizedType) TypeArguments() []Type {
	return append([]Type(nil), pt.args...)
}

// OwnerType is the parameterized outer type of an inner class, or nil.
func (pt *ParameterizedType) OwnerType() Type { return pt.owner }

// WildcardType is a "?" type argument.
type WildcardType struct {
	upper   []Type
	lower   []Type
	erasure *Class
}

func (w *WildcardType) Name() string {
	switch {
	case len(w.upper) > 0:
		return "? extends " + w.upper[0].Name()
	case len(w.lower) > 0:
		return "? super " + w.lower[0].Name()
	}
	return "?"
}

// Erasure is the erasure of the leftmost upper bound, or java.lang.Object.
func (w *WildcardType) Erasure() *Class {
	if len(w.upper) > 0 {
		return w.upper[0].Erasure()
	}
	return w.erasure
}

func (w *WildcardType) UpperBounds() []Type {
	return append([]Type(nil), w.upper...)
}

func (w *WildcardType) LowerBounds() []Type {
	return append([]Type(nil), w.lower...)
}

// GenericArrayType is an array whose component is not a plain class.
type GenericArrayType struct {
	component Type
	erasure   *Class
}

func (ga *GenericArrayType) Name() string        { return ga.component.Name() + "[]" }
func (ga *GenericArrayType) Erasure() *Class     { return ga.erasure }
func (ga *GenericArrayType) ComponentType() Type { return ga.component }

// AllInvolvedClasses returns every class a type mentions, including bounds
// of type variables, without visiting a variable twice.
func AllInvolvedClasses(t Type) []*Class {
	var out []*Class
	seen := map[*TypeVariable]bool{}
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case *Class:
			out = append(out, t)
		case *TypeVariable:
			if seen[t] {
				return
			}
			seen[t] = true
			for _, b := range t.bounds {
				walk(b)
			}
		case *ParameterizedType:
			out = append(out, t.raw)
			for _, a := range t.args {
				walk(a)
			}
			if t.owner != nil {
				walk(t.owner)
			}
		case *WildcardType:
			for _, b := range t.upper {
				walk(b)
			}
			for _, b := range t.lower {
				walk(b)
			}
		case *GenericArrayType:
			walk(t.component)
		}
	}
	walk(t)
	return out
}

func splitInnerName(name string) (outer, inner string) {
	i := strings.LastIndexByte(name, '$')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}
