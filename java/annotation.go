package java

import (
	"slices"

	"github.com/dhamidi/classgraph/classfile"
)

// Annotation is an annotation instance on a class, member or parameter.
//
// Element values are int32, int64, float32, float64, bool or string for
// constants, *Class for class literals, EnumConstant for enum constants,
// *Annotation for nested annotations and []any for arrays.
type Annotation struct {
	owner  string
	typ    *Class
	names  []string
	values map[string]any
}

// EnumConstant is an enum value used as an annotation element.
type EnumConstant struct {
	Type *Class
	Name string
}

func (e EnumConstant) String() string { return e.Type.Name() + "." + e.Name }

func (a *Annotation) Type() *Class { return a.typ }

// Owner describes the annotated element, e.g. "Class <com.example.Foo>".
func (a *Annotation) Owner() string { return a.owner }

// Names returns the explicitly given element names in class-file order.
func (a *Annotation) Names() []string { return slices.Clone(a.names) }

func (a *Annotation) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

func (a *Annotation) Description() string {
	return "Annotation <" + a.typ.Name() + "> on " + a.owner
}

// involvedClasses lists the annotation type and every class literal, enum
// type and nested annotation type among its values.
func (a *Annotation) involvedClasses() []*Class {
	out := []*Class{a.typ}
	var walk func(any)
	walk = func(v any) {
		switch v := v.(type) {
		case *Class:
			out = append(out, v)
		case EnumConstant:
			out = append(out, v.Type)
		case *Annotation:
			out = append(out, v.involvedClasses()...)
		case []any:
			for _, e := range v {
				walk(e)
			}
		}
	}
	for _, name := range a.names {
		walk(a.values[name])
	}
	return out
}

func findAnnotation(anns []*Annotation, container, typeName string) (*Annotation, error) {
	for _, a := range anns {
		if a.typ.Name() == typeName {
			return a, nil
		}
	}
	return nil, &NotFoundError{Container: container, Kind: "annotation", Identifier: "@" + typeName}
}

func newAnnotation(raw classfile.Annotation, owner string, lookup Lookup) *Annotation {
	a := &Annotation{
		owner:  owner,
		typ:    lookup.GetOrResolve(classfile.DescriptorTypeName(raw.Type)),
		values: make(map[string]any, len(raw.Elements)),
	}
	for _, e := range raw.Elements {
		a.names = append(a.names, e.Name)
		a.values[e.Name] = elementValue(e.Value, owner, lookup)
	}
	return a
}

func newAnnotations(raw []classfile.Annotation, owner string, lookup Lookup) []*Annotation {
	if len(raw) == 0 {
		return nil
	}
	anns := make([]*Annotation, len(raw))
	for i, r := range raw {
		anns[i] = newAnnotation(r, owner, lookup)
	}
	return anns
}

func elementValue(ev classfile.ElementValue, owner string, lookup Lookup) any {
	switch v := ev.Value.(type) {
	case classfile.EnumConstValue:
		return EnumConstant{Type: lookup.GetOrResolve(classfile.DescriptorTypeName(v.Type)), Name: v.Name}
	case classfile.ClassValue:
		return lookup.GetOrResolve(classfile.DescriptorTypeName(v.Descriptor))
	case classfile.Annotation:
		return newAnnotation(v, owner, lookup)
	case []classfile.ElementValue:
		values := make([]any, len(v))
		for i, e := range v {
			values[i] = elementValue(e, owner, lookup)
		}
		return values
	}
	return ev.Value
}
