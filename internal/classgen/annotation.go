package classgen

import (
	"bytes"
)

type Annotation struct {
	Type     string
	Elements []Element
}

type Element struct {
	Name  string
	Value Value
}

// Value is an annotation element value.
type Value interface {
	encode(p *pool, b *bytes.Buffer)
}

type (
	Int       int32
	Bool      bool
	String    string
	ClassLit  string
	Array     []Value
	EnumConst struct{ Type, Name string }
)

// Ann builds an annotation from alternating element names and values.
func Ann(typeName string, kv ...any) Annotation {
	a := Annotation{Type: typeName}
	for i := 0; i+1 < len(kv); i += 2 {
		a.Elements = append(a.Elements, Element{Name: kv[i].(string), Value: kv[i+1].(Value)})
	}
	return a
}

func (a Annotation) encode(p *pool, b *bytes.Buffer) {
	writeU2(b, p.utf8(Descriptor(a.Type)))
	writeU2(b, uint16(len(a.Elements)))
	for _, e := range a.Elements {
		writeU2(b, p.utf8(e.Name))
		e.Value.encode(p, b)
	}
}

func (v Int) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('I')
	writeU2(b, p.integer(int32(v)))
}

func (v Bool) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('Z')
	i := int32(0)
	if v {
		i = 1
	}
	writeU2(b, p.integer(i))
}

func (v String) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('s')
	writeU2(b, p.utf8(string(v)))
}

func (v ClassLit) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('c')
	writeU2(b, p.utf8(Descriptor(string(v))))
}

func (v EnumConst) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('e')
	writeU2(b, p.utf8(Descriptor(v.Type)))
	writeU2(b, p.utf8(v.Name))
}

func (v Array) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('[')
	writeU2(b, uint16(len(v)))
	for _, e := range v {
		e.encode(p, b)
	}
}

// Nested wraps an annotation used as an element value.
type Nested Annotation

func (v Nested) encode(p *pool, b *bytes.Buffer) {
	b.WriteByte('@')
	Annotation(v).encode(p, b)
}
