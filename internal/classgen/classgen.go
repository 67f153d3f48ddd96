// Package classgen assembles class files for tests. Names are given the way
// the class graph spells them ("com.example.Outer$Inner", "int[]") and the
// output is a real class file that classfile.Parse accepts.
package classgen

import (
	"bytes"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

type Class struct {
	name        string
	flags       classfile.AccessFlags
	super       string
	interfaces  []string
	signature   string
	sourceFile  string
	inner       []innerEntry
	enclosing   *classfile.EnclosingMethod
	annotations []Annotation
	fields      []*Field
	methods     []*Method
}

type innerEntry struct {
	inner, outer, simple string
	flags                classfile.AccessFlags
}

// New starts a public class extending java.lang.Object.
func New(name string) *Class {
	return &Class{
		name:  name,
		flags: classfile.AccPublic | classfile.AccSuper,
		super: "java.lang.Object",
	}
}

// Interface starts a public interface.
func Interface(name string) *Class {
	c := New(name)
	c.flags = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	return c
}

func (c *Class) Access(flags classfile.AccessFlags) *Class {
	c.flags = flags
	return c
}

// Extends sets the superclass; "" leaves the class without one, like
// java.lang.Object.
func (c *Class) Extends(name string) *Class {
	c.super = name
	return c
}

func (c *Class) Implements(names ...string) *Class {
	c.interfaces = append(c.interfaces, names...)
	return c
}

func (c *Class) Signature(sig string) *Class {
	c.signature = sig
	return c
}

func (c *Class) Source(file string) *Class {
	c.sourceFile = file
	return c
}

// InnerClass adds an InnerClasses entry. An empty outer describes a local
// or anonymous class.
func (c *Class) InnerClass(inner, outer, simple string, flags classfile.AccessFlags) *Class {
	c.inner = append(c.inner, innerEntry{inner: inner, outer: outer, simple: simple, flags: flags})
	return c
}

func (c *Class) EnclosingMethod(class, name, desc string) *Class {
	c.enclosing = &classfile.EnclosingMethod{Class: class, Name: name, Descriptor: desc}
	return c
}

func (c *Class) Annotate(anns ...Annotation) *Class {
	c.annotations = append(c.annotations, anns...)
	return c
}

type Field struct {
	name, desc, signature string
	flags                 classfile.AccessFlags
	annotations           []Annotation
}

// Field adds a private field; typeName is a type name such as "int" or
// "java.util.List".
func (c *Class) Field(name, typeName string) *Field {
	f := &Field{name: name, desc: Descriptor(typeName), flags: classfile.AccPrivate}
	c.fields = append(c.fields, f)
	return f
}

func (f *Field) Access(flags classfile.AccessFlags) *Field {
	f.flags = flags
	return f
}

func (f *Field) Signature(sig string) *Field {
	f.signature = sig
	return f
}

func (f *Field) Annotate(anns ...Annotation) *Field {
	f.annotations = append(f.annotations, anns...)
	return f
}

type Method struct {
	name, desc, signature string
	flags                 classfile.AccessFlags
	throws                []string
	annotations           []Annotation
	paramAnnotations      map[int][]Annotation
	code                  *Code
}

// Method adds a public method with a raw descriptor such as "(I)V".
func (c *Class) Method(name, desc string) *Method {
	m := &Method{name: name, desc: desc, flags: classfile.AccPublic}
	c.methods = append(c.methods, m)
	return m
}

// Constructor adds a public constructor that calls the superclass
// constructor.
func (c *Class) Constructor(desc string) *Method {
	m := c.Method("<init>", desc)
	if c.super != "" {
		m.Code(func(code *Code) {
			code.Op(0x2a) // aload_0
			code.InvokeSpecial(c.super, "<init>", "()V")
			code.Return()
		})
	}
	return m
}

func (m *Method) Access(flags classfile.AccessFlags) *Method {
	m.flags = flags
	return m
}

func (m *Method) Signature(sig string) *Method {
	m.signature = sig
	return m
}

func (m *Method) Throws(names ...string) *Method {
	m.throws = append(m.throws, names...)
	return m
}

func (m *Method) Annotate(anns ...Annotation) *Method {
	m.annotations = append(m.annotations, anns...)
	return m
}

func (m *Method) AnnotateParameter(i int, anns ...Annotation) *Method {
	if m.paramAnnotations == nil {
		m.paramAnnotations = map[int][]Annotation{}
	}
	m.paramAnnotations[i] = append(m.paramAnnotations[i], anns...)
	return m
}

// Code gives the method a body written by fn.
func (m *Method) Code(fn func(*Code)) *Method {
	if m.code == nil {
		m.code = &Code{}
	}
	fn(m.code)
	return m
}

// Bytes assembles the class file.
func (c *Class) Bytes() []byte {
	p := newPool()
	var body bytes.Buffer

	writeU2(&body, uint16(c.flags))
	writeU2(&body, p.class(c.name))
	if c.super == "" {
		writeU2(&body, 0)
	} else {
		writeU2(&body, p.class(c.super))
	}
	writeU2(&body, uint16(len(c.interfaces)))
	for _, iface := range c.interfaces {
		writeU2(&body, p.class(iface))
	}

	writeU2(&body, uint16(len(c.fields)))
	for _, f := range c.fields {
		writeU2(&body, uint16(f.flags))
		writeU2(&body, p.utf8(f.name))
		writeU2(&body, p.utf8(f.desc))
		var attrs attributes
		attrs.signature(p, f.signature)
		attrs.annotations(p, f.annotations)
		attrs.writeTo(&body)
	}

	writeU2(&body, uint16(len(c.methods)))
	for _, m := range c.methods {
		writeU2(&body, uint16(m.flags))
		writeU2(&body, p.utf8(m.name))
		writeU2(&body, p.utf8(m.desc))
		var attrs attributes
		if m.code != nil {
			attrs.add(p, "Code", m.code.assemble(p))
		}
		if len(m.throws) > 0 {
			var b bytes.Buffer
			writeU2(&b, uint16(len(m.throws)))
			for _, t := range m.throws {
				writeU2(&b, p.class(t))
			}
			attrs.add(p, "Exceptions", b.Bytes())
		}
		attrs.signature(p, m.signature)
		attrs.annotations(p, m.annotations)
		attrs.parameterAnnotations(p, m.desc, m.paramAnnotations)
		attrs.writeTo(&body)
	}

	var attrs attributes
	if c.sourceFile != "" {
		var b bytes.Buffer
		writeU2(&b, p.utf8(c.sourceFile))
		attrs.add(p, "SourceFile", b.Bytes())
	}
	attrs.signature(p, c.signature)
	if len(c.inner) > 0 {
		var b bytes.Buffer
		writeU2(&b, uint16(len(c.inner)))
		for _, ic := range c.inner {
			writeU2(&b, p.class(ic.inner))
			writeU2(&b, optional(ic.outer, p.class))
			writeU2(&b, optional(ic.simple, p.utf8))
			writeU2(&b, uint16(ic.flags))
		}
		attrs.add(p, "InnerClasses", b.Bytes())
	}
	if c.enclosing != nil {
		var b bytes.Buffer
		writeU2(&b, p.class(c.enclosing.Class))
		if c.enclosing.Name == "" {
			writeU2(&b, 0)
		} else {
			writeU2(&b, p.nameAndType(c.enclosing.Name, c.enclosing.Descriptor))
		}
		attrs.add(p, "EnclosingMethod", b.Bytes())
	}
	attrs.annotations(p, c.annotations)
	attrs.writeTo(&body)

	var out bytes.Buffer
	writeU4(&out, classfile.Magic)
	writeU2(&out, 0)
	writeU2(&out, 52)
	p.writeTo(&out)
	out.Write(body.Bytes())
	return out.Bytes()
}

func optional(s string, index func(string) uint16) uint16 {
	if s == "" {
		return 0
	}
	return index(s)
}

type attributes struct {
	count int
	buf   bytes.Buffer
}

func (a *attributes) add(p *pool, name string, info []byte) {
	a.count++
	writeU2(&a.buf, p.utf8(name))
	writeU4(&a.buf, uint32(len(info)))
	a.buf.Write(info)
}

func (a *attributes) signature(p *pool, sig string) {
	if sig == "" {
		return
	}
	var b bytes.Buffer
	writeU2(&b, p.utf8(sig))
	a.add(p, "Signature", b.Bytes())
}

func (a *attributes) annotations(p *pool, anns []Annotation) {
	if len(anns) == 0 {
		return
	}
	var b bytes.Buffer
	writeU2(&b, uint16(len(anns)))
	for _, ann := range anns {
		ann.encode(p, &b)
	}
	a.add(p, "RuntimeVisibleAnnotations", b.Bytes())
}

func (a *attributes) parameterAnnotations(p *pool, desc string, params map[int][]Annotation) {
	if len(params) == 0 {
		return
	}
	md := classfile.ParseMethodDescriptor(desc)
	n := 0
	if md != nil {
		n = len(md.Parameters)
	}
	var b bytes.Buffer
	b.WriteByte(byte(n))
	for i := 0; i < n; i++ {
		writeU2(&b, uint16(len(params[i])))
		for _, ann := range params[i] {
			ann.encode(p, &b)
		}
	}
	a.add(p, "RuntimeVisibleParameterAnnotations", b.Bytes())
}

func (a *attributes) writeTo(buf *bytes.Buffer) {
	writeU2(buf, uint16(a.count))
	buf.Write(a.buf.Bytes())
}

var primitiveDescriptors = map[string]string{
	"byte": "B", "char": "C", "double": "D", "float": "F",
	"int": "I", "long": "J", "short": "S", "boolean": "Z", "void": "V",
}

// Descriptor converts a type name to a field descriptor.
func Descriptor(typeName string) string {
	dims := 0
	for isArrayName(typeName) {
		typeName = strings.TrimSuffix(typeName, "[]")
		dims++
	}
	d, ok := primitiveDescriptors[typeName]
	if !ok {
		d = "L" + classfile.SourceToInternalName(typeName) + ";"
	}
	return strings.Repeat("[", dims) + d
}

// MethodDescriptor builds a method descriptor from type names.
func MethodDescriptor(returnType string, params ...string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(Descriptor(p))
	}
	sb.WriteByte(')')
	sb.WriteString(Descriptor(returnType))
	return sb.String()
}

func isArrayName(name string) bool {
	return strings.HasSuffix(name, "[]")
}
