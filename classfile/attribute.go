package classfile

import "encoding/binary"

type CodeAttribute struct {
	MaxStack   uint16
	MaxLocals  uint16
	Code       []byte
	Handlers   []ExceptionHandler
	Attributes Attributes
}

type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType string
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type InnerClassEntry struct {
	Inner       string
	Outer       string
	SimpleName  string
	AccessFlags AccessFlags
}

type EnclosingMethod struct {
	Class      string
	Name       string
	Descriptor string
}

type Annotation struct {
	Type     string
	Elements []ElementValuePair
}

type ElementValuePair struct {
	Name  string
	Value ElementValue
}

// ElementValue is one annotation element. Value holds an int32, int64,
// float32, float64, bool or string for constants, an EnumConstValue, a
// ClassValue, an Annotation or an []ElementValue depending on Tag.
type ElementValue struct {
	Tag   byte
	Value any
}

type EnumConstValue struct {
	Type string
	Name string
}

// ClassValue is a class literal; Descriptor is a return descriptor, so "V"
// stands for void.class.
type ClassValue struct {
	Descriptor string
}

type ParameterAnnotations [][]Annotation

// cursor reads big-endian values from an attribute body and remembers when
// it ran past the end.
type cursor struct {
	buf   []byte
	off   int
	short bool
}

func (c *cursor) take(n int) []byte {
	if c.short || n < 0 || c.off+n > len(c.buf) {
		c.short = true
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) u1() uint8 {
	if b := c.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *cursor) u2() uint16 {
	if b := c.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (c *cursor) u4() uint32 {
	if b := c.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func decodeAttribute(name string, info []byte, cp ConstantPool) any {
	c := &cursor{buf: info}
	var v any
	switch name {
	case "Code":
		v = decodeCode(c, cp)
	case "LineNumberTable":
		v = decodeLineNumbers(c)
	case "SourceFile":
		v = cp.Utf8(c.u2())
	case "Signature":
		v = cp.Utf8(c.u2())
	case "Exceptions":
		v = decodeClassList(c, cp)
	case "InnerClasses":
		v = decodeInnerClasses(c, cp)
	case "EnclosingMethod":
		v = decodeEnclosingMethod(c, cp)
	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		v = decodeAnnotations(c, cp)
	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		v = decodeParameterAnnotations(c, cp)
	case "AnnotationDefault":
		v = decodeElementValue(c, cp)
	default:
		return nil
	}
	if c.short {
		return nil
	}
	return v
}

func decodeCode(c *cursor, cp ConstantPool) *CodeAttribute {
	code := &CodeAttribute{MaxStack: c.u2(), MaxLocals: c.u2()}
	code.Code = c.take(int(c.u4()))
	code.Handlers = make([]ExceptionHandler, c.u2())
	for i := range code.Handlers {
		code.Handlers[i] = ExceptionHandler{
			StartPC:   c.u2(),
			EndPC:     c.u2(),
			HandlerPC: c.u2(),
			CatchType: cp.ClassName(c.u2()),
		}
	}
	code.Attributes = make(Attributes, c.u2())
	for i := range code.Attributes {
		name := cp.Utf8(c.u2())
		info := c.take(int(c.u4()))
		code.Attributes[i] = AttributeInfo{Name: name, Info: info, Parsed: decodeAttribute(name, info, cp)}
	}
	return code
}

func decodeLineNumbers(c *cursor) []LineNumberEntry {
	entries := make([]LineNumberEntry, c.u2())
	for i := range entries {
		entries[i] = LineNumberEntry{StartPC: c.u2(), LineNumber: c.u2()}
	}
	return entries
}

func decodeClassList(c *cursor, cp ConstantPool) []string {
	names := make([]string, c.u2())
	for i := range names {
		names[i] = cp.ClassName(c.u2())
	}
	return names
}

func decodeInnerClasses(c *cursor, cp ConstantPool) []InnerClassEntry {
	entries := make([]InnerClassEntry, c.u2())
	for i := range entries {
		entries[i] = InnerClassEntry{
			Inner:       cp.ClassName(c.u2()),
			Outer:       cp.ClassName(c.u2()),
			SimpleName:  cp.Utf8(c.u2()),
			AccessFlags: AccessFlags(c.u2()),
		}
	}
	return entries
}

func decodeEnclosingMethod(c *cursor, cp ConstantPool) *EnclosingMethod {
	em := &EnclosingMethod{Class: cp.ClassName(c.u2())}
	em.Name, em.Descriptor = cp.NameAndType(c.u2())
	return em
}

func decodeAnnotations(c *cursor, cp ConstantPool) []Annotation {
	anns := make([]Annotation, c.u2())
	for i := range anns {
		anns[i] = decodeAnnotation(c, cp)
	}
	return anns
}

func decodeParameterAnnotations(c *cursor, cp ConstantPool) ParameterAnnotations {
	params := make(ParameterAnnotations, c.u1())
	for i := range params {
		params[i] = decodeAnnotations(c, cp)
	}
	return params
}

func decodeAnnotation(c *cursor, cp ConstantPool) Annotation {
	ann := Annotation{Type: cp.Utf8(c.u2())}
	ann.Elements = make([]ElementValuePair, c.u2())
	for i := range ann.Elements {
		ann.Elements[i].Name = cp.Utf8(c.u2())
		ann.Elements[i].Value = decodeElementValue(c, cp)
		if c.short {
			ann.Elements = ann.Elements[:i]
			break
		}
	}
	return ann
}

func decodeElementValue(c *cursor, cp ConstantPool) ElementValue {
	ev := ElementValue{Tag: c.u1()}
	switch ev.Tag {
	case 'B', 'C', 'I', 'S':
		v, _ := cp.Constant(c.u2())
		ev.Value = v
	case 'Z':
		v, _ := cp.Constant(c.u2())
		i, _ := v.(int32)
		ev.Value = i != 0
	case 'D', 'F', 'J', 's':
		v, _ := cp.Constant(c.u2())
		ev.Value = v
	case 'e':
		ev.Value = EnumConstValue{Type: cp.Utf8(c.u2()), Name: cp.Utf8(c.u2())}
	case 'c':
		ev.Value = ClassValue{Descriptor: cp.Utf8(c.u2())}
	case '@':
		ev.Value = decodeAnnotation(c, cp)
	case '[':
		values := make([]ElementValue, c.u2())
		for i := range values {
			values[i] = decodeElementValue(c, cp)
		}
		ev.Value = values
	default:
		c.short = true
	}
	return ev
}
