package classfile

// ClassFile is the structural decoding of one class file. Indexes are kept
// as they appear in the file; ClassRecord is the name-based view built on
// top of it.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   Attributes
}

// MemberInfo is a field_info or method_info structure.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      Attributes
}

type AttributeInfo struct {
	Name   string
	Info   []byte
	Parsed any
}

type Attributes []AttributeInfo

// Find returns the decoded value of the first attribute with the given name.
func (as Attributes) Find(name string) any {
	for i := range as {
		if as[i].Name == name {
			return as[i].Parsed
		}
	}
	return nil
}

func findAttribute[T any](as Attributes, name string) T {
	v, _ := as.Find(name).(T)
	return v
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.Utf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.Utf8(m.DescriptorIndex)
}

func (m *MemberInfo) Code() *CodeAttribute {
	return findAttribute[*CodeAttribute](m.Attributes, "Code")
}
