package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct{ Value string }
type ConstantIntegerInfo struct{ Value int32 }
type ConstantFloatInfo struct{ Value float32 }
type ConstantLongInfo struct{ Value int64 }
type ConstantDoubleInfo struct{ Value float64 }
type ConstantClassInfo struct{ NameIndex uint16 }
type ConstantStringInfo struct{ StringIndex uint16 }

// ConstantMemberrefInfo covers Fieldref, Methodref and InterfaceMethodref;
// they share a layout and differ only in their tag.
type ConstantMemberrefInfo struct {
	Kind             ConstantTag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type ConstantMethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

type ConstantMethodTypeInfo struct{ DescriptorIndex uint16 }

// ConstantDynamicInfo covers Dynamic and InvokeDynamic.
type ConstantDynamicInfo struct {
	Kind                     ConstantTag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

// ConstantNamedInfo covers Module and Package.
type ConstantNamedInfo struct {
	Kind      ConstantTag
	NameIndex uint16
}

func (*ConstantUtf8Info) Tag() ConstantTag         { return ConstantUtf8 }
func (*ConstantIntegerInfo) Tag() ConstantTag      { return ConstantInteger }
func (*ConstantFloatInfo) Tag() ConstantTag        { return ConstantFloat }
func (*ConstantLongInfo) Tag() ConstantTag         { return ConstantLong }
func (*ConstantDoubleInfo) Tag() ConstantTag       { return ConstantDouble }
func (*ConstantClassInfo) Tag() ConstantTag        { return ConstantClass }
func (*ConstantStringInfo) Tag() ConstantTag       { return ConstantString }
func (c *ConstantMemberrefInfo) Tag() ConstantTag  { return c.Kind }
func (*ConstantNameAndTypeInfo) Tag() ConstantTag  { return ConstantNameAndType }
func (*ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }
func (*ConstantMethodTypeInfo) Tag() ConstantTag   { return ConstantMethodType }
func (c *ConstantDynamicInfo) Tag() ConstantTag    { return c.Kind }
func (c *ConstantNamedInfo) Tag() ConstantTag      { return c.Kind }

// ConstantPool is indexed the way the class file indexes it: entry i lives at
// position i-1 and index 0 is never valid. The second slot of a long or
// double constant is nil.
type ConstantPool []ConstantPoolEntry

func entryAt[T ConstantPoolEntry](cp ConstantPool, index uint16) (T, bool) {
	var zero T
	if index == 0 || int(index) > len(cp) {
		return zero, false
	}
	e, ok := cp[index-1].(T)
	return e, ok
}

func (cp ConstantPool) Utf8(index uint16) string {
	if e, ok := entryAt[*ConstantUtf8Info](cp, index); ok {
		return e.Value
	}
	return ""
}

// ClassName returns the internal (slash separated) name of a Class constant.
func (cp ConstantPool) ClassName(index uint16) string {
	if e, ok := entryAt[*ConstantClassInfo](cp, index); ok {
		return cp.Utf8(e.NameIndex)
	}
	return ""
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string) {
	if e, ok := entryAt[*ConstantNameAndTypeInfo](cp, index); ok {
		return cp.Utf8(e.NameIndex), cp.Utf8(e.DescriptorIndex)
	}
	return "", ""
}

// Memberref resolves a field or method reference to its owner, name and
// descriptor.
func (cp ConstantPool) Memberref(index uint16) (owner, name, descriptor string, ok bool) {
	e, ok := entryAt[*ConstantMemberrefInfo](cp, index)
	if !ok {
		return "", "", "", false
	}
	name, descriptor = cp.NameAndType(e.NameAndTypeIndex)
	return cp.ClassName(e.ClassIndex), name, descriptor, true
}

// Constant returns the Go value of a loadable numeric or string constant.
func (cp ConstantPool) Constant(index uint16) (any, bool) {
	if index == 0 || int(index) > len(cp) {
		return nil, false
	}
	switch e := cp[index-1].(type) {
	case *ConstantIntegerInfo:
		return e.Value, true
	case *ConstantFloatInfo:
		return e.Value, true
	case *ConstantLongInfo:
		return e.Value, true
	case *ConstantDoubleInfo:
		return e.Value, true
	case *ConstantStringInfo:
		return cp.Utf8(e.StringIndex), true
	case *ConstantUtf8Info:
		return e.Value, true
	}
	return nil, false
}
