package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, WithSource(err, path)
	}
	return cf, nil
}

// ParseBytes decodes an in-memory class file.
func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

// Parse decodes the class file structure. Every failure is a
// *MalformedInputError.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, malformed(r.err, "read magic")
	}
	if magic != Magic {
		return nil, malformed(nil, "invalid magic number 0x%X", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	poolCount := r.readU2()
	if r.err != nil {
		return nil, malformed(r.err, "read header")
	}
	if poolCount == 0 {
		return nil, malformed(nil, "constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, poolCount-1)
	for i := uint16(1); i < poolCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, malformed(err, "read constant pool entry %d", i)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	cf.Interfaces = make([]uint16, r.readU2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, malformed(r.err, "read class info")
	}
	if cf.ClassName() == "" {
		return nil, malformed(nil, "this_class index %d is not a class constant", cf.ThisClass)
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, malformed(err, "read fields")
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, malformed(err, "read methods")
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, malformed(err, "read class attributes")
	}
	return cf, nil
}

func readConstantPoolEntry(r *reader) (entry ConstantPoolEntry, wide bool, err error) {
	tag := ConstantTag(r.readU1())
	switch tag {
	case ConstantUtf8:
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(r.readU2())))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantLongInfo{Value: int64(high)<<32 | int64(low)}, true
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}, true
	case ConstantClass:
		entry = &ConstantClassInfo{NameIndex: r.readU2()}
	case ConstantString:
		entry = &ConstantStringInfo{StringIndex: r.readU2()}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		entry = &ConstantMemberrefInfo{Kind: tag, ClassIndex: r.readU2(), NameAndTypeIndex: r.readU2()}
	case ConstantNameAndType:
		entry = &ConstantNameAndTypeInfo{NameIndex: r.readU2(), DescriptorIndex: r.readU2()}
	case ConstantMethodHandle:
		entry = &ConstantMethodHandleInfo{ReferenceKind: r.readU1(), ReferenceIndex: r.readU2()}
	case ConstantMethodType:
		entry = &ConstantMethodTypeInfo{DescriptorIndex: r.readU2()}
	case ConstantDynamic, ConstantInvokeDynamic:
		entry = &ConstantDynamicInfo{Kind: tag, BootstrapMethodAttrIndex: r.readU2(), NameAndTypeIndex: r.readU2()}
	case ConstantModule, ConstantPackage:
		entry = &ConstantNamedInfo{Kind: tag, NameIndex: r.readU2()}
	default:
		if r.err != nil {
			return nil, false, r.err
		}
		return nil, false, fmt.Errorf("unknown constant pool tag %d", tag)
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}

func readMembers(r *reader, cp ConstantPool) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]MemberInfo, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.NameIndex = r.readU2()
		m.DescriptorIndex = r.readU2()
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		m.Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) (Attributes, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make(Attributes, count)
	for i := range attrs {
		nameIndex := r.readU2()
		info := r.readBytes(int(r.readU4()))
		if r.err != nil {
			return nil, r.err
		}
		name := cp.Utf8(nameIndex)
		attrs[i] = AttributeInfo{Name: name, Info: info, Parsed: decodeAttribute(name, info, cp)}
	}
	return attrs, nil
}

func decodeModifiedUtf8(data []byte) string {
	runes := make([]rune, 0, len(data))
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(data):
			runes = append(runes, rune(b&0x1F)<<6|rune(data[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(data):
			r := rune(b&0x0F)<<12 | rune(data[i+1]&0x3F)<<6 | rune(data[i+2]&0x3F)
			// surrogate pairs are encoded as two three-byte sequences
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(data) && data[i+3] == 0xED {
				low := rune(data[i+3]&0x0F)<<12 | rune(data[i+4]&0x3F)<<6 | rune(data[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
