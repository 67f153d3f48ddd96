package classgen

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dhamidi/classgraph/classfile"
)

type pool struct {
	entries [][]byte
	index   map[string]uint16
}

func newPool() *pool {
	return &pool{index: map[string]uint16{}}
}

func (p *pool) add(key string, entry []byte) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	p.entries = append(p.entries, entry)
	i := uint16(len(p.entries))
	p.index[key] = i
	return i
}

func (p *pool) utf8(s string) uint16 {
	b := []byte{byte(classfile.ConstantUtf8)}
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return p.add("u:"+s, append(b, s...))
}

// class adds a Class constant; name is a dotted type name or an array type
// name such as "java.lang.String[]".
func (p *pool) class(name string) uint16 {
	internal := classfile.SourceToInternalName(name)
	if isArrayName(name) {
		internal = Descriptor(name)
	}
	ref := p.utf8(internal)
	return p.add("c:"+internal, u2entry(classfile.ConstantClass, ref))
}

func (p *pool) str(s string) uint16 {
	return p.add("s:"+s, u2entry(classfile.ConstantString, p.utf8(s)))
}

func (p *pool) integer(v int32) uint16 {
	b := []byte{byte(classfile.ConstantInteger)}
	return p.add(fmt.Sprintf("i:%d", v), binary.BigEndian.AppendUint32(b, uint32(v)))
}

// long occupies two slots.
func (p *pool) long(v int64) uint16 {
	key := fmt.Sprintf("j:%d", v)
	if i, ok := p.index[key]; ok {
		return i
	}
	b := []byte{byte(classfile.ConstantLong)}
	i := p.add(key, binary.BigEndian.AppendUint64(b, uint64(v)))
	p.entries = append(p.entries, nil)
	return i
}

func (p *pool) nameAndType(name, desc string) uint16 {
	n, d := p.utf8(name), p.utf8(desc)
	b := []byte{byte(classfile.ConstantNameAndType)}
	b = binary.BigEndian.AppendUint16(b, n)
	return p.add("nt:"+name+":"+desc, binary.BigEndian.AppendUint16(b, d))
}

func (p *pool) memberref(tag classfile.ConstantTag, owner, name, desc string) uint16 {
	c, nt := p.class(owner), p.nameAndType(name, desc)
	b := []byte{byte(tag)}
	b = binary.BigEndian.AppendUint16(b, c)
	return p.add(fmt.Sprintf("m%d:%s.%s:%s", tag, owner, name, desc), binary.BigEndian.AppendUint16(b, nt))
}

func (p *pool) writeTo(buf *bytes.Buffer) {
	writeU2(buf, uint16(len(p.entries)+1))
	for _, e := range p.entries {
		buf.Write(e)
	}
}

func u2entry(tag classfile.ConstantTag, v uint16) []byte {
	return binary.BigEndian.AppendUint16([]byte{byte(tag)}, v)
}

func writeU2(buf *bytes.Buffer, v uint16) {
	buf.Write(binary.BigEndian.AppendUint16(nil, v))
}

func writeU4(buf *bytes.Buffer, v uint32) {
	buf.Write(binary.BigEndian.AppendUint32(nil, v))
}
