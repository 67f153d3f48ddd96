package classgen

import (
	"bytes"

	"github.com/dhamidi/classgraph/classfile"
)

// Code collects the instructions of one method body. Instructions refer to
// the constant pool through deferred fixups, so a Code can be written before
// the class is assembled.
type Code struct {
	insns []insn
	lines []lineMark
}

type insn struct {
	op   byte
	emit func(p *pool, pc int) []byte
}

type lineMark struct {
	insn int
	line uint16
}

// Line marks the next instruction as the start of source line n.
func (c *Code) Line(n int) *Code {
	c.lines = append(c.lines, lineMark{insn: len(c.insns), line: uint16(n)})
	return c
}

// Op appends a raw instruction.
func (c *Code) Op(op byte, operands ...byte) *Code {
	c.insns = append(c.insns, insn{op: op, emit: func(*pool, int) []byte {
		return append([]byte{op}, operands...)
	}})
	return c
}

func (c *Code) member(op byte, tag classfile.ConstantTag, owner, name, desc string) *Code {
	c.insns = append(c.insns, insn{op: op, emit: func(p *pool, _ int) []byte {
		i := p.memberref(tag, owner, name, desc)
		b := []byte{op, byte(i >> 8), byte(i)}
		if op == classfile.OpInvokeinterface {
			b = append(b, 1, 0)
		}
		return b
	}})
	return c
}

func (c *Code) classOp(op byte, name string) *Code {
	c.insns = append(c.insns, insn{op: op, emit: func(p *pool, _ int) []byte {
		i := p.class(name)
		return []byte{op, byte(i >> 8), byte(i)}
	}})
	return c
}

func (c *Code) InvokeVirtual(owner, name, desc string) *Code {
	return c.member(classfile.OpInvokevirtual, classfile.ConstantMethodref, owner, name, desc)
}

func (c *Code) InvokeSpecial(owner, name, desc string) *Code {
	return c.member(classfile.OpInvokespecial, classfile.ConstantMethodref, owner, name, desc)
}

func (c *Code) InvokeStatic(owner, name, desc string) *Code {
	return c.member(classfile.OpInvokestatic, classfile.ConstantMethodref, owner, name, desc)
}

func (c *Code) InvokeInterface(owner, name, desc string) *Code {
	return c.member(classfile.OpInvokeinterface, classfile.ConstantInterfaceMethodref, owner, name, desc)
}

func (c *Code) GetField(owner, name, desc string) *Code {
	return c.member(classfile.OpGetfield, classfile.ConstantFieldref, owner, name, desc)
}

func (c *Code) PutField(owner, name, desc string) *Code {
	return c.member(classfile.OpPutfield, classfile.ConstantFieldref, owner, name, desc)
}

func (c *Code) GetStatic(owner, name, desc string) *Code {
	return c.member(classfile.OpGetstatic, classfile.ConstantFieldref, owner, name, desc)
}

func (c *Code) PutStatic(owner, name, desc string) *Code {
	return c.member(classfile.OpPutstatic, classfile.ConstantFieldref, owner, name, desc)
}

func (c *Code) New(name string) *Code        { return c.classOp(classfile.OpNew, name) }
func (c *Code) InstanceOf(name string) *Code { return c.classOp(classfile.OpInstanceof, name) }
func (c *Code) CheckCast(name string) *Code  { return c.classOp(classfile.OpCheckcast, name) }

// LdcClass loads a class literal with ldc_w.
func (c *Code) LdcClass(name string) *Code { return c.classOp(classfile.OpLdcW, name) }

// LdcLong loads a long constant, which occupies two constant pool slots.
func (c *Code) LdcLong(v int64) *Code {
	c.insns = append(c.insns, insn{op: classfile.OpLdc2W, emit: func(p *pool, _ int) []byte {
		i := p.long(v)
		return []byte{classfile.OpLdc2W, byte(i >> 8), byte(i)}
	}})
	return c
}

// TableSwitch emits a tableswitch whose targets all jump to the next
// instruction.
func (c *Code) TableSwitch(low, high int32) *Code {
	c.insns = append(c.insns, insn{op: classfile.OpTableswitch, emit: func(_ *pool, pc int) []byte {
		var b bytes.Buffer
		b.WriteByte(classfile.OpTableswitch)
		for (pc+b.Len())%4 != 0 {
			b.WriteByte(0)
		}
		n := int(high - low + 1)
		size := int32(b.Len() + 12 + 4*n)
		writeU4(&b, uint32(size))
		writeU4(&b, uint32(low))
		writeU4(&b, uint32(high))
		for i := 0; i < n; i++ {
			writeU4(&b, uint32(size))
		}
		return b.Bytes()
	}})
	return c
}

func (c *Code) Return() *Code {
	return c.Op(0xb1)
}

func (c *Code) assemble(p *pool) []byte {
	var code bytes.Buffer
	starts := make([]int, len(c.insns))
	for i, in := range c.insns {
		starts[i] = code.Len()
		code.Write(in.emit(p, code.Len()))
	}

	var b bytes.Buffer
	writeU2(&b, 8)
	writeU2(&b, 8)
	writeU4(&b, uint32(code.Len()))
	b.Write(code.Bytes())
	writeU2(&b, 0)

	if len(c.lines) == 0 {
		writeU2(&b, 0)
		return b.Bytes()
	}
	var lnt bytes.Buffer
	writeU2(&lnt, uint16(len(c.lines)))
	for _, m := range c.lines {
		pc := code.Len()
		if m.insn < len(starts) {
			pc = starts[m.insn]
		}
		writeU2(&lnt, uint16(pc))
		writeU2(&lnt, m.line)
	}
	writeU2(&b, 1)
	writeU2(&b, p.utf8("LineNumberTable"))
	writeU4(&b, uint32(lnt.Len()))
	b.Write(lnt.Bytes())
	return b.Bytes()
}
