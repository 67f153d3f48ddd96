package classfile

import (
	"encoding/binary"
	"fmt"
	"sort"
)

type AccessKind uint8

const (
	AccessMethodCall AccessKind = iota + 1
	AccessConstructorCall
	AccessFieldGet
	AccessFieldSet
	AccessInstanceof
	AccessCheckcast
	AccessClassObject
)

func (k AccessKind) String() string {
	switch k {
	case AccessMethodCall:
		return "method call"
	case AccessConstructorCall:
		return "constructor call"
	case AccessFieldGet:
		return "field get"
	case AccessFieldSet:
		return "field set"
	case AccessInstanceof:
		return "instanceof"
	case AccessCheckcast:
		return "checkcast"
	case AccessClassObject:
		return "class object"
	}
	return fmt.Sprintf("AccessKind(%d)", uint8(k))
}

// AccessRecord is one instruction that refers to another class. Name and
// Descriptor are empty for the type-only kinds.
type AccessRecord struct {
	Kind       AccessKind
	Opcode     uint8
	Owner      string
	Name       string
	Descriptor string
	Line       int
}

var fixedLength [256]int8

func init() {
	set := func(from, to int, n int8) {
		for op := from; op <= to; op++ {
			fixedLength[op] = n
		}
	}
	set(0x00, 0xc9, 1)
	fixedLength[OpBipush] = 2
	fixedLength[OpSipush] = 3
	fixedLength[OpLdc] = 2
	set(OpLdcW, OpLdc2W, 3)
	set(OpIload, OpAload, 2)
	set(OpIstore, OpAstore, 2)
	fixedLength[OpIinc] = 3
	set(OpIfeq, OpJsr, 3)
	fixedLength[OpRet] = 2
	set(OpGetstatic, OpInvokestatic, 3)
	set(OpInvokeinterface, OpInvokedynamic, 5)
	fixedLength[OpNew] = 3
	fixedLength[OpNewarray] = 2
	fixedLength[OpAnewarray] = 3
	set(OpCheckcast, OpInstanceof, 3)
	fixedLength[OpMultianewarray] = 4
	set(OpIfnull, OpIfnonnull, 3)
	set(OpGotoW, OpJsrW, 5)
	// variable length
	fixedLength[OpTableswitch] = 0
	fixedLength[OpLookupswitch] = 0
	fixedLength[OpWide] = 0
}

// lineTable maps bytecode offsets to source lines.
type lineTable []LineNumberEntry

func newLineTable(code *CodeAttribute) lineTable {
	var lines lineTable
	for _, a := range code.Attributes {
		if entries, ok := a.Parsed.([]LineNumberEntry); ok {
			lines = append(lines, entries...)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].StartPC < lines[j].StartPC })
	return lines
}

func (t lineTable) lineAt(pc int) int {
	i := sort.Search(len(t), func(i int) bool { return int(t[i].StartPC) > pc })
	if i == 0 {
		return 0
	}
	return int(t[i-1].LineNumber)
}

// ScanCode walks the instruction stream of a method body and returns every
// instruction that references a member or class through the constant pool.
// On a truncated or unknown instruction it returns what was found so far
// together with an error.
func ScanCode(code *CodeAttribute, cp ConstantPool) ([]AccessRecord, error) {
	if code == nil {
		return nil, nil
	}
	lines := newLineTable(code)
	bc := code.Code
	var accesses []AccessRecord

	u2 := func(at int) uint16 { return binary.BigEndian.Uint16(bc[at:]) }
	u4 := func(at int) int { return int(int32(binary.BigEndian.Uint32(bc[at:]))) }

	for pc := 0; pc < len(bc); {
		op := bc[pc]
		n := int(fixedLength[op])
		switch op {
		case OpTableswitch, OpLookupswitch:
			base := pc + 1 + (3 - pc%4)
			header := 8
			if op == OpTableswitch {
				header = 12
			}
			if base+header > len(bc) {
				return accesses, fmt.Errorf("truncated switch at %d", pc)
			}
			if op == OpTableswitch {
				low, high := u4(base+4), u4(base+8)
				if high < low {
					return accesses, fmt.Errorf("invalid tableswitch range at %d", pc)
				}
				n = base + 12 + (high-low+1)*4 - pc
			} else {
				pairs := u4(base + 4)
				if pairs < 0 {
					return accesses, fmt.Errorf("invalid lookupswitch at %d", pc)
				}
				n = base + 8 + pairs*8 - pc
			}
		case OpWide:
			if pc+1 >= len(bc) {
				return accesses, fmt.Errorf("truncated wide at %d", pc)
			}
			n = 4
			if bc[pc+1] == OpIinc {
				n = 6
			}
		}
		if n == 0 {
			return accesses, fmt.Errorf("unknown opcode 0x%02x at %d", op, pc)
		}
		if pc+n > len(bc) {
			return accesses, fmt.Errorf("truncated instruction 0x%02x at %d", op, pc)
		}

		if a, ok := decodeAccess(op, bc[pc:pc+n], u2, pc, cp); ok {
			a.Line = lines.lineAt(pc)
			accesses = append(accesses, a)
		}
		pc += n
	}
	return accesses, nil
}

func decodeAccess(op uint8, insn []byte, u2 func(int) uint16, pc int, cp ConstantPool) (AccessRecord, bool) {
	a := AccessRecord{Opcode: op}
	switch op {
	case OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpInvokeinterface:
		owner, name, desc, ok := cp.Memberref(u2(pc + 1))
		if !ok {
			return a, false
		}
		a.Kind = AccessMethodCall
		if name == "<init>" {
			a.Kind = AccessConstructorCall
		}
		a.Owner, a.Name, a.Descriptor = ClassConstantTypeName(owner), name, desc
	case OpGetstatic, OpGetfield, OpPutstatic, OpPutfield:
		owner, name, desc, ok := cp.Memberref(u2(pc + 1))
		if !ok {
			return a, false
		}
		a.Kind = AccessFieldGet
		if op == OpPutstatic || op == OpPutfield {
			a.Kind = AccessFieldSet
		}
		a.Owner, a.Name, a.Descriptor = ClassConstantTypeName(owner), name, desc
	case OpInstanceof, OpCheckcast:
		name := cp.ClassName(u2(pc + 1))
		if name == "" {
			return a, false
		}
		a.Kind = AccessInstanceof
		if op == OpCheckcast {
			a.Kind = AccessCheckcast
		}
		a.Owner = ClassConstantTypeName(name)
	case OpLdc, OpLdcW:
		index := uint16(insn[1])
		if op == OpLdcW {
			index = u2(pc + 1)
		}
		name := cp.ClassName(index)
		if name == "" {
			return a, false
		}
		a.Kind = AccessClassObject
		a.Owner = ClassConstantTypeName(name)
	default:
		return a, false
	}
	return a, a.Owner != ""
}
