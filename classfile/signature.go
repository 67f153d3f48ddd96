package classfile

import (
	"fmt"
	"strings"
)

// TypeSig is a node of a parsed generic signature: *BaseTypeSig,
// *ClassTypeSig, *TypeVarSig or *ArrayTypeSig.
type TypeSig interface {
	fmt.Stringer
	typeSig()
}

type BaseTypeSig struct {
	Name string
}

// ClassTypeSig names a class by its binary source name. For an inner class
// reached through a parameterized outer class, Owner carries the outer
// segment with its own arguments.
type ClassTypeSig struct {
	Name  string
	Args  []TypeArgSig
	Owner *ClassTypeSig
}

type TypeVarSig struct {
	Name string
}

type ArrayTypeSig struct {
	Component TypeSig
}

// Wildcard indicators of a type argument.
const (
	WildcardNone    byte = 0
	WildcardAny     byte = '*'
	WildcardExtends byte = '+'
	WildcardSuper   byte = '-'
)

type TypeArgSig struct {
	Wildcard byte
	// Type is nil for an unbounded wildcard.
	Type TypeSig
}

type TypeParameterSig struct {
	Name            string
	ClassBound      TypeSig
	InterfaceBounds []TypeSig
}

// Bounds returns the declared bounds, leftmost first.
func (p *TypeParameterSig) Bounds() []TypeSig {
	var bounds []TypeSig
	if p.ClassBound != nil {
		bounds = append(bounds, p.ClassBound)
	}
	return append(bounds, p.InterfaceBounds...)
}

type ClassSignature struct {
	TypeParameters []TypeParameterSig
	Superclass     *ClassTypeSig
	Interfaces     []*ClassTypeSig
}

type MethodSignature struct {
	TypeParameters []TypeParameterSig
	Parameters     []TypeSig
	// Return is nil for void.
	Return TypeSig
	Throws []TypeSig
}

func (*BaseTypeSig) typeSig()  {}
func (*ClassTypeSig) typeSig() {}
func (*TypeVarSig) typeSig()   {}
func (*ArrayTypeSig) typeSig() {}

func (s *BaseTypeSig) String() string  { return s.Name }
func (s *TypeVarSig) String() string   { return s.Name }
func (s *ArrayTypeSig) String() string { return s.Component.String() + "[]" }

func (s *ClassTypeSig) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return s.Name + "<" + strings.Join(args, ", ") + ">"
}

func (a TypeArgSig) String() string {
	switch a.Wildcard {
	case WildcardAny:
		return "?"
	case WildcardExtends:
		return "? extends " + a.Type.String()
	case WildcardSuper:
		return "? super " + a.Type.String()
	}
	return a.Type.String()
}

type sigParser struct {
	src string
	pos int
}

func (p *sigParser) fail(format string, args ...any) error {
	return fmt.Errorf("signature %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *sigParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.fail("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *sigParser) identifier() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(".;[/<>:", rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("expected identifier")
	}
	return p.src[start:p.pos], nil
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(sig string) (*ClassSignature, error) {
	p := &sigParser{src: sig}
	cs := &ClassSignature{}
	var err error
	if cs.TypeParameters, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if cs.Superclass, err = p.classType(); err != nil {
		return nil, err
	}
	for p.pos < len(p.src) {
		iface, err := p.classType()
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, iface)
	}
	return cs, nil
}

// ParseMethodSignature parses the Signature attribute of a method.
func ParseMethodSignature(sig string) (*MethodSignature, error) {
	p := &sigParser{src: sig}
	ms := &MethodSignature{}
	var err error
	if ms.TypeParameters, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.pos >= len(p.src) {
			return nil, p.fail("unterminated parameter list")
		}
		param, err := p.javaType()
		if err != nil {
			return nil, err
		}
		ms.Parameters = append(ms.Parameters, param)
	}
	p.pos++
	if p.peek() == 'V' {
		p.pos++
	} else if ms.Return, err = p.javaType(); err != nil {
		return nil, err
	}
	for p.peek() == '^' {
		p.pos++
		thrown, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		ms.Throws = append(ms.Throws, thrown)
	}
	if p.pos != len(p.src) {
		return nil, p.fail("trailing characters")
	}
	return ms, nil
}

// ParseFieldSignature parses the Signature attribute of a field.
func ParseFieldSignature(sig string) (TypeSig, error) {
	p := &sigParser{src: sig}
	t, err := p.referenceType()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.fail("trailing characters")
	}
	return t, nil
}

func (p *sigParser) typeParameters() ([]TypeParameterSig, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []TypeParameterSig
	for p.peek() != '>' {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		tp := TypeParameterSig{Name: name}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c != ':' && c != '>' {
			if tp.ClassBound, err = p.referenceType(); err != nil {
				return nil, err
			}
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			tp.InterfaceBounds = append(tp.InterfaceBounds, bound)
		}
		params = append(params, tp)
	}
	p.pos++
	if len(params) == 0 {
		return nil, p.fail("empty type parameter list")
	}
	return params, nil
}

func (p *sigParser) javaType() (TypeSig, error) {
	if base, ok := baseTypes[p.peek()]; ok && base != "void" {
		p.pos++
		return &BaseTypeSig{Name: base}, nil
	}
	return p.referenceType()
}

func (p *sigParser) referenceType() (TypeSig, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		return &TypeVarSig{Name: name}, nil
	case '[':
		p.pos++
		component, err := p.javaType()
		if err != nil {
			return nil, err
		}
		return &ArrayTypeSig{Component: component}, nil
	}
	return nil, p.fail("expected reference type")
}

func (p *sigParser) classType() (*ClassTypeSig, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	var name strings.Builder
	for {
		segment, err := p.identifier()
		if err != nil {
			return nil, err
		}
		name.WriteString(segment)
		if p.peek() != '/' {
			break
		}
		p.pos++
		name.WriteByte('.')
	}

	ct := &ClassTypeSig{Name: name.String()}
	for {
		if p.peek() == '<' {
			args, err := p.typeArguments()
			if err != nil {
				return nil, err
			}
			ct.Args = args
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		inner, err := p.identifier()
		if err != nil {
			return nil, err
		}
		ct = &ClassTypeSig{Name: ct.Name + "$" + inner, Owner: ct}
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *sigParser) typeArguments() ([]TypeArgSig, error) {
	p.pos++
	var args []TypeArgSig
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case 0:
			return nil, p.fail("unterminated type arguments")
		case '*':
			p.pos++
			args = append(args, TypeArgSig{Wildcard: WildcardAny})
		default:
			arg := TypeArgSig{}
			if c == '+' || c == '-' {
				arg.Wildcard = c
				p.pos++
			}
			t, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			arg.Type = t
			args = append(args, arg)
		}
	}
	p.pos++
	if len(args) == 0 {
		return nil, p.fail("empty type argument list")
	}
	return args, nil
}
