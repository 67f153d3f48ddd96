package classfile

import "strings"

type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

// String renders the type the way it is named in the class graph:
// "int", "java.lang.String", "java.util.Map$Entry[][]".
func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

func (ft *FieldType) IsPrimitive() bool {
	return ft.BaseType != "" && ft.ArrayDepth == 0
}

// Component returns the element type with all array dimensions removed.
func (ft *FieldType) Component() string {
	c := FieldType{BaseType: ft.BaseType, ClassName: ft.ClassName}
	return c.String()
}

type MethodDescriptor struct {
	Parameters []FieldType
	// ReturnType is nil for void.
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if md.ReturnType != nil {
		sb.WriteString(" ")
		sb.WriteString(md.ReturnType.String())
	} else {
		sb.WriteString(" void")
	}
	return sb.String()
}

// ParameterTypeNames returns the type names of all parameters.
func (md *MethodDescriptor) ParameterTypeNames() []string {
	names := make([]string, len(md.Parameters))
	for i := range md.Parameters {
		names[i] = md.Parameters[i].String()
	}
	return names
}

// ReturnTypeName returns "void" for void methods.
func (md *MethodDescriptor) ReturnTypeName() string {
	if md.ReturnType == nil {
		return "void"
	}
	return md.ReturnType.String()
}

// ParseFieldDescriptor returns nil unless desc is exactly one field type.
func ParseFieldDescriptor(desc string) *FieldType {
	ft, n := parseFieldType(desc, 0)
	if ft == nil || n != len(desc) {
		return nil
	}
	return ft
}

func ParseMethodDescriptor(desc string) *MethodDescriptor {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}

	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, consumed := parseFieldType(desc, i)
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
		i += consumed
	}
	if i >= len(desc) {
		return nil
	}
	i++

	switch {
	case i == len(desc)-1 && desc[i] == 'V':
	case i < len(desc):
		ft, consumed := parseFieldType(desc, i)
		if ft == nil || i+consumed != len(desc) {
			return nil
		}
		md.ReturnType = ft
	default:
		return nil
	}
	return md
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

func parseFieldType(desc string, start int) (*FieldType, int) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0
	}

	if desc[i] == 'L' {
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon <= 1 {
			return nil, 0
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1
	}
	base, ok := baseTypes[desc[i]]
	if !ok || (base == "void" && ft.ArrayDepth > 0) {
		return nil, 0
	}
	ft.BaseType = base
	return ft, i - start + 1
}

// DescriptorTypeName converts a field or return descriptor to a type name.
// It returns "" for anything that is not a single type.
func DescriptorTypeName(desc string) string {
	ft, n := parseFieldType(desc, 0)
	if ft == nil || n != len(desc) {
		return ""
	}
	return ft.String()
}

// ClassConstantTypeName converts the name stored in a Class constant, which
// is either an internal name or an array descriptor, to a type name.
func ClassConstantTypeName(name string) string {
	if strings.HasPrefix(name, "[") {
		return DescriptorTypeName(name)
	}
	return InternalToSourceName(name)
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// IsPrimitiveName reports whether name is one of the primitive type names,
// including void.
func IsPrimitiveName(name string) bool {
	for _, b := range baseTypes {
		if b == name {
			return true
		}
	}
	return false
}

// ArrayComponentName strips one trailing "[]" from an array type name.
func ArrayComponentName(name string) (string, bool) {
	return strings.CutSuffix(name, "[]")
}
