package classfile

import (
	"fmt"
	"io"
	"strings"
)

// ClassRecord is the raw, name-based description of one class file. Every
// reference to another class is a plain type name; nothing is resolved.
type ClassRecord struct {
	Name           string
	AccessFlags    AccessFlags
	SuperName      string
	InterfaceNames []string
	Signature      string
	SourceFile     string
	MajorVersion   uint16
	MinorVersion   uint16

	// EnclosingClass is set for member, local and anonymous classes.
	EnclosingClass  string
	SimpleName      string
	EnclosingMethod *EnclosingMethod

	Fields      []FieldRecord
	Methods     []MethodRecord
	Annotations []Annotation

	Fingerprint uint64
	// Problems lists parts of the file that could only be read partially.
	Problems []string
}

type FieldRecord struct {
	Name        string
	Descriptor  string
	Signature   string
	AccessFlags AccessFlags
	Annotations []Annotation
}

type MethodRecord struct {
	Name                 string
	Descriptor           string
	Signature            string
	AccessFlags          AccessFlags
	Exceptions           []string
	Annotations          []Annotation
	ParameterAnnotations ParameterAnnotations
	Accesses             []AccessRecord
}

func (m *MethodRecord) IsConstructor() bool       { return m.Name == "<init>" }
func (m *MethodRecord) IsStaticInitializer() bool { return m.Name == "<clinit>" }

// Read parses a complete class file from r.
func Read(r io.Reader) (*ClassRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, malformed(err, "read class file")
	}
	return ReadBytes(data)
}

func ReadBytes(data []byte) (*ClassRecord, error) {
	cf, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	rec := NewRecord(cf)
	if rec.Fingerprint, err = Fingerprint(data); err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", rec.Name, err)
	}
	return rec, nil
}

// NewRecord converts a decoded class file to its name-based form.
func NewRecord(cf *ClassFile) *ClassRecord {
	cp := cf.ConstantPool
	rec := &ClassRecord{
		Name:         InternalToSourceName(cf.ClassName()),
		AccessFlags:  cf.AccessFlags,
		MajorVersion: cf.MajorVersion,
		MinorVersion: cf.MinorVersion,
		Signature:    findAttribute[string](cf.Attributes, "Signature"),
		SourceFile:   findAttribute[string](cf.Attributes, "SourceFile"),
		Annotations:  annotationsOf(cf.Attributes),
	}
	if super := cf.SuperClassName(); super != "" {
		rec.SuperName = InternalToSourceName(super)
	}
	for _, iface := range cf.InterfaceNames() {
		if iface != "" {
			rec.InterfaceNames = append(rec.InterfaceNames, InternalToSourceName(iface))
		}
	}

	self := cf.ClassName()
	for _, ic := range findAttribute[[]InnerClassEntry](cf.Attributes, "InnerClasses") {
		if ic.Inner != self {
			continue
		}
		rec.AccessFlags = ic.AccessFlags | (cf.AccessFlags & AccSuper)
		rec.SimpleName = ic.SimpleName
		if ic.Outer != "" {
			rec.EnclosingClass = InternalToSourceName(ic.Outer)
		}
	}
	if em := findAttribute[*EnclosingMethod](cf.Attributes, "EnclosingMethod"); em != nil && em.Class != "" {
		rec.EnclosingMethod = &EnclosingMethod{
			Class:      InternalToSourceName(em.Class),
			Name:       em.Name,
			Descriptor: em.Descriptor,
		}
		if rec.EnclosingClass == "" {
			rec.EnclosingClass = rec.EnclosingMethod.Class
		}
	}
	if rec.SimpleName == "" && rec.EnclosingClass == "" {
		rec.SimpleName = simpleNameOf(rec.Name)
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		rec.Fields = append(rec.Fields, FieldRecord{
			Name:        f.Name(cp),
			Descriptor:  f.Descriptor(cp),
			Signature:   findAttribute[string](f.Attributes, "Signature"),
			AccessFlags: f.AccessFlags,
			Annotations: annotationsOf(f.Attributes),
		})
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		mr := MethodRecord{
			Name:        m.Name(cp),
			Descriptor:  m.Descriptor(cp),
			Signature:   findAttribute[string](m.Attributes, "Signature"),
			AccessFlags: m.AccessFlags,
			Annotations: annotationsOf(m.Attributes),
		}
		for _, ex := range findAttribute[[]string](m.Attributes, "Exceptions") {
			if ex != "" {
				mr.Exceptions = append(mr.Exceptions, InternalToSourceName(ex))
			}
		}
		mr.ParameterAnnotations = parameterAnnotationsOf(m.Attributes)

		if hasAttribute(m.Attributes, "Code") {
			code := m.Code()
			if code == nil {
				rec.Problems = append(rec.Problems, fmt.Sprintf("method %s%s: unreadable Code attribute", mr.Name, mr.Descriptor))
			}
			accesses, err := ScanCode(code, cp)
			if err != nil {
				rec.Problems = append(rec.Problems, fmt.Sprintf("method %s%s: %v", mr.Name, mr.Descriptor, err))
			}
			mr.Accesses = accesses
		}
		rec.Methods = append(rec.Methods, mr)
	}
	return rec
}

func hasAttribute(as Attributes, name string) bool {
	for i := range as {
		if as[i].Name == name {
			return true
		}
	}
	return false
}

func annotationsOf(as Attributes) []Annotation {
	var anns []Annotation
	for _, name := range []string{"RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations"} {
		for i := range as {
			if as[i].Name == name {
				list, _ := as[i].Parsed.([]Annotation)
				anns = append(anns, list...)
			}
		}
	}
	return anns
}

func parameterAnnotationsOf(as Attributes) ParameterAnnotations {
	var merged ParameterAnnotations
	for _, name := range []string{"RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations"} {
		params, _ := as.Find(name).(ParameterAnnotations)
		for i, anns := range params {
			for len(merged) <= i {
				merged = append(merged, nil)
			}
			merged[i] = append(merged[i], anns...)
		}
	}
	return merged
}

func simpleNameOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '$'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name
}
