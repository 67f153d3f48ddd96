package format

import (
	"encoding"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/classgraph/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.Class) error
}

// Names lists the formats New accepts.
var Names = []string{"json", "yaml", "line"}

func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected %s)", name, strings.Join(Names, ", "))
}

// classDocument is the serialized form of one class shared by the JSON and
// YAML encoders.
type classDocument struct {
	Name           string               `json:"name" yaml:"name"`
	SimpleName     string               `json:"simpleName" yaml:"simpleName"`
	Package        string               `json:"package" yaml:"package"`
	Kind           string               `json:"kind" yaml:"kind"`
	Origin         string               `json:"origin" yaml:"origin"`
	Modifiers      []string             `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Source         string               `json:"source,omitempty" yaml:"source,omitempty"`
	Superclass     string               `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces     []string             `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	TypeParameters []string             `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	Enclosing      string               `json:"enclosingClass,omitempty" yaml:"enclosingClass,omitempty"`
	Annotations    []string             `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Fields         []fieldDocument      `json:"fields,omitempty" yaml:"fields,omitempty"`
	CodeUnits      []codeUnitDocument   `json:"codeUnits,omitempty" yaml:"codeUnits,omitempty"`
	Dependencies   []dependencyDocument `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

type fieldDocument struct {
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

type codeUnitDocument struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Name       string   `json:"name" yaml:"name"`
	Parameters []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType string   `json:"returnType" yaml:"returnType"`
	Throws     []string `json:"throws,omitempty" yaml:"throws,omitempty"`
	Modifiers  []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

type dependencyDocument struct {
	Kind        string `json:"kind" yaml:"kind"`
	Target      string `json:"target" yaml:"target"`
	Line        int    `json:"line,omitempty" yaml:"line,omitempty"`
	Description string `json:"description" yaml:"description"`
}

func describeClass(c *java.Class) classDocument {
	doc := classDocument{
		Name:        c.Name(),
		SimpleName:  c.SimpleName(),
		Package:     c.PackageName(),
		Kind:        string(c.Kind()),
		Origin:      c.Origin().String(),
		Modifiers:   c.Modifiers().Names(),
		Source:      c.SourceFile(),
		Interfaces:  typeNames(c.GenericInterfaces()),
		Annotations: annotationNames(c.Annotations()),
	}
	if s := c.GenericSuperclass(); s != nil {
		doc.Superclass = s.Name()
	}
	if e := c.EnclosingClass(); e != nil {
		doc.Enclosing = e.Name()
	}
	for _, tv := range c.TypeParameters() {
		doc.TypeParameters = append(doc.TypeParameters, tv.Declaration())
	}
	for _, f := range c.Fields() {
		doc.Fields = append(doc.Fields, fieldDocument{
			Name:      f.Name(),
			Type:      f.Type().Name(),
			Modifiers: f.Modifiers().Names(),
		})
	}
	for _, u := range c.CodeUnits() {
		unit := codeUnitDocument{
			Kind:       u.Kind().String(),
			Name:       u.Name(),
			ReturnType: u.ReturnType().Name(),
			Modifiers:  u.Modifiers().Names(),
		}
		for _, p := range u.Parameters() {
			unit.Parameters = append(unit.Parameters, p.Type().Name())
		}
		for _, t := range u.ThrowsClause() {
			unit.Throws = append(unit.Throws, t.Name())
		}
		doc.CodeUnits = append(doc.CodeUnits, unit)
	}
	for _, d := range c.DependenciesFromSelf() {
		doc.Dependencies = append(doc.Dependencies, dependencyDocument{
			Kind:        d.Kind.String(),
			Target:      d.Target.Name(),
			Line:        d.Line,
			Description: d.Description,
		})
	}
	return doc
}

func typeNames(types []java.Type) []string {
	var names []string
	for _, t := range types {
		names = append(names, t.Name())
	}
	return names
}

func annotationNames(anns []*java.Annotation) []string {
	var names []string
	for _, a := range anns {
		names = append(names, "@"+a.Type().Name())
	}
	return names
}
