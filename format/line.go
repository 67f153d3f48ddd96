package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/classgraph/java"
)

// LineEncoder writes one tab separated record per line, starting with the
// class itself followed by its members and dependencies.
type LineEncoder struct {
	w     io.Writer
	class *java.Class
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", c.Kind(), c.Name(), modifiersStr(c.Modifiers()))
	if s := c.GenericSuperclass(); s != nil {
		fmt.Fprintf(&sb, "extends\t%s\n", s.Name())
	}
	for _, iface := range c.GenericInterfaces() {
		fmt.Fprintf(&sb, "implements\t%s\n", iface.Name())
	}

	for _, f := range c.Fields() {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
			f.Name(),
			f.Type().Name(),
			modifiersStr(f.Modifiers()),
		)
	}

	for _, u := range c.CodeUnits() {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n",
			strings.ToLower(strings.ReplaceAll(u.Kind().String(), " ", "-")),
			u.Name(),
			u.ReturnType().Name(),
			parametersStr(u.Parameters()),
			modifiersStr(u.Modifiers()),
		)
	}

	for _, d := range c.DependenciesFromSelf() {
		fmt.Fprintf(&sb, "dependency\t%s\t%s\t%d\n", d.Kind, d.Target.Name(), d.Line)
	}

	return []byte(sb.String()), nil
}

func modifiersStr(mods java.Modifiers) string {
	names := mods.Names()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func parametersStr(params []*java.Parameter) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type().Name())
	}
	return strings.Join(parts, ",")
}
