package java_test

import (
	"cmp"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

// graph is a minimal lookup that stubs every class it was not given.
type graph struct {
	classes map[string]*java.Class
}

func (g *graph) GetOrResolve(name string) *java.Class {
	if c, ok := g.classes[name]; ok {
		return c
	}
	c := java.NewStubClass(name, g)
	g.classes[name] = c
	return c
}

func importClasses(t *testing.T, classes ...*classgen.Class) *java.Classes {
	t.Helper()
	g := &graph{classes: map[string]*java.Class{}}
	var imported []*java.Class
	for _, cg := range classes {
		rec, err := classfile.ReadBytes(cg.Bytes())
		require.NoError(t, err)
		c := java.NewClass(rec, java.OriginImported)
		g.classes[rec.Name] = c
		imported = append(imported, c)
	}
	byName := func(a, b *java.Class) int { return cmp.Compare(a.Name(), b.Name()) }
	slices.SortFunc(imported, byName)

	completer := java.NewCompleter(g)
	for _, c := range imported {
		completer.Complete(c)
	}
	completer.LinkDependencies(imported)

	all := slices.SortedFunc(maps.Values(g.classes), byName)
	return java.NewClasses(imported, all)
}

func mustGet(t *testing.T, classes *java.Classes, name string) *java.Class {
	t.Helper()
	c, err := classes.Get(name)
	require.NoError(t, err)
	return c
}

func names[T java.Named](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Name()
	}
	return out
}
