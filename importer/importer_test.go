package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/importer"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func writeClasses(t *testing.T, root string, classes ...*classgen.Class) {
	t.Helper()
	for _, c := range classes {
		rec, err := classfile.ReadBytes(c.Bytes())
		require.NoError(t, err)
		file := filepath.Join(root, filepath.FromSlash(classpath.RelativePath(rec.Name)))
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, c.Bytes(), 0o644))
	}
}

func records(t *testing.T, classes ...*classgen.Class) []*classfile.ClassRecord {
	t.Helper()
	out := make([]*classfile.ClassRecord, len(classes))
	for i, c := range classes {
		rec, err := classfile.ReadBytes(c.Bytes())
		require.NoError(t, err)
		out[i] = rec
	}
	return out
}

func noResolution() importer.Options {
	return importer.Options{Parallelism: 2}
}

func classNames(classes []*java.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name()
	}
	return out
}

func TestImportProducesOneNodePerName(t *testing.T) {
	a := classgen.New("app.A")
	a.Field("items", "java.util.List")
	b := classgen.New("app.B")
	b.Method("items", "()Ljava/util/List;")

	res, err := importer.New(noResolution()).ImportRecords(context.Background(), records(t, a, b)...)
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	classA, err := res.Classes.Get("app.A")
	require.NoError(t, err)
	classB, err := res.Classes.Get("app.B")
	require.NoError(t, err)
	field, err := classA.Field("items")
	require.NoError(t, err)
	method, err := classB.Method("items")
	require.NoError(t, err)

	assert.Same(t, field.RawType(), method.RawReturnType())
	assert.True(t, field.RawType().IsStub())
	assert.Same(t, classA.Superclass(), classB.Superclass())
	assert.Equal(t, []string{"app.A", "app.B"}, classNames(res.Classes.Slice()))
}

func TestImportOrdersOuterBeforeInner(t *testing.T) {
	outer := classgen.New("app.Outer").Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;")
	inner := classgen.New("app.Outer$Inner").
		InnerClass("app.Outer$Inner", "app.Outer", "Inner", classfile.AccPublic)
	inner.Field("value", "java.lang.Object").Signature("TT;")

	// the inner class comes first on purpose
	res, err := importer.New(noResolution()).ImportRecords(context.Background(), records(t, inner, outer)...)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.Outer", "app.Outer$Inner"}, classNames(res.Classes.Slice()))
	in, err := res.Classes.Get("app.Outer$Inner")
	require.NoError(t, err)
	f, err := in.Field("value")
	require.NoError(t, err)
	tv, ok := f.Type().(*java.TypeVariable)
	require.True(t, ok)
	assert.False(t, tv.IsStub())
	assert.Same(t, in.EnclosingClass().TypeParameters()[0], tv)
}

func TestImportStubsWithoutResolution(t *testing.T) {
	a := classgen.New("app.A").Implements("java.io.Serializable")
	a.Field("grid", "int[][]")

	res, err := importer.New(noResolution()).ImportRecords(context.Background(), records(t, a)...)
	require.NoError(t, err)
	classA, err := res.Classes.Get("app.A")
	require.NoError(t, err)

	object := classA.Superclass()
	assert.Equal(t, java.OriginStub, object.Origin())
	assert.Nil(t, object.Superclass())
	assert.Equal(t, java.OriginStub, classA.Interfaces()[0].Origin())

	f, err := classA.Field("grid")
	require.NoError(t, err)
	grid := f.RawType()
	assert.True(t, grid.IsArray())
	assert.Equal(t, "int[]", grid.ComponentType().Name())
	assert.Equal(t, "int", grid.BaseComponentType().Name())
	for _, m := range []java.Modifier{java.ModifierPublic, java.ModifierAbstract, java.ModifierFinal} {
		assert.True(t, grid.HasModifier(m))
		assert.True(t, grid.BaseComponentType().HasModifier(m))
	}

	all := classNames(res.Classes.All())
	assert.Contains(t, all, "int[][]")
	assert.Contains(t, all, "java.lang.Object")
	assert.IsIncreasing(t, all)
}

func TestImportUsesBuiltinCatalog(t *testing.T) {
	a := classgen.New("app.Names").Extends("java.util.ArrayList")

	opts := importer.Options{BuiltinFallback: true}
	res, err := importer.New(opts).ImportRecords(context.Background(), records(t, a)...)
	require.NoError(t, err)
	names, err := res.Classes.Get("app.Names")
	require.NoError(t, err)

	list := names.Superclass()
	assert.Equal(t, "java.util.ArrayList", list.Name())
	assert.Equal(t, java.OriginResolved, list.Origin())
	assert.Equal(t, "java.util.AbstractList", list.Superclass().Name())
	assert.True(t, names.IsAssignableTo("java.lang.Iterable"))
	assert.True(t, names.IsAssignableTo("java.util.Collection"))
	assert.False(t, list.IsDirectlyImported())
}

func TestImportResolvesFromClasspath(t *testing.T) {
	lib := t.TempDir()
	base := classgen.New("lib.Base").Source("Base.java")
	base.Method("helper", "()V")
	base.Field("state", "int").Access(classfile.AccProtected)
	writeClasses(t, lib, base)

	app := t.TempDir()
	child := classgen.New("app.Child").Extends("lib.Base").Source("Child.java")
	child.Method("run", "()V").Code(func(code *classgen.Code) {
		code.Line(5).InvokeVirtual("app.Child", "helper", "()V").
			Line(6).GetField("app.Child", "state", "I").
			Return()
	})
	writeClasses(t, app, child)

	opts := importer.DefaultOptions()
	opts.Classpath = []string{lib}
	res, err := importer.New(opts).Import(context.Background(), app)
	require.NoError(t, err)

	c, err := res.Classes.Get("app.Child")
	require.NoError(t, err)
	parent := c.Superclass()
	assert.Equal(t, java.OriginResolved, parent.Origin())
	assert.Equal(t, "java.lang.Object", parent.Superclass().Name())
	assert.False(t, res.Classes.Contain("lib.Base"))

	run, err := c.Method("run")
	require.NoError(t, err)
	accesses := run.AccessesFromSelf()
	require.Len(t, accesses, 2)
	helper, err := parent.Method("helper")
	require.NoError(t, err)
	assert.Same(t, helper, accesses[0].TargetCodeUnit())
	state, err := parent.Field("state")
	require.NoError(t, err)
	assert.Same(t, state, accesses[1].TargetField())
}

func TestImportKeepsFirstDefinition(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeClasses(t, first, classgen.New("app.Dup").Source("First.java"))
	writeClasses(t, second, classgen.New("app.Dup").Source("Second.java"))

	res, err := importer.New(noResolution()).Import(context.Background(), first, second)
	require.NoError(t, err)
	require.Equal(t, 1, res.Classes.Len())
	dup, err := res.Classes.Get("app.Dup")
	require.NoError(t, err)
	assert.Equal(t, "First.java", dup.SourceFile())
}

func TestImportRecordsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeClasses(t, dir, classgen.New("app.Good"))
	bad := filepath.Join(dir, "app", "Bad.class")
	require.NoError(t, os.WriteFile(bad, []byte("not a class"), 0o644))

	res, err := importer.New(noResolution()).Import(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, bad, res.Failures[0].Source)
	assert.ErrorIs(t, res.Failures[0].Err, classfile.ErrMalformed)
	assert.True(t, res.Classes.Contain("app.Good"))
}

func TestImportExcludesMatchingEntries(t *testing.T) {
	dir := t.TempDir()
	writeClasses(t, dir, classgen.New("app.Main"), classgen.New("app.MainTest"))

	opts := noResolution()
	opts.Exclude = []*regexp.Regexp{regexp.MustCompile(`Test\.class$`)}
	res, err := importer.New(opts).Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.Main"}, classNames(res.Classes.Slice()))
}

func TestImportFailsForMissingLocation(t *testing.T) {
	_, err := importer.New(noResolution()).Import(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	a := classgen.New("app.A").Extends("app.B")
	a.Method("call", "()V").Code(func(code *classgen.Code) {
		code.Line(3).InvokeVirtual("app.B", "work", "()V").Return()
	})
	b := classgen.New("app.B")
	b.Method("work", "()V")
	writeClasses(t, dir, a, b)

	im := importer.New(noResolution())
	first, err := im.Import(context.Background(), dir)
	require.NoError(t, err)
	second, err := im.Import(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, classNames(first.Classes.All()), classNames(second.Classes.All()))
	describe := func(res *importer.Result) []string {
		var out []string
		for _, c := range res.Classes.Slice() {
			for _, d := range c.DependenciesFromSelf() {
				out = append(out, d.Description)
			}
		}
		return out
	}
	assert.Equal(t, describe(first), describe(second))
	assert.NotEmpty(t, describe(first))
}
