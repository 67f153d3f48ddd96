package java_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func TestPackageTree(t *testing.T) {
	classes := importClasses(t,
		classgen.New("java.lang.Object").Extends(""),
		classgen.Interface("java.util.List"),
	)
	root := classes.DefaultPackage()

	assert.Empty(t, root.Name())
	assert.Empty(t, root.RelativeName())
	assert.Nil(t, root.Parent())

	javaPkg, err := root.Package("java")
	require.NoError(t, err)
	assert.Equal(t, []string{"java.lang", "java.util"}, names(javaPkg.SubPackages()))

	lang, err := javaPkg.Package("lang")
	require.NoError(t, err)
	assert.Equal(t, "java.lang", lang.Name())
	assert.Equal(t, "lang", lang.RelativeName())
	assert.Equal(t, "Package <java.lang>", lang.Description())
	assert.Same(t, javaPkg, lang.Parent())

	self, err := classes.Package("")
	require.NoError(t, err)
	assert.Same(t, root, self)
	self, err = lang.Package("")
	require.NoError(t, err)
	assert.Same(t, lang, self)

	viaRoot, err := classes.Package("java.lang")
	require.NoError(t, err)
	assert.Same(t, lang, viaRoot)

	object := mustGet(t, classes, "java.lang.Object")
	assert.Same(t, lang, object.Package())
	assert.True(t, lang.ContainsClass(object))
	assert.False(t, javaPkg.ContainsClass(object))

	assert.Equal(t, []string{"java.lang.Object", "java.util.List"}, names(javaPkg.AllClasses()))
	assert.Empty(t, javaPkg.Classes())
	assert.Equal(t, []string{"java", "java.lang", "java.util"}, names(root.AllSubPackages()))
}

func TestPackageNotFound(t *testing.T) {
	classes := importClasses(t, classgen.New("java.lang.Object").Extends(""))
	javaPkg, err := classes.Package("java")
	require.NoError(t, err)

	_, err = javaPkg.Package("some.pkg")
	require.Error(t, err)
	assert.ErrorIs(t, err, java.ErrNotFound)
	assert.Equal(t, "Package <java> does not contain package some.pkg", err.Error())
	assert.False(t, javaPkg.ContainsPackage("some.pkg"))

	lang, err := javaPkg.Package("lang")
	require.NoError(t, err)
	_, err = lang.Class("java.lang.String")
	assert.ErrorIs(t, err, java.ErrNotFound)
	c, err := lang.ClassWithSimpleName("Object")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Object", c.Name())
}

func TestPrimitivesAndArraysStayOutOfTree(t *testing.T) {
	c := classgen.New("com.example.Holder")
	c.Field("values", "int[]")
	c.Field("holders", "com.example.Holder[][]")

	classes := importClasses(t, c)
	root := classes.DefaultPackage()

	for _, cls := range root.AllClasses() {
		assert.False(t, cls.IsPrimitive(), cls.Name())
		assert.False(t, cls.IsArray(), cls.Name())
	}

	holder := mustGet(t, classes, "com.example.Holder")
	arr, ok := classes.Find("com.example.Holder[][]")
	require.True(t, ok)
	assert.Same(t, holder.Package(), arr.Package())
	assert.Same(t, holder, arr.BaseComponentType())

	intClass, ok := classes.Find("int")
	require.True(t, ok)
	assert.Same(t, root, intClass.Package())
	assert.Equal(t, java.StubModifiers, intClass.Modifiers())
}

func packageExamples() []*classgen.Class {
	const p = "com.example.pkgs."
	first1 := classgen.New(p + "first.First1")
	first2 := classgen.New(p + "first.First2")

	second1 := classgen.New(p + "second.Second1")
	second1.Field("first", p+"first.First2")
	sibling := classgen.New(p + "second.ClassDependingOnOtherSecondClass")
	sibling.Field("other", p+"second.Second1")
	secondSub1 := classgen.New(p + "second.sub.SecondSub1").Extends(p + "third.sub.ThirdSub1")
	secondSub1.Field("first", p+"first.First1")

	thirdSub1 := classgen.New(p + "third.sub.ThirdSub1")
	thirdSub1.Field("first", p+"first.First1")

	anyClass := classgen.New(p + "unrelated.AnyClass")
	return []*classgen.Class{first1, first2, second1, sibling, secondSub1, thirdSub1, anyClass}
}

type edge struct{ origin, target string }

func edges(deps []java.Dependency) []edge {
	out := make([]edge, len(deps))
	for i, d := range deps {
		out[i] = edge{d.Origin.SimpleName(), d.Target.SimpleName()}
	}
	return out
}

func TestPackageClassDependencies(t *testing.T) {
	classes := importClasses(t, packageExamples()...)
	pkg := func(name string) *java.Package {
		p, err := classes.Package("com.example.pkgs." + name)
		require.NoError(t, err)
		return p
	}

	t.Run("from self", func(t *testing.T) {
		second := edges(pkg("second").ClassDependenciesFromSelf())
		assert.Contains(t, second, edge{"Second1", "First2"})
		assert.Contains(t, second, edge{"SecondSub1", "ThirdSub1"})
		assert.Contains(t, second, edge{"SecondSub1", "First1"})
		assert.NotContains(t, second, edge{"ClassDependingOnOtherSecondClass", "Second1"})

		assert.ElementsMatch(t, []edge{{"AnyClass", "Object"}}, edges(pkg("unrelated").ClassDependenciesFromSelf()))
	})

	t.Run("to self", func(t *testing.T) {
		first := edges(pkg("first").ClassDependenciesToSelf())
		assert.Contains(t, first, edge{"Second1", "First2"})
		assert.Contains(t, first, edge{"ThirdSub1", "First1"})
		assert.Contains(t, first, edge{"SecondSub1", "First1"})
		assert.Empty(t, pkg("unrelated").ClassDependenciesToSelf())
	})

	t.Run("one edge per class pair", func(t *testing.T) {
		deps := pkg("third").ClassDependenciesFromSelf()
		seen := map[edge]bool{}
		for _, e := range edges(deps) {
			assert.False(t, seen[e], "duplicate %v", e)
			seen[e] = true
		}
	})
}

func TestPackageDependencies(t *testing.T) {
	classes := importClasses(t, packageExamples()...)
	pkg := func(name string) *java.Package {
		p, err := classes.Package(name)
		require.NoError(t, err)
		return p
	}
	const p = "com.example.pkgs."

	assert.Equal(t, []string{p + "first", p + "third.sub", "java.lang"},
		names(pkg(p+"second").PackageDependenciesFromSelf()))
	assert.Equal(t, []string{p + "first", "java.lang"},
		names(pkg(p+"third").PackageDependenciesFromSelf()))
	assert.Equal(t, []string{p + "second", p + "second.sub", p + "third.sub"},
		names(pkg(p+"first").PackageDependenciesToSelf()))
	assert.Equal(t, []string{p + "second.sub"},
		names(pkg(p+"third").PackageDependenciesToSelf()))
	assert.Empty(t, pkg(p+"unrelated").PackageDependenciesToSelf())

	direct := pkg(p + "second").DirectDependenciesFromSelf()
	require.NotEmpty(t, direct)
	var targets []string
	for _, d := range direct {
		assert.Same(t, pkg(p+"second"), d.Origin)
		assert.NotEmpty(t, d.Dependencies)
		targets = append(targets, d.Target.Name())
	}
	assert.Equal(t, []string{p + "first", p + "second", "java.lang"}, targets)
}

func TestPackageInfo(t *testing.T) {
	annotated := classgen.Interface("com.example.annotated.package-info").
		Annotate(classgen.Ann("java.lang.Deprecated"))
	plain := classgen.New("com.example.plain.Thing")

	classes := importClasses(t, annotated, plain)

	ann, err := classes.Package("com.example.annotated")
	require.NoError(t, err)
	info, err := ann.PackageInfo()
	require.NoError(t, err)
	assert.Equal(t, "com.example.annotated.package-info", info.Name())
	assert.True(t, ann.IsAnnotatedWith("java.lang.Deprecated"))
	a, err := ann.AnnotationOfType("java.lang.Deprecated")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Deprecated", a.Type().Name())

	_, err = ann.AnnotationOfType("not.There")
	assert.EqualError(t, err, "Package <com.example.annotated> is not annotated with @not.There")

	pl, err := classes.Package("com.example.plain")
	require.NoError(t, err)
	_, err = pl.PackageInfo()
	assert.EqualError(t, err, "Package <com.example.plain> does not contain a package-info.java")
	assert.Empty(t, pl.Annotations())
	_, err = pl.AnnotationOfType("java.lang.Deprecated")
	assert.EqualError(t, err, "Package <com.example.plain> is not annotated with @java.lang.Deprecated")
}

func TestPackageVisitors(t *testing.T) {
	classes := importClasses(t, packageExamples()...)
	root := classes.DefaultPackage()

	var visited []string
	root.AcceptClasses(java.SimpleNameStartingWith("Second"), func(c *java.Class) {
		visited = append(visited, c.SimpleName())
	})
	assert.Equal(t, []string{"Second1", "SecondSub1"}, visited)

	var packages []string
	root.AcceptPackages(java.NameContaining[*java.Package](".sub"), func(p *java.Package) {
		packages = append(packages, p.Name())
	})
	assert.Equal(t, []string{"com.example.pkgs.second.sub", "com.example.pkgs.third.sub"}, packages)
}
