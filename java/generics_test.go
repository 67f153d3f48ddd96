package java_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func genericClass() *classgen.Class {
	c := classgen.New("com.example.Generic").Signature(
		"<T:Ljava/lang/Object;" +
			"U:Ljava/lang/Number;" +
			"V:Ljava/util/HashMap<Ljava/lang/String;Ljava/lang/String;>;:Ljava/lang/Iterable<Ljava/lang/String;>;:Ljava/io/Serializable;" +
			"W::Ljava/lang/Comparable<TW;>;" +
			">Ljava/lang/Object;")
	c.Field("items", "java.util.List").Signature("Ljava/util/List<+TT;>;")
	c.Field("numbers", "java.lang.Number[]").Signature("[TU;")
	c.Field("names", "java.lang.String[]")
	c.Field("lookup", "java.util.Map").Signature("Ljava/util/Map<Ljava/lang/String;[Ljava/lang/String;>;")
	c.Method("pick", "(Ljava/lang/Exception;Ljava/util/List;)Ljava/lang/Exception;").
		Signature("<X:Ljava/lang/Exception;>(TX;Ljava/util/List<-TT;>;)TX;")
	return c
}

func TestTypeParameterErasure(t *testing.T) {
	classes := importClasses(t, genericClass())
	c := mustGet(t, classes, "com.example.Generic")

	params := c.TypeParameters()
	require.Len(t, params, 4)
	assert.Equal(t, []string{"T", "U", "V", "W"}, names(params))

	tests := []struct {
		name    string
		param   *java.TypeVariable
		erasure string
		bounds  []string
	}{
		{"object bound", params[0], "java.lang.Object", []string{"java.lang.Object"}},
		{"single bound", params[1], "java.lang.Number", []string{"java.lang.Number"}},
		{
			"leftmost of several bounds", params[2], "java.util.HashMap",
			[]string{"java.util.HashMap<java.lang.String, java.lang.String>", "java.lang.Iterable<java.lang.String>", "java.io.Serializable"},
		},
		{"interface bound only", params[3], "java.lang.Comparable", []string{"java.lang.Comparable<W>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.erasure, tt.param.Erasure().Name())
			assert.Equal(t, tt.bounds, names(tt.param.Bounds()))
			assert.Same(t, c, tt.param.Owner())
			assert.False(t, tt.param.IsStub())
		})
	}
}

func TestRecursiveBoundRefersToItself(t *testing.T) {
	classes := importClasses(t, genericClass())
	w := mustGet(t, classes, "com.example.Generic").TypeParameters()[3]

	bound, ok := w.Bounds()[0].(*java.ParameterizedType)
	require.True(t, ok)
	assert.Same(t, w, bound.TypeArguments()[0])
	assert.Equal(t, "W extends java.lang.Comparable<W>", w.Declaration())
}

func TestGenericFieldTypes(t *testing.T) {
	classes := importClasses(t, genericClass())
	c := mustGet(t, classes, "com.example.Generic")
	params := c.TypeParameters()

	t.Run("wildcard bounded by class type variable", func(t *testing.T) {
		f, err := c.Field("items")
		require.NoError(t, err)
		pt, ok := f.Type().(*java.ParameterizedType)
		require.True(t, ok)
		assert.Equal(t, "java.util.List", pt.RawType().Name())
		wildcard, ok := pt.TypeArguments()[0].(*java.WildcardType)
		require.True(t, ok)
		assert.Same(t, params[0], wildcard.UpperBounds()[0])
		assert.Equal(t, "java.lang.Object", wildcard.Erasure().Name())
		assert.Equal(t, "java.util.List<? extends T>", f.Type().Name())
	})

	t.Run("generic array erases to array of bound", func(t *testing.T) {
		f, err := c.Field("numbers")
		require.NoError(t, err)
		ga, ok := f.Type().(*java.GenericArrayType)
		require.True(t, ok)
		assert.Same(t, params[1], ga.ComponentType())
		assert.Equal(t, "java.lang.Number[]", ga.Erasure().Name())
		assert.Same(t, f.RawType(), ga.Erasure())
	})

	t.Run("concrete array", func(t *testing.T) {
		f, err := c.Field("names")
		require.NoError(t, err)
		arr := f.RawType()
		assert.Same(t, arr, f.Type())
		assert.True(t, arr.IsArray())
		assert.Equal(t, "java.lang.String", arr.ComponentType().Name())
		assert.Equal(t, java.StubModifiers, arr.Modifiers())
	})

	t.Run("concrete array argument", func(t *testing.T) {
		f, err := c.Field("lookup")
		require.NoError(t, err)
		pt := f.Type().(*java.ParameterizedType)
		arg, ok := pt.TypeArguments()[1].(*java.Class)
		require.True(t, ok)
		assert.Equal(t, "java.lang.String[]", arg.Name())
	})
}

func TestGenericMethod(t *testing.T) {
	classes := importClasses(t, genericClass())
	c := mustGet(t, classes, "com.example.Generic")

	m, err := c.Method("pick", "java.lang.Exception", "java.util.List")
	require.NoError(t, err)

	require.Len(t, m.TypeParameters(), 1)
	x := m.TypeParameters()[0]
	assert.Equal(t, "X", x.Name())
	assert.Same(t, m, x.Owner())
	assert.Equal(t, "java.lang.Exception", x.Erasure().Name())

	assert.Same(t, x, m.ReturnType())
	assert.Same(t, x, m.Parameters()[0].Type())
	assert.Equal(t, "java.lang.Exception", m.RawReturnType().Name())

	list := m.Parameters()[1].Type().(*java.ParameterizedType)
	wildcard := list.TypeArguments()[0].(*java.WildcardType)
	assert.Same(t, c.TypeParameters()[0], wildcard.LowerBounds()[0])
	assert.Equal(t, "java.lang.Object", wildcard.Erasure().Name())
}

func TestInnerClassUsesTypeVariableOfOuterClass(t *testing.T) {
	outer := classgen.New("com.example.Outer").Signature("<T:Ljava/lang/Number;>Ljava/lang/Object;")
	inner := classgen.New("com.example.Outer$Inner").
		InnerClass("com.example.Outer$Inner", "com.example.Outer", "Inner", classfile.AccPublic)
	inner.Field("value", "java.lang.Number").Signature("TT;")

	t.Run("outer class imported", func(t *testing.T) {
		classes := importClasses(t, outer, inner)
		o := mustGet(t, classes, "com.example.Outer")
		f, err := mustGet(t, classes, "com.example.Outer$Inner").Field("value")
		require.NoError(t, err)

		assert.Same(t, o.TypeParameters()[0], f.Type())
		assert.Equal(t, "java.lang.Number", f.Type().Erasure().Name())
	})

	t.Run("outer class missing", func(t *testing.T) {
		classes := importClasses(t, inner)
		in := mustGet(t, classes, "com.example.Outer$Inner")
		f, err := in.Field("value")
		require.NoError(t, err)

		tv, ok := f.Type().(*java.TypeVariable)
		require.True(t, ok)
		assert.True(t, tv.IsStub())
		assert.Empty(t, tv.Bounds())
		assert.Nil(t, tv.Owner())
		assert.Equal(t, "java.lang.Object", tv.Erasure().Name())
		assert.True(t, in.EnclosingClass().IsStub())
		assert.Equal(t, "Inner", in.SimpleName())
	})
}

func TestParameterizedInnerClassOwner(t *testing.T) {
	c := classgen.New("com.example.User")
	c.Field("entry", "com.example.Outer$Inner").
		Signature("Lcom/example/Outer<Ljava/lang/String;>.Inner<Ljava/lang/Integer;>;")

	classes := importClasses(t, c)
	f, err := mustGet(t, classes, "com.example.User").Field("entry")
	require.NoError(t, err)

	pt := f.Type().(*java.ParameterizedType)
	assert.Equal(t, "com.example.Outer$Inner", pt.RawType().Name())
	owner, ok := pt.OwnerType().(*java.ParameterizedType)
	require.True(t, ok)
	assert.Equal(t, "com.example.Outer<java.lang.String>", owner.Name())
	assert.Equal(t, "com.example.Outer<java.lang.String>.Inner<java.lang.Integer>", pt.Name())
}

func TestGenericSupertypes(t *testing.T) {
	c := classgen.New("com.example.Names").
		Extends("java.util.ArrayList").
		Implements("java.lang.Comparable", "java.io.Serializable").
		Signature("Ljava/util/ArrayList<Ljava/lang/String;>;Ljava/lang/Comparable<Lcom/example/Names;>;Ljava/io/Serializable;")

	classes := importClasses(t, c)
	names := mustGet(t, classes, "com.example.Names")

	assert.Equal(t, "java.util.ArrayList<java.lang.String>", names.GenericSuperclass().Name())
	assert.Equal(t, "java.util.ArrayList", names.Superclass().Name())
	generic := names.GenericInterfaces()
	require.Len(t, generic, 2)
	assert.Equal(t, "java.lang.Comparable<com.example.Names>", generic[0].Name())
	assert.Same(t, names.Interfaces()[1], generic[1])
}

func TestMalformedSignatureFallsBackToDescriptor(t *testing.T) {
	c := classgen.New("com.example.Broken").Signature("<T:>garbage")
	c.Field("items", "java.util.List").Signature("Ljava/util/List<")

	classes := importClasses(t, c)
	broken := mustGet(t, classes, "com.example.Broken")

	assert.Empty(t, broken.TypeParameters())
	f, err := broken.Field("items")
	require.NoError(t, err)
	assert.Same(t, f.RawType(), f.Type())
}
