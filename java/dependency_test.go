package java_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func callerAndTarget() []*classgen.Class {
	base := classgen.New("com.example.Base")
	base.Field("count", "int").Access(classfile.AccProtected)

	target := classgen.New("com.example.Target").Extends("com.example.Base").Source("Target.java")
	target.Constructor("()V")
	target.Method("work", "(I)Ljava/lang/String;")

	caller := classgen.New("com.example.Caller").Source("Caller.java")
	caller.Field("targets", "com.example.Target[]")
	caller.Method("run", "()V").Code(func(code *classgen.Code) {
		code.Line(10).New("com.example.Target").
			Op(0x59). // dup
			InvokeSpecial("com.example.Target", "<init>", "()V").
			Line(11).InvokeVirtual("com.example.Target", "work", "(I)Ljava/lang/String;").
			Line(12).GetField("com.example.Target", "count", "I").
			Line(13).InvokeVirtual("com.example.Caller", "helper", "()V").
			Return()
	})
	caller.Method("helper", "()V")
	return []*classgen.Class{base, target, caller}
}

func TestAccessesResolveTargets(t *testing.T) {
	classes := importClasses(t, callerAndTarget()...)
	caller := mustGet(t, classes, "com.example.Caller")
	target := mustGet(t, classes, "com.example.Target")
	base := mustGet(t, classes, "com.example.Base")

	run, err := caller.Method("run")
	require.NoError(t, err)
	accesses := run.AccessesFromSelf()
	require.Len(t, accesses, 4)

	t.Run("constructor call", func(t *testing.T) {
		ctor, err := target.Constructor()
		require.NoError(t, err)
		assert.Equal(t, java.AccessConstructorCall, accesses[0].Kind())
		assert.Same(t, ctor, accesses[0].TargetCodeUnit())
		assert.Equal(t, 10, accesses[0].Line())
	})

	t.Run("method call", func(t *testing.T) {
		work, err := target.Method("work", "int")
		require.NoError(t, err)
		assert.Same(t, work, accesses[1].TargetCodeUnit())
		assert.Equal(t, []*java.Access{accesses[1]}, work.CallsToSelf())
		assert.Equal(t,
			"Method <com.example.Caller.run()> calls method <com.example.Target.work(int)> in (Caller.java:11)",
			accesses[1].Description())
	})

	t.Run("inherited field", func(t *testing.T) {
		count, err := base.Field("count")
		require.NoError(t, err)
		assert.Same(t, target, accesses[2].TargetOwner())
		assert.Same(t, count, accesses[2].TargetField())
		assert.Equal(t, []*java.Access{accesses[2]}, count.AccessesToSelf())
	})

	assert.Len(t, caller.MethodCallsFromSelf(), 2)
	assert.Len(t, caller.ConstructorCallsFromSelf(), 1)
	assert.Len(t, caller.FieldAccessesFromSelf(), 1)
	assert.Len(t, target.AccessesToSelf(), 3)
}

func TestDependenciesFromSelf(t *testing.T) {
	classes := importClasses(t, callerAndTarget()...)
	caller := mustGet(t, classes, "com.example.Caller")
	target := mustGet(t, classes, "com.example.Target")

	var toTarget []java.Dependency
	for _, d := range caller.DependenciesFromSelf() {
		assert.NotSame(t, caller, d.Target, "self dependency %s", d)
		assert.False(t, d.Target.IsPrimitive(), "primitive dependency %s", d)
		assert.False(t, d.Target.IsArray(), "array dependency %s", d)
		if d.Target == target {
			toTarget = append(toTarget, d)
		}
	}

	kinds := make([]java.DependencyKind, len(toTarget))
	for i, d := range toTarget {
		kinds[i] = d.Kind
	}
	assert.Equal(t, []java.DependencyKind{
		java.DependencyFieldType,
		java.DependencyConstructorCall,
		java.DependencyMethodCall,
		java.DependencyFieldGet,
	}, kinds)
	assert.Equal(t, "Field <com.example.Caller.targets> has type <com.example.Target[]> in (Caller.java:0)", toTarget[0].Description)

	assert.Subset(t, target.DependenciesToSelf(), toTarget)
}

func TestDependenciesOfClassDeclaration(t *testing.T) {
	c := classgen.New("com.example.Service").
		Extends("com.example.AbstractService").
		Implements("com.example.Api").
		Annotate(classgen.Ann("com.example.Component", "value", classgen.ClassLit("com.example.Config")))
	c.Method("call", "(Lcom/example/Request;)Lcom/example/Response;").
		Throws("com.example.Failure").
		AnnotateParameter(0, classgen.Ann("com.example.Valid"))

	classes := importClasses(t, c)
	service := mustGet(t, classes, "com.example.Service")

	byTarget := map[string][]java.DependencyKind{}
	for _, d := range service.DependenciesFromSelf() {
		byTarget[d.Target.Name()] = append(byTarget[d.Target.Name()], d.Kind)
	}
	tests := []struct {
		target string
		kind   java.DependencyKind
	}{
		{"com.example.AbstractService", java.DependencyExtends},
		{"com.example.Api", java.DependencyImplements},
		{"com.example.Component", java.DependencyAnnotationType},
		{"com.example.Config", java.DependencyAnnotationParameter},
		{"com.example.Request", java.DependencyParameterType},
		{"com.example.Response", java.DependencyReturnType},
		{"com.example.Failure", java.DependencyThrows},
		{"com.example.Valid", java.DependencyAnnotationType},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Contains(t, byTarget[tt.target], tt.kind)
		})
	}
}

func TestDependencyKindNames(t *testing.T) {
	kind, ok := java.ParseDependencyKind(java.DependencyTypeParameterBound.String())
	assert.True(t, ok)
	assert.Equal(t, java.DependencyTypeParameterBound, kind)

	_, ok = java.ParseDependencyKind("NOPE")
	assert.False(t, ok)
}
